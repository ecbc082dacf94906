// Package git describes the source repository a run documents and clones it.
//
// The package provides:
//   - Reference: a remote location and the identifier its clone is stored under
//   - ExecCloner: shallow clone through the git executable
//   - NativeCloner: the same clone done in-process with go-git
//   - Head: commit information of an existing clone
package git
