// Package workspace manages the lifecycle of the directories a run stages its
// work in. Deletion is idempotent; creation is left to the invoked tools.
package workspace
