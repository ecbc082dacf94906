package git

import (
	"fmt"

	gogit "github.com/go-git/go-git/v5"
)

// HeadInfo describes the checked out commit of a clone.
type HeadInfo struct {
	Commit string
	// Branch is empty for a detached HEAD.
	Branch  string
	Subject string
}

// Short returns the abbreviated commit hash.
func (h HeadInfo) Short() string {
	if len(h.Commit) > 8 {
		return h.Commit[:8]
	}
	return h.Commit
}

// Head reads HEAD of the clone at repoPath.
func Head(repoPath string) (HeadInfo, error) {
	repository, err := gogit.PlainOpen(repoPath)
	if err != nil {
		return HeadInfo{}, fmt.Errorf("open repository %s: %w", repoPath, err)
	}
	ref, err := repository.Head()
	if err != nil {
		return HeadInfo{}, fmt.Errorf("resolve HEAD of %s: %w", repoPath, err)
	}
	info := HeadInfo{Commit: ref.Hash().String()}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	if commit, err := repository.CommitObject(ref.Hash()); err == nil {
		info.Subject = firstLine(commit.Message)
	}
	return info, nil
}

func firstLine(s string) string {
	for i, r := range s {
		if r == '\n' || r == '\r' {
			return s[:i]
		}
	}
	return s
}
