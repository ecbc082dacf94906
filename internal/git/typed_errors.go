package git

import (
	"fmt"
	"strings"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
)

// Base typed git errors enabling structured classification without string parsing upstream.
type AuthError struct {
	Op, URL string
	Err     error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s auth error for %s: %v", e.Op, e.URL, e.Err)
}
func (e *AuthError) Unwrap() error                   { return e.Err }
func (e *AuthError) Category() derrors.ErrorCategory { return derrors.CategoryGit }

type NotFoundError struct {
	Op, URL string
	Err     error
}

func (e *NotFoundError) Error() string                   { return fmt.Sprintf("%s not found %s: %v", e.Op, e.URL, e.Err) }
func (e *NotFoundError) Unwrap() error                   { return e.Err }
func (e *NotFoundError) Category() derrors.ErrorCategory { return derrors.CategoryGit }

type UnsupportedProtocolError struct {
	Op, URL string
	Err     error
}

func (e *UnsupportedProtocolError) Error() string {
	return fmt.Sprintf("%s unsupported protocol %s: %v", e.Op, e.URL, e.Err)
}
func (e *UnsupportedProtocolError) Unwrap() error                   { return e.Err }
func (e *UnsupportedProtocolError) Category() derrors.ErrorCategory { return derrors.CategoryGit }

// CloneError is any other clone failure.
type CloneError struct {
	URL string
	Err error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("failed to clone repository %s: %v", e.URL, e.Err)
}
func (e *CloneError) Unwrap() error                   { return e.Err }
func (e *CloneError) Category() derrors.ErrorCategory { return derrors.CategoryGit }

// classifyCloneError wraps go-git errors into typed failures.
func classifyCloneError(url string, err error) error {
	l := strings.ToLower(err.Error())
	switch {
	case strings.Contains(l, "authentication") || strings.Contains(l, "auth fail") || strings.Contains(l, "invalid username or password"):
		return &AuthError{Op: "clone", URL: url, Err: err}
	case strings.Contains(l, "not found") || strings.Contains(l, "repository does not exist"):
		return &NotFoundError{Op: "clone", URL: url, Err: err}
	case strings.Contains(l, "unsupported protocol") || strings.Contains(l, "protocol not supported"):
		return &UnsupportedProtocolError{Op: "clone", URL: url, Err: err}
	default:
		return &CloneError{URL: url, Err: err}
	}
}
