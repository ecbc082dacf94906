// Package errors provides a lightweight structured error type (ClassifiedError)
// for category-based classification of run failures and their CLI exit codes.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of an error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Task graph errors
	CategoryGraph ErrorCategory = "graph"

	// External tools and the filesystem
	CategoryProcess    ErrorCategory = "process"
	CategoryGit        ErrorCategory = "git"
	CategoryFileSystem ErrorCategory = "filesystem"

	// Build and runtime errors
	CategoryBuild    ErrorCategory = "build"
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// Categorized is implemented by typed errors of other packages so the CLI
// adapter can classify them without importing those packages.
type Categorized interface {
	error
	Category() ErrorCategory
}

// ExitCoder is implemented by errors that carry the exit code of a failed
// external process.
type ExitCoder interface {
	error
	ExitCode() int
}

// ClassifiedError is a structured error with category, severity and context
type ClassifiedError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for ClassifiedError
type ContextFields map[string]any

// Error implements the error interface
func (e *ClassifiedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *ClassifiedError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *ClassifiedError) WithContext(key string, value any) *ClassifiedError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new ClassifiedError
func New(category ErrorCategory, severity ErrorSeverity, message string) *ClassifiedError {
	return &ClassifiedError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new ClassifiedError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *ClassifiedError {
	return &ClassifiedError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	return err != nil && GetCategory(err) == category
}

// GetCategory extracts the category from the outermost classified error in the
// chain, or returns CategoryInternal if there is none.
func GetCategory(err error) ErrorCategory {
	for e := err; e != nil; e = stdErrors.Unwrap(e) {
		switch v := e.(type) {
		case *ClassifiedError:
			return v.Category
		case Categorized:
			return v.Category()
		}
	}
	return CategoryInternal
}

// ExitCodeOf returns the exit code of the first failed external process found
// in the error chain.
func ExitCodeOf(err error) (int, bool) {
	var ec ExitCoder
	if stdErrors.As(err, &ec) {
		return ec.ExitCode(), true
	}
	return 0, false
}
