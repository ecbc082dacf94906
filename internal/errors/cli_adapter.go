package errors

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"log/slog"
)

// Exit codes for errors that do not carry a process exit code.
const (
	ExitGeneric    = 1
	ExitValidation = 2
	ExitGraph      = 3
	ExitConfig     = 7
	ExitExternal   = 8
	ExitInternal   = 10
	ExitBuild      = 11
	ExitRuntime    = 12
)

// CLIErrorAdapter handles error presentation and exit code determination for CLI applications.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error. A failed
// external process propagates its own exit code.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}
	if code, ok := ExitCodeOf(err); ok && code > 0 {
		return code
	}
	return a.exitCodeFromCategory(GetCategory(err))
}

// exitCodeFromCategory maps error categories to exit codes.
func (a *CLIErrorAdapter) exitCodeFromCategory(category ErrorCategory) int {
	switch category {
	case CategoryValidation:
		return ExitValidation // Invalid usage or unknown target
	case CategoryGraph:
		return ExitGraph
	case CategoryConfig:
		return ExitConfig
	case CategoryProcess, CategoryGit:
		return ExitExternal // External tool could not run
	case CategoryBuild, CategoryFileSystem:
		return ExitBuild
	case CategoryRuntime:
		return ExitRuntime
	case CategoryInternal:
		return ExitInternal
	default:
		return ExitGeneric
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	if ce, ok := err.(*ClassifiedError); ok {
		return a.formatClassified(ce)
	}

	return fmt.Sprintf("Error: %v", err)
}

// formatClassified formats a ClassifiedError for display.
func (a *CLIErrorAdapter) formatClassified(err *ClassifiedError) string {
	if a.verbose {
		return err.Error()
	}

	msg := err.Message
	if err.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, err.Cause)
	}
	switch err.Category {
	case CategoryConfig, CategoryValidation:
		return msg
	default:
		return fmt.Sprintf("%s: %s", err.Category, msg)
	}
}

// Report logs the error when appropriate, writes the user-facing message to w
// and returns the exit code the process should terminate with.
func (a *CLIErrorAdapter) Report(w io.Writer, err error) int {
	if err == nil {
		return 0
	}

	if a.shouldLog(err) {
		a.logError(err)
	}

	_, _ = fmt.Fprintf(w, "%s\n", a.FormatError(err))
	return a.ExitCodeFor(err)
}

// shouldLog determines if an error should be logged.
func (a *CLIErrorAdapter) shouldLog(err error) bool {
	if a.verbose {
		return true
	}

	var ce *ClassifiedError
	if stdErrors.As(err, &ce) {
		return ce.Category == CategoryInternal ||
			ce.Category == CategoryRuntime
	}

	return true
}

// logError logs an error with appropriate level and context.
func (a *CLIErrorAdapter) logError(err error) {
	var ce *ClassifiedError
	if stdErrors.As(err, &ce) {
		level := a.slogLevelFromSeverity(ce.Severity)
		attrs := []slog.Attr{
			slog.String("category", string(ce.Category)),
		}
		for k, v := range ce.Context {
			attrs = append(attrs, slog.Any(k, v))
		}

		a.logger.LogAttrs(context.Background(), level, ce.Message, attrs...)
		return
	}

	a.logger.Error("Run failed", slog.String("category", string(GetCategory(err))), slog.String("error", err.Error()))
}

// slogLevelFromSeverity converts ClassifiedError severity to slog level.
func (a *CLIErrorAdapter) slogLevelFromSeverity(severity ErrorSeverity) slog.Level {
	switch severity {
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarning:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
