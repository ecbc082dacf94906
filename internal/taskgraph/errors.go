package taskgraph

import (
	"fmt"
	"strings"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
)

// DuplicateTaskError is returned when a task name is registered twice.
type DuplicateTaskError struct {
	Name string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task %q is already registered", e.Name)
}
func (e *DuplicateTaskError) Category() derrors.ErrorCategory { return derrors.CategoryGraph }

// UnknownTaskError is returned when a target or a dependency names a task
// that is not registered.
type UnknownTaskError struct {
	Name string
	// ReferencedBy is empty when Name was requested as a target.
	ReferencedBy string
}

func (e *UnknownTaskError) Error() string {
	if e.ReferencedBy != "" {
		return fmt.Sprintf("task %q depends on unknown task %q", e.ReferencedBy, e.Name)
	}
	return fmt.Sprintf("unknown task %q", e.Name)
}

// Category classifies an unknown target as a usage error and an unknown
// dependency as a graph definition error.
func (e *UnknownTaskError) Category() derrors.ErrorCategory {
	if e.ReferencedBy != "" {
		return derrors.CategoryGraph
	}
	return derrors.CategoryValidation
}

// CyclicDependencyError is returned when the tasks of a plan cannot be
// ordered. Cycle lists the tasks of one cycle, first task repeated last.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency: " + strings.Join(e.Cycle, " -> ")
}
func (e *CyclicDependencyError) Category() derrors.ErrorCategory { return derrors.CategoryGraph }

// TaskFailedError reports the task that halted an execution.
type TaskFailedError struct {
	Task string
	Err  error
}

func (e *TaskFailedError) Error() string {
	return fmt.Sprintf("task %q failed: %v", e.Task, e.Err)
}
func (e *TaskFailedError) Unwrap() error { return e.Err }

// Category is the category of the underlying failure, build if it has none.
func (e *TaskFailedError) Category() derrors.ErrorCategory {
	if c := derrors.GetCategory(e.Err); c != derrors.CategoryInternal {
		return c
	}
	return derrors.CategoryBuild
}
