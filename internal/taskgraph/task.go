package taskgraph

import (
	"context"
	"fmt"
)

// Action is the work of a task.
type Action func(ctx context.Context) error

// Condition decides, when the task's turn comes, whether its action runs.
type Condition func() bool

// Task is a named, orderable unit of build work.
type Task struct {
	Name        string
	Description string
	Action      Action
	// DependsOn names tasks that are pulled into the plan and complete first.
	DependsOn []string
	// After names tasks this one must run after when both are planned.
	After []string
	// Before names tasks this one must run before when both are planned.
	Before []string
	// Condition, when set and false, skips the action.
	Condition Condition
}

func (t *Task) clone() *Task {
	c := *t
	c.DependsOn = append([]string(nil), t.DependsOn...)
	c.After = append([]string(nil), t.After...)
	c.Before = append([]string(nil), t.Before...)
	return &c
}

func (t *Task) shouldRun() bool {
	return t.Condition == nil || t.Condition()
}

// State is the execution state of a task within one execution.
type State int

const (
	Pending State = iota
	Running
	Completed
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// IsTerminal reports whether the state is final for an execution.
func (s State) IsTerminal() bool {
	return s == Completed || s == Failed
}

func isAllowedTransition(from, to State) bool {
	switch from {
	case Pending:
		return to == Running || to == Completed
	case Running:
		return to == Completed || to == Failed
	default:
		return false
	}
}
