package taskgraph

import (
	"context"
	"fmt"
	"time"

	derrors "git.home.luguber.info/inful/docrunner/internal/errors"
	"git.home.luguber.info/inful/docrunner/internal/logfields"
	"git.home.luguber.info/inful/docrunner/internal/metrics"
)

// TaskResult is the outcome of one planned task.
type TaskResult struct {
	Name     string
	State    State
	Skipped  bool
	Duration time.Duration
	Err      error
}

// Result reports the state of every planned task after an execution.
type Result struct {
	Targets  []string
	Tasks    []TaskResult
	Duration time.Duration
}

// State returns the state of the named task, Pending if it is not planned.
func (r *Result) State(name string) State {
	for _, t := range r.Tasks {
		if key(t.Name) == key(name) {
			return t.State
		}
	}
	return Pending
}

// Failed returns the task that halted the execution, if any.
func (r *Result) Failed() (TaskResult, bool) {
	for _, t := range r.Tasks {
		if t.State == Failed {
			return t, true
		}
	}
	return TaskResult{}, false
}

// Succeeded reports whether every planned task completed.
func (r *Result) Succeeded() bool {
	for _, t := range r.Tasks {
		if t.State != Completed {
			return false
		}
	}
	return true
}

// execution tracks per-task state for one Execute call.
type execution struct {
	results []TaskResult
}

func (e *execution) transition(i int, from, to State) error {
	cur := e.results[i].State
	if cur != from {
		return derrors.InternalError(fmt.Sprintf("invalid transition for %q: expected %s, got %s", e.results[i].Name, from, cur), nil)
	}
	if !isAllowedTransition(from, to) {
		return derrors.InternalError(fmt.Sprintf("disallowed transition for %q: %s -> %s", e.results[i].Name, from, to), nil)
	}
	e.results[i].State = to
	return nil
}

// Execute runs the plan's tasks one at a time in plan order. The first failing
// task halts the execution: it is reported Failed, every later task stays
// Pending and the returned error is a *TaskFailedError. Tasks are never
// retried and side effects are not rolled back.
func (g *Graph) Execute(ctx context.Context, plan *Plan) (*Result, error) {
	exec := &execution{results: make([]TaskResult, len(plan.Tasks))}
	for i, t := range plan.Tasks {
		exec.results[i] = TaskResult{Name: t.Name, State: Pending}
	}
	result := &Result{Targets: plan.Targets}
	start := time.Now()
	defer func() {
		result.Tasks = exec.results
		result.Duration = time.Since(start)
	}()

	for i, t := range plan.Tasks {
		if err := ctx.Err(); err != nil {
			g.recorder.IncTaskResult(t.Name, metrics.ResultCanceled)
			return result, derrors.Wrap(err, derrors.CategoryRuntime, derrors.SeverityFatal, "run canceled").
				WithContext("task", t.Name)
		}

		if plan.IsSkipped(t.Name) || !t.shouldRun() {
			if err := exec.transition(i, Pending, Completed); err != nil {
				return result, err
			}
			exec.results[i].Skipped = true
			g.recorder.IncTaskResult(t.Name, metrics.ResultSkipped)
			g.logger.Info("Skipping task", logfields.Task(t.Name))
			continue
		}

		if err := exec.transition(i, Pending, Running); err != nil {
			return result, err
		}
		g.logger.Info("Running task", logfields.Task(t.Name))
		taskStart := time.Now()

		var err error
		if t.Action != nil {
			err = t.Action(ctx)
		}

		elapsed := time.Since(taskStart)
		exec.results[i].Duration = elapsed
		g.recorder.ObserveTaskDuration(t.Name, elapsed)

		if err != nil {
			exec.results[i].Err = err
			if terr := exec.transition(i, Running, Failed); terr != nil {
				return result, terr
			}
			g.recorder.IncTaskResult(t.Name, metrics.ResultFailed)
			g.logger.Error("Task failed",
				logfields.Task(t.Name),
				logfields.DurationMS(float64(elapsed.Milliseconds())),
				logfields.Error(err))
			return result, &TaskFailedError{Task: t.Name, Err: err}
		}

		if err := exec.transition(i, Running, Completed); err != nil {
			return result, err
		}
		g.recorder.IncTaskResult(t.Name, metrics.ResultSuccess)
		g.logger.Info("Task completed",
			logfields.Task(t.Name),
			logfields.DurationMS(float64(elapsed.Milliseconds())))
	}

	return result, nil
}
