package metrics

import "time"

// ResultLabel enumerates task result categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultSkipped  ResultLabel = "skipped"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for run, task and process metrics.
// Implementations may forward to Prometheus; NoopRecorder is the default.
type Recorder interface {
	ObserveTaskDuration(task string, d time.Duration)
	IncTaskResult(task string, result ResultLabel)
	ObserveRunDuration(d time.Duration)
	IncRunOutcome(outcome ResultLabel)
	ObserveProcessDuration(executable string, d time.Duration, exitCode int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveTaskDuration(string, time.Duration)         {}
func (NoopRecorder) IncTaskResult(string, ResultLabel)                 {}
func (NoopRecorder) ObserveRunDuration(time.Duration)                  {}
func (NoopRecorder) IncRunOutcome(ResultLabel)                         {}
func (NoopRecorder) ObserveProcessDuration(string, time.Duration, int) {}
