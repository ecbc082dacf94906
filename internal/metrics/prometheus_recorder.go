package metrics

import (
	"strconv"
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once            sync.Once
	registry        *prom.Registry
	taskDuration    *prom.HistogramVec
	taskResults     *prom.CounterVec
	runDuration     prom.Histogram
	runOutcome      *prom.CounterVec
	processDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.once.Do(func() {
		pr.taskDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docrunner",
			Name:      "task_duration_seconds",
			Help:      "Duration of individual tasks",
			Buckets:   prom.DefBuckets,
		}, []string{"task"})
		pr.taskResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docrunner",
			Name:      "task_results_total",
			Help:      "Task result counts by outcome",
		}, []string{"task", "result"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "docrunner",
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docrunner",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"})
		pr.processDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docrunner",
			Name:      "process_duration_seconds",
			Help:      "Duration of external process invocations",
			Buckets:   prom.DefBuckets,
		}, []string{"executable", "exit_code"})
		reg.MustRegister(pr.taskDuration, pr.taskResults, pr.runDuration, pr.runOutcome, pr.processDuration)
	})
	return pr
}

// Registry returns the registry the recorder's collectors are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry { return p.registry }

func (p *PrometheusRecorder) ObserveTaskDuration(task string, d time.Duration) {
	if p == nil || p.taskDuration == nil {
		return
	}
	p.taskDuration.WithLabelValues(task).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncTaskResult(task string, result ResultLabel) {
	if p == nil || p.taskResults == nil {
		return
	}
	p.taskResults.WithLabelValues(task, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRunOutcome(outcome ResultLabel) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) ObserveProcessDuration(executable string, d time.Duration, exitCode int) {
	if p == nil || p.processDuration == nil {
		return
	}
	p.processDuration.WithLabelValues(executable, strconv.Itoa(exitCode)).Observe(d.Seconds())
}

// WriteTextfile writes the current metric values to path in the Prometheus
// text exposition format (node_exporter textfile collector compatible).
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
