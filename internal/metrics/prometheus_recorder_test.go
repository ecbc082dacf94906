package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveTaskDuration("Restore", 150*time.Millisecond)
	pr.IncTaskResult("Restore", ResultSuccess)
	pr.IncTaskResult("Clone", ResultSkipped)
	pr.ObserveRunDuration(500 * time.Millisecond)
	pr.IncRunOutcome(ResultSuccess)
	pr.ObserveProcessDuration("git", 20*time.Millisecond, 0)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	require.NotEmpty(t, mfs)

	require.InDelta(t, 1, testutil.ToFloat64(pr.taskResults.WithLabelValues("Restore", "success")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.taskResults.WithLabelValues("Clone", "skipped")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(pr.runOutcome.WithLabelValues("success")), 0)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveTaskDuration("x", time.Second)
	pr.IncTaskResult("x", ResultFailed)
	pr.ObserveRunDuration(time.Second)
	pr.IncRunOutcome(ResultFailed)
	pr.ObserveProcessDuration("git", time.Second, 1)
}

func TestPrometheusRecorder_WriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncRunOutcome(ResultFailed)

	path := filepath.Join(t.TempDir(), "docrunner.prom")
	require.NoError(t, pr.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `docrunner_run_outcomes_total{outcome="failed"} 1`), string(data))
}

func TestNoopRecorder_SatisfiesInterface(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncRunOutcome(ResultSuccess)
}
