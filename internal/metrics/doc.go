// Package metrics provides observability hooks for docrunner runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no nil checks are needed at call sites. The Prometheus
// implementation registers its collectors on a private registry; a one-shot
// CLI run has no scrape endpoint, so the registry is written to a textfile
// (see PrometheusRecorder.WriteTextfile) at the end of the run.
package metrics
