// Package metrics provides observability hooks for build and publish runs.
//
// Components receive a Recorder through dependency injection; the default
// NoopRecorder makes instrumentation free when metrics are not configured.
// Because blogsmith is a one-shot CLI rather than a daemon, the real
// implementation writes a Prometheus textfile at the end of a run instead of
// exposing a scrape endpoint.
package metrics

import "time"

// ResultLabel enumerates step result categories for counters.
type ResultLabel string

const (
	ResultSuccess ResultLabel = "success"
	ResultFailure ResultLabel = "failure"
)

// Recorder defines observability hooks for build and publish metrics.
type Recorder interface {
	ObserveStepDuration(step string, d time.Duration)
	IncStepResult(step string, result ResultLabel)
	ObserveBuildDuration(d time.Duration)
	IncPublishOutcome(outcome string) // outcome: success|failed
	SetPostsRendered(n int)
	SetPostsSkipped(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStepDuration(string, time.Duration) {}
func (NoopRecorder) IncStepResult(string, ResultLabel)         {}
func (NoopRecorder) ObserveBuildDuration(time.Duration)        {}
func (NoopRecorder) IncPublishOutcome(string)                  {}
func (NoopRecorder) SetPostsRendered(int)                      {}
func (NoopRecorder) SetPostsSkipped(int)                       {}
