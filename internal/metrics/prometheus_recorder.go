package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry       *prom.Registry
	stepDuration   *prom.HistogramVec
	stepResults    *prom.CounterVec
	buildDuration  prom.Histogram
	publishOutcome *prom.CounterVec
	postsRendered  prom.Gauge
	postsSkipped   prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{registry: reg}
	pr.stepDuration = prom.NewHistogramVec(prom.HistogramOpts{
		Namespace: "blogsmith",
		Name:      "publish_step_duration_seconds",
		Help:      "Duration of individual publish steps",
		Buckets:   prom.DefBuckets,
	}, []string{"step"})
	pr.stepResults = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "blogsmith",
		Name:      "publish_step_results_total",
		Help:      "Publish step result counts by outcome",
	}, []string{"step", "result"})
	pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "blogsmith",
		Name:      "build_duration_seconds",
		Help:      "Total site build duration",
		Buckets:   prom.DefBuckets,
	})
	pr.publishOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "blogsmith",
		Name:      "publish_outcomes_total",
		Help:      "Publish outcomes by final status",
	}, []string{"outcome"})
	pr.postsRendered = prom.NewGauge(prom.GaugeOpts{
		Namespace: "blogsmith",
		Name:      "posts_rendered",
		Help:      "Posts rendered in the last build",
	})
	pr.postsSkipped = prom.NewGauge(prom.GaugeOpts{
		Namespace: "blogsmith",
		Name:      "posts_skipped",
		Help:      "Posts skipped via the incremental cache in the last build",
	})
	reg.MustRegister(pr.stepDuration, pr.stepResults, pr.buildDuration, pr.publishOutcome, pr.postsRendered, pr.postsSkipped)
	return pr
}

func (p *PrometheusRecorder) ObserveStepDuration(step string, d time.Duration) {
	p.stepDuration.WithLabelValues(step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(step string, result ResultLabel) {
	p.stepResults.WithLabelValues(step, string(result)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPublishOutcome(outcome string) {
	p.publishOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) SetPostsRendered(n int) {
	p.postsRendered.Set(float64(n))
}

func (p *PrometheusRecorder) SetPostsSkipped(n int) {
	p.postsSkipped.Set(float64(n))
}

// WriteTextfile flushes the collected metrics to a Prometheus textfile, the
// node_exporter textfile-collector format used for short-lived jobs.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
