package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration    *prom.HistogramVec
	pipelineDuration *prom.HistogramVec
	pipelineOutcome  *prom.CounterVec
	workers          prom.Gauge
}

// NewPrometheusRecorder constructs and registers Prometheus metrics on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "edgeunity",
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual pipeline stages",
			Buckets:   prom.DefBuckets,
		}, []string{"operator", "stage"}),
		pipelineDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "edgeunity",
			Name:      "pipeline_duration_seconds",
			Help:      "Total edge-detection pipeline duration",
			Buckets:   prom.DefBuckets,
		}, []string{"operator"}),
		pipelineOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "edgeunity",
			Name:      "pipeline_outcomes_total",
			Help:      "Pipeline outcomes by final status",
		}, []string{"operator", "outcome"}),
		workers: prom.NewGauge(prom.GaugeOpts{
			Namespace: "edgeunity",
			Name:      "workers",
			Help:      "Worker pool size of the last parallel stage",
		}),
	}
	reg.MustRegister(pr.stageDuration, pr.pipelineDuration, pr.pipelineOutcome, pr.workers)
	return pr
}

func (pr *PrometheusRecorder) ObserveStageDuration(operator, stage string, d time.Duration) {
	pr.stageDuration.WithLabelValues(operator, stage).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObservePipelineDuration(operator string, d time.Duration) {
	pr.pipelineDuration.WithLabelValues(operator).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncPipelineOutcome(operator string, outcome OutcomeLabel) {
	pr.pipelineOutcome.WithLabelValues(operator, string(outcome)).Inc()
}

func (pr *PrometheusRecorder) SetWorkers(n int) {
	pr.workers.Set(float64(n))
}
