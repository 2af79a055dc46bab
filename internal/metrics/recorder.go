package metrics

import "time"

// OutcomeLabel enumerates pipeline result categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess OutcomeLabel = "success"
	OutcomeFailed  OutcomeLabel = "failed"
)

// Recorder defines observability hooks for pipeline and stage metrics.
// Implementations may forward to Prometheus, OpenTelemetry, etc. The
// NoopRecorder is the default when metrics are not configured.
type Recorder interface {
	ObserveStageDuration(operator, stage string, d time.Duration)
	ObservePipelineDuration(operator string, d time.Duration)
	IncPipelineOutcome(operator string, outcome OutcomeLabel)
	SetWorkers(n int)
}

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, string, time.Duration) {}
func (NoopRecorder) ObservePipelineDuration(string, time.Duration)      {}
func (NoopRecorder) IncPipelineOutcome(string, OutcomeLabel)            {}
func (NoopRecorder) SetWorkers(int)                                     {}
