// Package telemetry implements the orthogonal tracing sink a Session can
// be wired to (spec §9's design note: tracing lives outside the pipeline
// itself rather than as profiling hooks woven into each stage's run).
package telemetry

import "log"

// Event is one reported ICP iteration.
type Event struct {
	Iteration          int
	PairCount          int
	DeltaAngleDeg      float64
	DeltaTranslationMm float64
}

// Sink receives Events. Implementations must not block the caller for
// long; Session.Register calls TraceIteration synchronously once per
// iteration.
type Sink interface {
	Emit(Event)
}

// NopSink discards every event.
type NopSink struct{}

// Emit implements Sink.
func (NopSink) Emit(Event) {}

// LogSink writes one line per event via the standard library logger,
// matching this codebase's plain log.Printf convention for operational
// output.
type LogSink struct {
	logger *log.Logger
}

// NewLogSink builds a LogSink. A nil logger uses log.Default().
func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

// Emit implements Sink.
func (s *LogSink) Emit(e Event) {
	s.logger.Printf("icp iteration %d: pairs=%d delta_angle_deg=%.6f delta_translation_mm=%.6f",
		e.Iteration, e.PairCount, e.DeltaAngleDeg, e.DeltaTranslationMm)
}
