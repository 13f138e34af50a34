package telemetry

import "github.com/kwv/rgbdicp/icp"

// SessionTracer adapts a Sink to icp.Tracer, translating each iteration's
// StepMetrics into an Event.
type SessionTracer struct {
	Sink Sink
}

// TraceIteration implements icp.Tracer.
func (t SessionTracer) TraceIteration(iteration int, metrics icp.StepMetrics) {
	if t.Sink == nil {
		return
	}
	t.Sink.Emit(Event{
		Iteration:          iteration,
		PairCount:          metrics.PairCount,
		DeltaAngleDeg:      metrics.DeltaAngleDeg,
		DeltaTranslationMm: metrics.DeltaTranslate,
	})
}
