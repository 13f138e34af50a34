package telemetry

import (
	"testing"

	"github.com/kwv/rgbdicp/icp"
)

type recordingSink struct {
	events []Event
}

func (s *recordingSink) Emit(e Event) {
	s.events = append(s.events, e)
}

func TestSessionTracerTranslatesStepMetrics(t *testing.T) {
	sink := &recordingSink{}
	tracer := SessionTracer{Sink: sink}

	tracer.TraceIteration(4, icp.StepMetrics{
		PairCount:      256,
		DeltaAngleDeg:  0.25,
		DeltaTranslate: 0.1,
	})

	if len(sink.events) != 1 {
		t.Fatalf("got %d events, want 1", len(sink.events))
	}
	e := sink.events[0]
	if e.Iteration != 4 || e.PairCount != 256 || e.DeltaAngleDeg != 0.25 || e.DeltaTranslationMm != 0.1 {
		t.Errorf("translated event = %+v", e)
	}
}

func TestSessionTracerNilSinkIsNoop(t *testing.T) {
	tracer := SessionTracer{}
	tracer.TraceIteration(0, icp.StepMetrics{}) // must not panic
}

var _ icp.Tracer = SessionTracer{}
