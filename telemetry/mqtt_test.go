package telemetry

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

func TestMQTTSinkEmitPublishes(t *testing.T) {
	client := newMockClient()
	sink := NewMQTTSink(client, "icp/trace")

	sink.Emit(Event{Iteration: 3, PairCount: 128, DeltaAngleDeg: 0.5, DeltaTranslationMm: 0.1})

	client.AssertCalled(t, "Publish", "icp/trace", byte(0), false, mock.Anything)
}

func TestMQTTSinkSkipsWhenDisconnected(t *testing.T) {
	client := newMockClientConnected(false)

	sink := NewMQTTSink(client, "icp/trace")
	sink.Emit(Event{Iteration: 1})

	client.AssertNotCalled(t, "Publish")
}

func TestMQTTSinkNilClientIsNoop(t *testing.T) {
	sink := NewMQTTSink(nil, "icp/trace")
	sink.Emit(Event{Iteration: 1})
}

func TestMQTTSinkSetQoS(t *testing.T) {
	sink := NewMQTTSink(nil, "icp/trace")
	sink.SetQoS(2)
	if sink.qos != 2 {
		t.Errorf("qos = %d, want 2", sink.qos)
	}
	sink.SetQoS(5)
	if sink.qos != 2 {
		t.Errorf("qos should be unchanged by an out-of-range value, got %d", sink.qos)
	}
}
