package telemetry

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MQTTSink publishes each Event as JSON to a fixed topic, adapted from this
// codebase's position publisher: fire-and-forget QoS 0, no retain (an ICP
// trace is a transient stream, not a last-known-value).
type MQTTSink struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// NewMQTTSink builds an MQTTSink publishing to topic over an already
// connected client. If client is nil, Emit is a no-op (matching this
// codebase's "nil client disables publishing" convention for tests).
func NewMQTTSink(client mqtt.Client, topic string) *MQTTSink {
	return &MQTTSink{client: client, topic: topic, qos: 0}
}

// SetQoS sets the publish QoS level (0, 1, or 2).
func (s *MQTTSink) SetQoS(qos byte) {
	if qos <= 2 {
		s.qos = qos
	}
}

// Emit implements Sink. Publish errors and timeouts are logged, not
// returned, since a dropped trace event must never abort registration.
func (s *MQTTSink) Emit(e Event) {
	if s.client == nil || !s.client.IsConnected() {
		return
	}

	payload, err := json.Marshal(struct {
		Event
		Timestamp int64 `json:"timestamp"`
	}{Event: e, Timestamp: time.Now().Unix()})
	if err != nil {
		log.Printf("telemetry: marshaling event: %v", err)
		return
	}

	token := s.client.Publish(s.topic, s.qos, false, payload)
	if !token.WaitTimeout(2 * time.Second) {
		log.Printf("telemetry: publishing to %s: timeout", s.topic)
		return
	}
	if err := token.Error(); err != nil {
		log.Printf("telemetry: publishing to %s: %v", s.topic, err)
	}
}

// NewMQTTClient builds and connects a paho client against broker, the
// minimal connection setup a caller needs before handing a client to
// NewMQTTSink. It blocks until the initial connection attempt completes or
// times out.
func NewMQTTClient(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)
	opts.SetClientID(clientID)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("telemetry: connecting to %s: timeout", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("telemetry: connecting to %s: %w", broker, err)
	}
	return client, nil
}
