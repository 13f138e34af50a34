package telemetry

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/mock"
)

// mockToken implements mqtt.Token for testing, adapted from this
// codebase's MQTT mock helper.
type mockToken struct {
	err       error
	completed bool
	mu        sync.RWMutex
}

func newMockToken(err error) *mockToken {
	return &mockToken{err: err, completed: true}
}

func (t *mockToken) Wait() bool { return t.WaitTimeout(30 * time.Second) }

func (t *mockToken) WaitTimeout(time.Duration) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.completed
}

func (t *mockToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (t *mockToken) Error() error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.err
}

// mockClient implements mqtt.Client using testify/mock, just enough
// surface for MQTTSink to exercise.
type mockClient struct {
	mock.Mock
}

func newMockClient() *mockClient {
	return newMockClientConnected(true)
}

func newMockClientConnected(connected bool) *mockClient {
	m := &mockClient{}
	m.On("IsConnected").Return(connected).Maybe()
	m.On("Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(newMockToken(nil)).Maybe()
	return m
}

func (m *mockClient) IsConnected() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *mockClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	args := m.Called(topic, qos, retained, payload)
	return args.Get(0).(mqtt.Token)
}

func (m *mockClient) IsConnectionOpen() bool { return true }
func (m *mockClient) Connect() mqtt.Token    { return newMockToken(nil) }
func (m *mockClient) Disconnect(uint)        {}
func (m *mockClient) Subscribe(string, byte, mqtt.MessageHandler) mqtt.Token {
	return newMockToken(nil)
}
func (m *mockClient) SubscribeMultiple(map[string]byte, mqtt.MessageHandler) mqtt.Token {
	return newMockToken(nil)
}
func (m *mockClient) Unsubscribe(...string) mqtt.Token        { return newMockToken(nil) }
func (m *mockClient) AddRoute(string, mqtt.MessageHandler)    {}
func (m *mockClient) OptionsReader() mqtt.ClientOptionsReader { return mqtt.ClientOptionsReader{} }
