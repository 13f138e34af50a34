package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"net/http"
	"time"
)

const (
	defaultPostTimeout = 5 * time.Second
	defaultMaxRetries  = 3
	defaultBaseBackoff = 200 * time.Millisecond
)

// WebhookSink POSTs each Event as JSON to a fixed URL, retrying transient
// failures with exponential backoff — the same shape as this codebase's
// map-fetch HTTP client, run in reverse (push instead of pull).
type WebhookSink struct {
	url         string
	client      *http.Client
	maxRetries  int
	baseBackoff time.Duration
}

// WebhookOption configures a WebhookSink.
type WebhookOption func(*WebhookSink)

// WithWebhookClient overrides the default HTTP client (useful for testing).
func WithWebhookClient(client *http.Client) WebhookOption {
	return func(s *WebhookSink) { s.client = client }
}

// WithWebhookMaxRetries overrides the default number of POST attempts per
// event; the first attempt counts toward n.
func WithWebhookMaxRetries(n int) WebhookOption {
	return func(s *WebhookSink) { s.maxRetries = n }
}

// NewWebhookSink builds a WebhookSink posting to url.
func NewWebhookSink(url string, opts ...WebhookOption) *WebhookSink {
	s := &WebhookSink{
		url:         url,
		client:      &http.Client{Timeout: defaultPostTimeout},
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Emit implements Sink, posting synchronously with retry. Emit logs and
// swallows failures after retries are exhausted, matching MQTTSink's
// "telemetry failure never aborts registration" contract.
func (s *WebhookSink) Emit(e Event) {
	if err := s.post(context.Background(), e); err != nil {
		log.Printf("telemetry: webhook post failed: %v", err)
	}
}

func (s *WebhookSink) post(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := s.baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return fmt.Errorf("webhook post: %w", ctx.Err())
			case <-time.After(backoff):
			}
		}

		if err := s.doPost(ctx, payload); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return fmt.Errorf("webhook post: all %d attempts failed: %w", s.maxRetries, lastErr)
}

func (s *WebhookSink) doPost(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("POST %s: status %d", s.url, resp.StatusCode)
	}
	return nil
}
