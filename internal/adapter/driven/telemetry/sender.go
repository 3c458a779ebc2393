// Package telemetry implements the TelemetrySink port over a plain HTTP
// metrics endpoint.
package telemetry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ericfisherdev/prgate/internal/domain/model"
	"github.com/ericfisherdev/prgate/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.TelemetrySink = (*Sender)(nil)

// Sender posts telemetry events to an HTTP endpoint with bearer-token auth.
// The wire format is a JSON array holding one event object per request.
// Sends are never retried; callers treat a returned error as a warning.
type Sender struct {
	client  *http.Client
	url     string
	token   string
	runMeta map[string]any
}

// NewSender creates a Sender for the given endpoint. runMeta is attached to
// every event's Fields before posting (workflow name, run ID, actor).
func NewSender(url, token string, runMeta map[string]any) *Sender {
	return &Sender{
		client:  &http.Client{Timeout: 10 * time.Second},
		url:     url,
		token:   token,
		runMeta: runMeta,
	}
}

// Send posts a single event. A non-2xx response is reported as an error so
// the caller can log it; the event is not retried.
func (s *Sender) Send(ctx context.Context, event model.TelemetryEvent) error {
	if len(s.runMeta) > 0 {
		if event.Fields == nil {
			event.Fields = make(map[string]any, len(s.runMeta))
		}
		for k, v := range s.runMeta {
			event.Fields[k] = v
		}
	}

	payload, err := json.Marshal([]model.TelemetryEvent{event})
	if err != nil {
		return fmt.Errorf("encoding telemetry event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building telemetry request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting telemetry event: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("telemetry endpoint returned %s", resp.Status)
	}

	return nil
}
