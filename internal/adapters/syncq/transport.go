package syncq

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/event"
)

const defaultSendTimeout = 10 * time.Second

// batchRequest is the wire shape the collector accepts. The engine does
// not depend on any particular response body; any 2xx acknowledges the
// batch.
type batchRequest struct {
	Events []event.Record `json:"events"`
}

// HTTPTransport posts batches to the collector endpoint.
type HTTPTransport struct {
	client *http.Client
	url    string
}

// TransportOption applies a configuration option to the HTTPTransport.
type TransportOption func(*HTTPTransport)

// WithHTTPClient overrides the underlying client.
func WithHTTPClient(c *http.Client) TransportOption {
	return func(t *HTTPTransport) {
		if c != nil {
			t.client = c
		}
	}
}

// WithSendTimeout bounds each send attempt. A hung send must complete or
// fail so the retry model gets a real signal; it never blocks Enqueue.
func WithSendTimeout(d time.Duration) TransportOption {
	return func(t *HTTPTransport) {
		if d > 0 {
			t.client.Timeout = d
		}
	}
}

// NewHTTPTransport creates a transport for the given collector URL.
func NewHTTPTransport(collectorURL string, opts ...TransportOption) *HTTPTransport {
	t := &HTTPTransport{
		client: &http.Client{Timeout: defaultSendTimeout},
		url:    collectorURL,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Send delivers one batch, preserving record order.
func (t *HTTPTransport) Send(ctx context.Context, batch []event.Record) error {
	body, err := json.Marshal(batchRequest{Events: batch})
	if err != nil {
		return fmt.Errorf("marshal batch: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("post batch: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: collector returned %d", ErrSend, resp.StatusCode)
	}
	return nil
}
