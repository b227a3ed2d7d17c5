package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/acumen-hq/acumen/internal/domain/event"
	"github.com/acumen-hq/acumen/pkg/logger"
)

// HTTPClient wraps http.Client with a request timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

func (c *HTTPClient) postJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func (c *HTTPClient) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// checkServiceHealth verifies the engine answers on /healthz.
func checkServiceHealth(ctx context.Context, config *Config) error {
	client := newHTTPClient(config.Timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, config.BaseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := client.client.Do(req)
	if err != nil {
		return fmt.Errorf("engine unreachable at %s: %w", config.BaseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}
	return nil
}

// submitEvents posts journeys concurrently with a bounded worker pool.
func submitEvents(ctx context.Context, config *Config, events []event.Record, stats *Stats) error {
	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/v1/events"

	var (
		successful int64
		failed     int64
	)

	jobs := make(chan event.Record)
	var wg sync.WaitGroup

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for rec := range jobs {
				resp, err := client.postJSON(ctx, url, rec)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					continue
				}
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				if resp.StatusCode == http.StatusAccepted {
					atomic.AddInt64(&successful, 1)
				} else {
					atomic.AddInt64(&failed, 1)
				}
			}
		}()
	}

	for _, rec := range events {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return ctx.Err()
		case jobs <- rec:
		}
	}
	close(jobs)
	wg.Wait()

	stats.EventsSubmitted = len(events)
	stats.EventsSuccessful = int(successful)
	stats.EventsFailed = int(failed)

	logger.Get().Info(ctx, "events submitted",
		logger.Int("submitted", stats.EventsSubmitted),
		logger.Int("successful", stats.EventsSuccessful),
		logger.Int("failed", stats.EventsFailed),
	)
	return nil
}

// fetchSkills reads back the assessment for one user.
func fetchSkills(ctx context.Context, client *HTTPClient, baseURL, userID string) (SkillsResponse, error) {
	var out SkillsResponse
	err := client.getJSON(ctx, baseURL+"/v1/skills/"+userID, &out)
	return out, err
}

// fetchAccess reads back the full access decision set for one user.
func fetchAccess(ctx context.Context, client *HTTPClient, baseURL, userID string) (AccessResponse, error) {
	var out AccessResponse
	err := client.getJSON(ctx, baseURL+"/v1/access/"+userID, &out)
	return out, err
}
