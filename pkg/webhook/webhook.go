// Package webhook posts run summaries to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/segmentio/encoding/json"

	"github.com/ccollicutt/logcatparse/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// EventRunCompleted is the event name carried by every payload.
const EventRunCompleted = "logcatparse.run.completed"

// maxResponseBody bounds how much of a response body is kept.
const maxResponseBody = 1024 * 1024

// Payload is the JSON document posted to a webhook.
type Payload struct {
	Event   string          `json:"event"`
	RunID   string          `json:"run_id"`
	SentAt  time.Time       `json:"sent_at"`
	Summary *output.Summary `json:"summary"`
}

// Client sends run summaries to webhook endpoints.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new webhook client. version is reported in the
// User-Agent header.
func NewClient(version string) *Client {
	ua := "logcatparse-webhook"
	if version != "" {
		ua += "/" + version
	}
	return &Client{
		httpClient: &http.Client{},
		userAgent:  ua,
	}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// ShouldFire reports whether a webhook with the given trigger fires for a run
// that did or did not see parse errors. An empty trigger means on_errors.
func ShouldFire(trigger string, hasErrors bool) bool {
	switch trigger {
	case "always":
		return true
	case "never":
		return false
	default:
		return hasErrors
	}
}

// Send posts a run summary to a webhook endpoint.
func (c *Client) Send(ctx context.Context, summary *output.Summary, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	fail := func(err error) *Response {
		resp.Error = err
		resp.Duration = time.Since(start)
		return resp
	}

	payload, err := json.Marshal(Payload{
		Event:   EventRunCompleted,
		RunID:   summary.RunID,
		SentAt:  start.UTC(),
		Summary: summary,
	})
	if err != nil {
		return fail(fmt.Errorf("failed to marshal summary: %w", err))
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(payload))
	if err != nil {
		return fail(fmt.Errorf("failed to create request: %w", err))
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Logcatparse-Run", summary.RunID)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(fmt.Errorf("request failed: %w", err))
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return fail(fmt.Errorf("failed to read response: %w", err))
	}

	resp.StatusCode = httpResp.StatusCode
	resp.Body = string(body)
	resp.Duration = time.Since(start)

	if resp.StatusCode >= 400 {
		resp.Error = fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}

	return resp
}
