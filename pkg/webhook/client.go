// Package webhook delivers rendered message payloads to a webhook
// endpoint with optional Lark-style request signing.
package webhook

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hugo-setiawan/action-lark-bot/internal/id"
	"github.com/hugo-setiawan/action-lark-bot/pkg/logging"
	"github.com/hugo-setiawan/action-lark-bot/pkg/payload"
	"github.com/hugo-setiawan/action-lark-bot/pkg/util"
)

// maxResponseBytes caps how much of a webhook response is retained.
const maxResponseBytes = 1 << 20

// Client posts JSON payloads to a single webhook URL.
type Client struct {
	url        string
	secret     string
	timeout    time.Duration
	httpClient *http.Client
	now        func() time.Time
	logger     *slog.Logger
}

// ClientOption configures a webhook client.
type ClientOption func(*Client)

// WithSecret enables Lark-style signing with the given secret. A blank
// secret leaves payloads unsigned.
func WithSecret(secret string) ClientOption {
	return func(c *Client) {
		c.secret = secret
	}
}

// WithTimeout bounds each Send with a context deadline. Zero disables
// the explicit deadline and leaves the transport defaults in charge.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock replaces the signing clock. Tests use this to pin the
// timestamp and signature.
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// WithLogger attaches a logger for per-delivery log lines.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a webhook client for the given URL.
func New(url string, opts ...ClientOption) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{},
		now:        time.Now,
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send signs, encodes and posts one payload. It performs exactly one
// HTTP request: no retries, no redirect handling beyond the transport
// defaults. Network, timeout and read failures come back as
// *TransportError. A non-2xx response is not an error here; callers
// that treat it as fatal use Result.StatusError.
func (c *Client) Send(ctx context.Context, body any) (*Result, error) {
	signed, err := payload.Augment(body, c.secret, c.now().Unix())
	if err != nil {
		return nil, err
	}

	data, err := payload.Marshal(signed)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	deliveryID := id.Short()
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("webhook delivery failed", "delivery", deliveryID, "error", err)
		return nil, &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	result := &Result{Status: resp.StatusCode, text: string(respBody)}
	if result.OK() {
		c.logger.Info("webhook delivered",
			"delivery", deliveryID,
			"status", resp.StatusCode,
			"duration", time.Since(start),
		)
	} else {
		c.logger.Warn("webhook returned non-2xx",
			"delivery", deliveryID,
			"status", resp.StatusCode,
			"duration", time.Since(start),
			"body", util.TruncateBody(result.Text(), 0),
		)
	}

	return result, nil
}
