// Package upstream calls the resolver service that produces fresh results
// for cache misses.
package upstream

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"go.uber.org/zap"
)

// Client is an HTTP client for the upstream resolver.
type Client struct {
	url        string
	httpClient *http.Client
	retries    int
	retryDelay time.Duration
	logger     *zap.Logger
}

// Config holds client configuration.
type Config struct {
	URL        string
	Timeout    time.Duration
	Retries    int // total attempts, minimum 1
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// NewClient creates a new resolver client.
func NewClient(cfg *Config) *Client {
	retries := cfg.Retries
	if retries < 1 {
		retries = 1
	}

	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		retries:    retries,
		retryDelay: cfg.RetryDelay,
		logger:     cfg.Logger,
	}
}

// resolveRequest is the wire format sent to the resolver.
type resolveRequest struct {
	Query   string                 `json:"query"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Resolve posts (query, context) to the resolver and returns its raw JSON
// response body. Transport errors and 5xx responses are retried with a
// fixed delay; 4xx responses fail immediately.
func (c *Client) Resolve(ctx context.Context, query string, queryCtx map[string]interface{}) (json.RawMessage, error) {
	body, err := json.Marshal(resolveRequest{Query: query, Context: queryCtx})
	if err != nil {
		return nil, fmt.Errorf("marshal resolve request: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.retries; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
		}

		result, retryable, err := c.resolveOnce(ctx, body)
		if err == nil {
			return result, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}

		c.logger.Warn("upstream-resolve-retry",
			zap.Int("attempt", attempt),
			zap.Error(err))
	}

	return nil, fmt.Errorf("resolve after %d attempts: %w", c.retries, lastErr)
}

func (c *Client) resolveOnce(ctx context.Context, body []byte) (json.RawMessage, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("post to resolver: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("read resolver response: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, true, fmt.Errorf("resolver error: status %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, false, fmt.Errorf("resolver rejected request: status %d", resp.StatusCode)
	}

	return json.RawMessage(data), false, nil
}
