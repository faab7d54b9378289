// Package httpclient provides the HTTP client the collaborators share:
// retries with exponential backoff, rate limiting and per-request timeouts.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"math"
	"net/http"
	"time"

	"legitscan/internal/platform/errors"
	"legitscan/internal/platform/logx"
	"legitscan/internal/platform/rate"
)

// Config holds the client configuration.
type Config struct {
	// Timeout is the whole-request timeout. Default 30s.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts. Default 3.
	MaxRetries int

	// RetryBackoff is the initial backoff, doubled per attempt. Default 1s.
	RetryBackoff time.Duration

	// MaxRetryBackoff caps the backoff. Default 30s.
	MaxRetryBackoff time.Duration

	// UserAgent is sent on every request.
	UserAgent string

	// RateLimit is the max requests per second (0 = unlimited).
	RateLimit float64

	// RateLimitBurst is the burst size when rate limiting. Default 1.
	RateLimitBurst int
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		Timeout:         30 * time.Second,
		MaxRetries:      3,
		RetryBackoff:    1 * time.Second,
		MaxRetryBackoff: 30 * time.Second,
		UserAgent:       "legitscan/1.0",
		RateLimitBurst:  1,
	}
}

// Client wraps http.Client with retry and rate-limit behavior.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      logx.Logger
	config      Config
}

// New creates a client, filling zero config values with defaults.
func New(config Config, logger logx.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RetryBackoff == 0 {
		config.RetryBackoff = 1 * time.Second
	}
	if config.MaxRetryBackoff == 0 {
		config.MaxRetryBackoff = 30 * time.Second
	}
	if config.UserAgent == "" {
		config.UserAgent = "legitscan/1.0"
	}
	if config.RateLimitBurst == 0 {
		config.RateLimitBurst = 1
	}

	var limiter *rate.Limiter
	if config.RateLimit > 0 {
		limiter = rate.New(config.RateLimit, config.RateLimitBurst)
	}

	return &Client{
		httpClient:  &http.Client{Timeout: config.Timeout},
		rateLimiter: limiter,
		logger:      logger.With("component", "httpclient"),
		config:      config,
	}
}

// Request performs an HTTP request with rate limiting and retries.
func (c *Client) Request(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if c.rateLimiter != nil {
			if err := c.rateLimiter.Wait(ctx); err != nil {
				return nil, errors.Wrap(err, "rate limit wait failed")
			}
		}

		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create request for %s %s", method, url)
		}
		req.Header.Set("User-Agent", c.config.UserAgent)
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		start := time.Now()
		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("request failed",
				"method", method,
				"url", url,
				"attempt", attempt+1,
				"error", err.Error(),
			)
			lastErr = err
			if attempt >= c.config.MaxRetries {
				break
			}
			if err := c.backoff(ctx, attempt); err != nil {
				return nil, errors.Wrap(err, "backoff interrupted")
			}
			continue
		}

		c.logger.Debug("response received",
			"method", method,
			"url", url,
			"status", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds(),
		)

		if !retryableStatus(resp.StatusCode) {
			return resp, nil
		}

		resp.Body.Close()
		lastErr = errors.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
		if attempt >= c.config.MaxRetries {
			break
		}
		c.logger.Warn("retryable status",
			"url", url,
			"status", resp.StatusCode,
			"attempt", attempt+1,
		)
		if err := c.backoff(ctx, attempt); err != nil {
			return nil, errors.Wrap(err, "backoff interrupted")
		}
	}

	return nil, errors.Wrapf(lastErr, "request failed after %d attempts", c.config.MaxRetries+1)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*http.Response, error) {
	return c.Request(ctx, http.MethodGet, url, nil, headers)
}

// FetchBody performs a GET and returns the response body. Non-2xx statuses
// are errors; 404 maps to ErrNotFound so sources can distinguish "no such
// record" from an outage.
func (c *Client) FetchBody(ctx context.Context, url string, headers map[string]string) ([]byte, error) {
	resp, err := c.Get(ctx, url, headers)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(errors.ErrNotFound, "GET %s", url)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Errorf("GET %s: HTTP %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// PostJSON marshals payload, POSTs it and decodes the JSON response into out.
func (c *Client) PostJSON(ctx context.Context, url string, payload, out any, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "marshal request payload")
	}

	merged := map[string]string{"Content-Type": "application/json"}
	for k, v := range headers {
		merged[k] = v
	}

	resp, err := c.Request(ctx, http.MethodPost, url, body, merged)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return errors.Wrapf(errors.ErrUnauthorized, "POST %s: HTTP %d", url, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("POST %s: HTTP %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "read response body")
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.Wrapf(errors.ErrInvalidResponse, "decode response from %s: %v", url, err)
	}
	return nil
}

// retryableStatus reports whether the status code warrants a retry.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// backoff sleeps for an exponentially increasing duration.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	d := time.Duration(float64(c.config.RetryBackoff) * math.Pow(2, float64(attempt)))
	if d > c.config.MaxRetryBackoff {
		d = c.config.MaxRetryBackoff
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
