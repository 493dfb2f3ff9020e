package gapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

// Retry constants. The policy is deliberately flat: a fixed number of
// attempts with a fixed pause, no exponential growth and no jitter.
const (
	maxAttempts = 5
	retryPause  = 1 * time.Second
	userAgent   = "manage-google-one/0.1"
)

// TokenSource provides OAuth2 bearer tokens. Defined at the consumer
// per Go convention "accept interfaces, return structs". The gauth
// package provides the real implementation.
type TokenSource interface {
	Token() (string, error)
}

// Client is an HTTP client for a Google REST API. It handles request
// construction, authentication, bounded retry on transient statuses,
// and error classification.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
	logger     *slog.Logger

	// limiter throttles outgoing requests when a QPS limit is configured.
	// Nil means unlimited.
	limiter *rate.Limiter

	// sleepFunc is called to wait between retries. Defaults to timeSleep.
	// Tests override this to avoid real delays.
	sleepFunc func(ctx context.Context, d time.Duration) error
}

// NewClient creates a client rooted at baseURL, e.g.
// "https://www.googleapis.com/drive/v3".
func NewClient(baseURL string, httpClient *http.Client, token TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		token:      token,
		logger:     logger,
		sleepFunc:  timeSleep,
	}
}

// SetRateLimit caps outgoing requests at rps requests per second.
// A non-positive rps removes the limit.
func (c *Client) SetRateLimit(rps float64) {
	if rps <= 0 {
		c.limiter = nil
		return
	}

	c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
}

// Do executes an HTTP request against the API. The path is appended to the
// client's base URL; query may be nil. The body, if any, is sent as JSON on
// every attempt. Statuses 429, 500 and 503 are retried up to maxAttempts
// with a fixed pause; exhaustion yields an *APIError wrapping
// ErrRetriesExhausted. Any other non-2xx status returns immediately with an
// *APIError wrapping its classification sentinel.
//
// The caller is responsible for closing the response body on success.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body []byte) (*http.Response, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	for attempt := 1; ; attempt++ {
		resp, err := c.doOnce(ctx, method, reqURL, body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("gapi: request canceled: %w", ctx.Err())
			}

			return nil, fmt.Errorf("gapi: %s %s: %w", method, path, err)
		}

		// 2xx — success.
		if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
			c.logger.Debug("request succeeded",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
			)

			return resp, nil
		}

		// Read and close body for error responses.
		errBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if readErr != nil {
			errBody = []byte("(failed to read response body)")
		}

		if !isRetryable(resp.StatusCode) {
			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    string(errBody),
				Err:        classifyStatus(resp.StatusCode),
			}
		}

		if attempt >= maxAttempts {
			c.logger.Error("max retries reached",
				slog.String("method", method),
				slog.String("path", path),
				slog.Int("status", resp.StatusCode),
				slog.Int("attempts", attempt),
			)

			return nil, &APIError{
				StatusCode: resp.StatusCode,
				Message:    string(errBody),
				Err:        ErrRetriesExhausted,
			}
		}

		c.logger.Warn("transient error, retrying",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Int("attempt", attempt),
			slog.Duration("pause", retryPause),
		)

		if sleepErr := c.sleepFunc(ctx, retryPause); sleepErr != nil {
			return nil, fmt.Errorf("gapi: request canceled: %w", sleepErr)
		}
	}
}

// doOnce executes a single HTTP request (no retry).
func (c *Client) doOnce(ctx context.Context, method, reqURL string, body []byte) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	tok, err := c.token.Token()
	if err != nil {
		return nil, fmt.Errorf("obtaining token: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+tok)
	req.Header.Set("User-Agent", userAgent)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	resp, err := c.Do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gapi: decoding response: %w", err)
	}

	return nil
}

// PostJSON performs a POST request with a JSON body and decodes the JSON
// response into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("gapi: encoding request: %w", err)
	}

	resp, err := c.Do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("gapi: decoding response: %w", err)
	}

	return nil
}

// timeSleep waits for the given duration or until the context is canceled.
// It is the default sleepFunc for Client.
func timeSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
