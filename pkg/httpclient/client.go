package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const defaultUserAgent = "popcorn-watchlist-service/1.0"

// StatusError is returned when the upstream answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// IsStatusError reports whether err wraps a *StatusError
func IsStatusError(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}

// Client is a context-aware HTTP GET client. It performs exactly one attempt per
// call; callers restart a request by cancelling its context and issuing a new one.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the overall per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithTransport replaces the underlying RoundTripper (tests, caching transports)
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.httpClient.Transport = rt
	}
}

// WithHTTPClient replaces the underlying *http.Client entirely
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient creates a new HTTP client
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		userAgent: defaultUserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch makes a single HTTP GET request bound to ctx and returns the body of a 2xx response
func (c *Client) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() == nil {
			log.Warn().Err(err).Str("url", redact(req)).Msg("Request failed")
		}
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() // 立即关闭，避免泄漏
		log.Warn().
			Int("status", resp.StatusCode).
			Str("url", redact(req)).
			Msg("Upstream returned non-success status")
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return body, nil
}

// FetchJSON is a convenience method for fetching JSON data
func (c *Client) FetchJSON(ctx context.Context, targetURL string) ([]byte, error) {
	return c.Fetch(ctx, targetURL)
}

// redact strips the query string so API keys never reach the logs
func redact(req *http.Request) string {
	u := *req.URL
	u.RawQuery = ""
	return u.String()
}
