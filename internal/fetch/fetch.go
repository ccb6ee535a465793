// Package fetch provides the HTTP request primitive shared by every listing
// adapter: a single client with retry, timeout, and per-host request spacing.
package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobScout/1.0)"

// Result holds the response from a fetch.
type Result struct {
	URL         string
	Body        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the client.
type Options struct {
	Timeout    time.Duration
	UserAgent  string
	MaxRetries int
	// Delay is the minimum spacing between requests to the same host, and
	// also the base of the linear retry backoff (Delay * attempt). Keeping
	// this explicit avoids tripping anti-scraping defenses.
	Delay time.Duration
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:    DefaultTimeout,
		UserAgent:  DefaultUserAgent,
		MaxRetries: 2,
		Delay:      2 * time.Second,
	}
}

// Client performs rate-limited, retried HTTP requests. Safe for concurrent
// use; the per-host limiters are the only shared state.
type Client struct {
	http *http.Client
	opts *Options

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewClient creates a Client. Nil opts means DefaultOptions.
func NewClient(opts *Options) *Client {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	return &Client{
		http:     &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		limiters: make(map[string]*rate.Limiter),
	}
}

// limiter returns the rate limiter for a host, creating it on first use.
func (c *Client) limiter(host string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l, ok := c.limiters[host]; ok {
		return l
	}
	interval := c.opts.Delay
	if interval <= 0 {
		interval = time.Millisecond
	}
	l := rate.NewLimiter(rate.Every(interval), 1)
	c.limiters[host] = l
	return l
}

// Get fetches a URL with retries. Headers are merged over the defaults.
// Non-2xx responses count as failures and are retried; the last Result is
// still returned alongside the error so callers can inspect the status.
func (c *Client) Get(ctx context.Context, urlStr string, headers map[string]string) (*Result, error) {
	return c.do(ctx, http.MethodGet, urlStr, nil, headers)
}

// GetJSON fetches a URL with an Accept: application/json header and decodes
// the response body into out.
func (c *Client) GetJSON(ctx context.Context, urlStr string, out any) error {
	result, err := c.Get(ctx, urlStr, map[string]string{"Accept": "application/json"})
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(result.Body), out); err != nil {
		return &Error{URL: urlStr, Message: "invalid JSON response", Cause: err}
	}
	return nil
}

// PostJSON sends a JSON payload and decodes the JSON response into out.
// Extra headers are merged in; some APIs require Referer and Origin.
func (c *Client) PostJSON(ctx context.Context, urlStr string, payload any, out any, headers map[string]string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{URL: urlStr, Message: "failed to encode payload", Cause: err}
	}

	merged := map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	}
	for k, v := range headers {
		merged[k] = v
	}

	result, err := c.do(ctx, http.MethodPost, urlStr, body, merged)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}

	// Some platforms return HTML error pages with a 200 status; refuse to
	// decode anything that does not look like JSON.
	trimmed := strings.TrimSpace(result.Body)
	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		return &Error{URL: urlStr, Message: "non-JSON response body"}
	}
	if err := json.Unmarshal([]byte(trimmed), out); err != nil {
		return &Error{URL: urlStr, Message: "invalid JSON response", Cause: err}
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) (*Result, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}

	var lastErr error
	var lastResult *Result
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			// Linear backoff: delay * attempt.
			backoff := time.Duration(attempt) * c.opts.Delay
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return lastResult, &Error{URL: urlStr, Message: "request canceled", Cause: ctx.Err()}
			}
		}

		if err := c.limiter(parsed.Host).Wait(ctx); err != nil {
			return lastResult, &Error{URL: urlStr, Message: "request canceled", Cause: err}
		}

		result, err := c.once(ctx, method, urlStr, body, headers)
		if err == nil {
			return result, nil
		}
		lastErr = err
		lastResult = result
	}
	return lastResult, lastErr
}

func (c *Client) once(ctx context.Context, method, urlStr string, body []byte, headers map[string]string) (*Result, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, urlStr, reader)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "application/json, text/html")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		Body:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}
	return result, nil
}
