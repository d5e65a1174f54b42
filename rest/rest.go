// Package rest is the small JSON-over-HTTP client shared by the Desk and
// Transifex API clients: basic auth, proxy support, and retries of
// transient failures with jittered backoff.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jpillora/backoff"
)

// Defaults applied when Options leaves a field zero.
const (
	DefaultTimeout    = 60 * time.Second
	DefaultMaxRetries = 3
	userAgent         = "shuttle"
)

// Options configures a Client.
type Options struct {
	// BaseURL is prepended to request paths that are not absolute URLs.
	BaseURL  string
	Username string
	Password string
	// Proxy overrides HTTP_PROXY/HTTPS_PROXY from the environment.
	Proxy      string
	Timeout    time.Duration
	MaxRetries int
	// MinBackoff and MaxBackoff bound the wait between retries.
	MinBackoff time.Duration
	MaxBackoff time.Duration
}

func (o *Options) effectiveTimeout() time.Duration {
	if o.Timeout > 0 {
		return o.Timeout
	}
	return DefaultTimeout
}

// effectiveMaxRetries maps zero to the default and negative values to no
// retries.
func (o *Options) effectiveMaxRetries() int {
	switch {
	case o.MaxRetries < 0:
		return 0
	case o.MaxRetries == 0:
		return DefaultMaxRetries
	}
	return o.MaxRetries
}

// Client issues authenticated JSON requests against one API.
type Client struct {
	base       string
	user, pass string
	http       *http.Client
	maxRetries int
	minWait    time.Duration
	maxWait    time.Duration
}

// New returns a Client for opts.
func New(opts Options) *Client {
	c := &Client{
		base:       strings.TrimRight(opts.BaseURL, "/"),
		user:       opts.Username,
		pass:       opts.Password,
		http:       makeHTTPClient(opts.Proxy, opts.effectiveTimeout()),
		maxRetries: opts.effectiveMaxRetries(),
		minWait:    opts.MinBackoff,
		maxWait:    opts.MaxBackoff,
	}
	if c.minWait <= 0 {
		c.minWait = time.Second
	}
	if c.maxWait <= 0 {
		c.maxWait = 30 * time.Second
	}
	return c
}

// StatusError is returned for any non-2xx response that is not retried or
// that exhausted its retries.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string

	retryAfter time.Duration
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, truncate(e.Body, 300))
}

// NotFound reports whether the server answered 404.
func (e *StatusError) NotFound() bool { return e.StatusCode == http.StatusNotFound }

// ServerError reports whether the server answered with a 5xx status.
func (e *StatusError) ServerError() bool { return e.StatusCode >= 500 }

func makeHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if proxyURL != "" {
		parsed, err := url.Parse(proxyURL)
		if err == nil {
			transport.Proxy = http.ProxyURL(parsed)
		}
	} else {
		transport.Proxy = http.ProxyFromEnvironment
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}

func (c *Client) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.base + path
}

// Do sends in (if non-nil) as a JSON body and decodes a JSON response into
// out (if non-nil). 429 responses are retried up to the configured limit.
// Transport errors and 5xx responses are retried only for idempotent
// methods, since a POST may have been applied before the failure. Other
// non-2xx responses return a *StatusError.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}
	endpoint := c.resolve(path)

	b := &backoff.Backoff{
		Min:    c.minWait,
		Max:    c.maxWait,
		Factor: 2,
		Jitter: true,
	}

	for {
		respBody, err := c.once(ctx, method, endpoint, body)
		if err == nil {
			if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
				return nil
			}
			if err := json.Unmarshal(respBody, out); err != nil {
				return fmt.Errorf("decoding %s %s response: %w", method, endpoint, err)
			}
			return nil
		}

		wait, retry := c.shouldRetry(method, err, b)
		if !retry || int(b.Attempt()) > c.maxRetries {
			return err
		}
		log.Debugf("%s %s failed (%v), retrying in %v", method, endpoint, err, wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}

// idempotent reports whether repeating a request with method has the same
// effect as sending it once.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}

// shouldRetry decides whether err is transient and how long to wait. It
// advances b on every retryable error.
func (c *Client) shouldRetry(method string, err error, b *backoff.Backoff) (time.Duration, bool) {
	var se *StatusError
	if !errors.As(err, &se) {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return 0, false
		}
		if !idempotent(method) {
			return 0, false
		}
		return b.Duration(), true
	}
	switch {
	case se.StatusCode == http.StatusTooManyRequests:
		d := b.Duration()
		if se.retryAfter > 0 {
			return se.retryAfter, true
		}
		return d, true
	case se.ServerError() && idempotent(method):
		return b.Duration(), true
	}
	return 0, false
}

func (c *Client) once(ctx context.Context, method, endpoint string, body []byte) ([]byte, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if c.user != "" || c.pass != "" {
		req.SetBasicAuth(c.user, c.pass)
	}

	log.Tracef("%s %s", method, endpoint)
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s %s response: %w", method, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			retryAfter: parseRetryAfter(resp.Header.Get("Retry-After")),
		}
	}
	return respBody, nil
}

// parseRetryAfter reads a Retry-After header given in seconds or as an
// HTTP date. Unparsable values give 0.
func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
