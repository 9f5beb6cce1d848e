// Package backend is the HTTP client for the walking-challenge service.
// Every call is a single round trip: the client performs no retries and no
// backoff, and collapses transport errors, non-2xx statuses, and undecodable
// bodies into one failure type. Callers decide whether a failure is worth
// retrying on a later cycle.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"
)

// TransportError is the uniform failure for any backend call. Cause is nil
// when the request could not even be built (malformed URL).
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	if e.Cause == nil {
		return "backend request failed"
	}
	return "backend request failed: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error { return e.Cause }

// Result is a successful backend response. Body holds the decoded JSON
// payload, or nil when the response had no body.
type Result struct {
	StatusCode int
	Body       any
}

// Option configures optional behaviour for the Client.
type Option func(*Client)

// WithLogger overrides the logger used for request diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// Client issues requests against a single backend base URL. Construct one
// and hand it to collaborators; there is deliberately no package-level
// shared instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewClient builds a Client for the given base URL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     log.New(log.Writer(), "[backend] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// request performs one round trip. A URL that cannot be built fails with a
// nil-cause TransportError and no network attempt.
func (c *Client) request(ctx context.Context, method string, endpoint Endpoint, query url.Values, params map[string]any, header http.Header) (*Result, error) {
	target, err := c.buildURL(endpoint, query)
	if err != nil {
		c.logger.Printf("unable to build url for %s: %v", endpoint, err)
		return nil, &TransportError{}
	}

	var body io.Reader
	if params != nil {
		encoded, err := json.Marshal(params)
		if err != nil {
			return nil, &TransportError{Cause: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	if params != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{Cause: fmt.Errorf("%s %s: status %d", method, endpoint, resp.StatusCode)}
	}

	result := &Result{StatusCode: resp.StatusCode}
	if len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, &result.Body); err != nil {
			return nil, &TransportError{Cause: fmt.Errorf("%s %s: undecodable body: %w", method, endpoint, err)}
		}
	}
	return result, nil
}

func (c *Client) buildURL(endpoint Endpoint, query url.Values) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("base url %q missing scheme or host", c.baseURL)
	}
	ref, err := url.Parse(string(endpoint))
	if err != nil {
		return "", err
	}
	target := base.ResolveReference(ref)
	if query != nil {
		target.RawQuery = query.Encode()
	}
	return target.String(), nil
}
