// Package client implements the STAC API surface the workflows consume:
// item search with CQL2 filtering and link-following pagination, plus
// single-shot collection and item fetches.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Middleware manipulates an outgoing *http.Request before it is executed.
// The context is provided for cancellation and to support auth
// implementations that may need to refresh tokens.
type Middleware func(context.Context, *http.Request) error

// RetryPolicy decides whether a request should be retried.
type RetryPolicy interface {
	ShouldRetry(resp *http.Response, err error) (bool, time.Duration)
}

// RetryPolicyFunc adapts a function to the RetryPolicy interface.
type RetryPolicyFunc func(resp *http.Response, err error) (bool, time.Duration)

// ShouldRetry implements the RetryPolicy interface.
func (f RetryPolicyFunc) ShouldRetry(resp *http.Response, err error) (bool, time.Duration) {
	return f(resp, err)
}

// DefaultRetryPolicy retries on network errors and server errors with a
// linearly scaled delay.
var DefaultRetryPolicy RetryPolicy = RetryPolicyFunc(func(resp *http.Response, err error) (bool, time.Duration) {
	switch {
	case err != nil:
		return true, 500 * time.Millisecond
	case resp.StatusCode >= 500:
		return true, 500 * time.Millisecond
	default:
		return false, 0
	}
})

// ClientOption configures the Client.
type ClientOption func(*Client)

// Client is a STAC API client.
type Client struct {
	baseURL     *url.URL
	httpClient  *http.Client
	middleware  []Middleware
	retryPolicy RetryPolicy
	logger      *slog.Logger
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithTimeout sets the HTTP timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithMiddleware registers one or more request-middleware functions.
func WithMiddleware(mw ...Middleware) ClientOption {
	return func(c *Client) { c.middleware = append(c.middleware, mw...) }
}

// WithRetryPolicy configures retry behavior. Passing nil disables retries.
func WithRetryPolicy(policy RetryPolicy) ClientOption {
	return func(c *Client) { c.retryPolicy = policy }
}

// WithLogger registers a logger for request lifecycle events.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// BearerMiddleware attaches a static bearer token to every request.
func BearerMiddleware(token string) Middleware {
	return func(_ context.Context, req *http.Request) error {
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// NewClient creates a new STAC client for the given catalogue endpoint.
func NewClient(baseURL string, opts ...ClientOption) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	if !u.IsAbs() {
		return nil, ErrInvalidBaseURL
	}

	if u.Path != "" && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	c := &Client{
		baseURL:     u,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		retryPolicy: DefaultRetryPolicy,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Resolve turns a relative endpoint into an absolute URL on the service.
func (c *Client) Resolve(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return endpoint
	}
	return c.baseURL.ResolveReference(u).String()
}

// RequestSpec describes a single HTTP exchange executed by Do.
type RequestSpec struct {
	Method      string
	URL         string
	ContentType string
	Body        []byte
	Headers     http.Header
}

// Do builds the request, runs middleware and the retry policy, and maps
// non-2xx responses to *APIError. The caller owns the response body.
func (c *Client) Do(ctx context.Context, spec RequestSpec) (*http.Response, error) {
	resp, err := c.retry(ctx, func() (*http.Response, error) {
		var reader io.Reader
		if spec.Body != nil {
			reader = strings.NewReader(string(spec.Body))
		}
		req, err := http.NewRequestWithContext(ctx, spec.Method, spec.URL, reader)
		if err != nil {
			return nil, fmt.Errorf("client: creating request for %s: %w", spec.URL, err)
		}
		req.Header.Set("Accept", "application/json")
		if spec.Body != nil {
			contentType := spec.ContentType
			if contentType == "" {
				contentType = "application/json"
			}
			req.Header.Set("Content-Type", contentType)
		}
		for key, values := range spec.Headers {
			req.Header.Del(key)
			for _, value := range values {
				req.Header.Add(key, value)
			}
		}
		for _, mw := range c.middleware {
			if err := mw(ctx, req); err != nil {
				return nil, fmt.Errorf("client: applying middleware for %s: %w", spec.URL, err)
			}
		}
		if c.logger != nil {
			c.logger.Debug("api request", "method", spec.Method, "url", spec.URL)
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, newAPIError(resp)
	}
	return resp, nil
}

// DoJSON executes the exchange with a JSON-encoded body and decodes the
// response into out when non-nil.
func (c *Client) DoJSON(ctx context.Context, method, rawURL string, body any, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("client: encoding request body: %w", err)
		}
		payload = data
	}

	resp, err := c.Do(ctx, RequestSpec{Method: method, URL: rawURL, Body: payload})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) retry(ctx context.Context, fn func() (*http.Response, error)) (*http.Response, error) {
	policy := c.retryPolicy
	if policy == nil {
		return fn()
	}
	var attempt int
	for {
		resp, err := fn()
		retry, delay := policy.ShouldRetry(resp, err)
		if !retry || ctx.Err() != nil {
			return resp, err
		}
		if resp != nil {
			resp.Body.Close()
		}
		attempt++
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay * time.Duration(attempt)):
		}
	}
}
