// Package api is the HTTP client for the WebNews CMS API.
//
// The API is consumed as a black box: GET endpoints return JSON arrays or
// objects, mutations return the updated record or an empty body, and non-2xx
// responses carry a JSON body with an "error" or "message" field. Every
// failure is normalized to *Error before it leaves this package, so callers
// only ever see the taxonomy in errors.go.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/okuznetsova/newsdesk/internal/logging"
)

// TokenProvider supplies the bearer token attached to each request.
// An empty token means the request goes out unauthenticated.
//
// The token is a capability handed in at construction - this package never
// reaches into ambient global state for credentials.
type TokenProvider interface {
	Token() string
}

// TokenExpirer is implemented by providers that know when their token has
// expired. A provider reporting expiry fails the request with KindAuthExpired
// before anything goes over the wire, so the sign-in redirect happens even
// when the server is unreachable.
type TokenExpirer interface {
	Expired() bool
}

// Client talks to the CMS API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	limiter *rate.Limiter // nil when rate limiting is disabled
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (used by tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithRateLimit caps outgoing requests per second. rps <= 0 disables the cap.
func WithRateLimit(rps float64) Option {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			c.limiter = nil
		}
	}
}

// New creates a Client for the given API base URL.
// tokens may be nil for an unauthenticated client.
func New(baseURL string, tokens TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(10), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get issues a GET and decodes the JSON response into out (out may be nil).
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body (body may be nil).
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, out)
}

// Ping reports whether the API is reachable. It never returns an error;
// the caller only cares about yes or no.
func (c *Client) Ping(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/ping", nil)
	if err != nil {
		return false
	}
	resp, err := c.http.Do(req)
	if err != nil {
		logging.Debug("ping failed", "error", err)
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

// do runs one request end to end: rate limit, build, send, normalize.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if exp, ok := c.tokens.(TokenExpirer); ok && exp.Expired() {
		return &Error{Kind: KindAuthExpired, Message: "session expired"}
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Kind: KindNetworkFailure, Message: err.Error()}
		}
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindUnexpected, Message: fmt.Sprintf("marshal request: %v", err)}
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return &Error{Kind: KindUnexpected, Message: fmt.Sprintf("create request: %v", err)}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		logging.Error("request failed", "method", method, "path", path, "error", err)
		return &Error{Kind: KindNetworkFailure, Message: err.Error()}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetworkFailure, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			Kind:    kindForStatus(resp.StatusCode),
			Status:  resp.StatusCode,
			Message: errorMessage(respBody, resp.StatusCode),
		}
		logging.Warn("api error", "method", method, "path", path,
			"status", resp.StatusCode, "kind", apiErr.Kind)
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return &Error{Kind: KindUnexpected, Message: fmt.Sprintf("decode response: %v", err)}
	}
	return nil
}

// errorBody is the JSON shape the server uses for failures.
// Some endpoints say "error", others "message".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorMessage pulls the human-readable text out of a failure body,
// falling back to the HTTP status text.
func errorMessage(body []byte, status int) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Error != "" {
			return eb.Error
		}
		if eb.Message != "" {
			return eb.Message
		}
	}
	return http.StatusText(status)
}

// AlreadyGone reports whether err is a NotFound from a delete-type mutation,
// meaning the target disappeared server-side before we got to it.
func AlreadyGone(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindNotFound
}
