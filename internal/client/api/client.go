// Package api is the HTTP client for the marketplace backend. It injects
// the bearer token on every outgoing request, tags requests with
// correlation IDs, and reacts to 401/403 responses by expiring the whole
// session — the backend, not the client, is the authority on token
// validity.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenStore is the durable token storage the client reads the bearer
// token from and clears when the backend rejects the session.
type TokenStore interface {
	// Load returns the persisted token, or empty when no session exists.
	Load() (string, error)
	// Clear removes the persisted token.
	Clear() error
}

// Client talks to the marketplace REST API.
type Client struct {
	baseURL string
	httpc   *http.Client
	tokens  TokenStore
	log     *zap.Logger

	// onSessionExpired runs after a 401/403 response has cleared the
	// persisted token. The application hooks its navigate-home behavior
	// here.
	onSessionExpired func()
}

// New creates a Client for the backend at baseURL. The underlying
// http.Client attaches the bearer token from tokens on every request.
func New(baseURL string, tokens TokenStore, log *zap.Logger) *Client {
	return NewWithHTTPClient(baseURL, tokens, log, &http.Client{Timeout: 10 * time.Second})
}

// NewWithHTTPClient is like New but uses the provided http.Client, e.g.
// one trusting a custom CA. Its transport is wrapped with bearer-token
// injection.
func NewWithHTTPClient(baseURL string, tokens TokenStore, log *zap.Logger, httpc *http.Client) *Client {
	base := httpc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	httpc.Transport = &bearerTransport{base: base, tokens: tokens}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   httpc,
		tokens:  tokens,
		log:     log,
	}
}

// OnSessionExpired registers fn to run whenever any backend call comes
// back 401/403 and the persisted token has been cleared. Responses from
// the login and register endpoints never trigger it; those must be
// allowed to fail without logging the user out.
func (c *Client) OnSessionExpired(fn func()) {
	c.onSessionExpired = fn
}

// bearerTransport injects Authorization and correlation headers into
// every outgoing request. The token is re-read from durable storage per
// request, so all callers see token changes immediately.
type bearerTransport struct {
	base   http.RoundTripper
	tokens TokenStore
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	if tok, err := t.tokens.Load(); err == nil && tok != "" {
		clone.Header.Set("Authorization", "Bearer "+tok)
	}
	clone.Header.Set("X-Request-Id", uuid.NewString())
	return t.base.RoundTrip(clone)
}

// authPaths are exempt from the global 401/403 session-expiry reaction.
var authPaths = map[string]bool{
	"/auth/login":    true,
	"/auth/register": true,
}

// do performs one JSON request/response exchange. A non-2xx response is
// returned as *Error; anything else that goes wrong is a transport error.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode, Message: readErrorMessage(resp.Body), Path: path}
		c.log.Debug("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
		)
		if (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) && !authPaths[path] {
			c.expireSession()
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// expireSession clears the persisted token and notifies the application.
// Any backend call may land here, not just the session manager's own.
func (c *Client) expireSession() {
	if err := c.tokens.Clear(); err != nil {
		c.log.Error("failed to clear token after auth rejection", zap.Error(err))
	}
	if c.onSessionExpired != nil {
		c.onSessionExpired()
	}
}

// readErrorMessage extracts a human-readable message from an error
// payload, falling back to the raw body.
func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(data))
}

// pageQuery builds the query parameters for the paginated admin listings.
func pageQuery(page, size int) url.Values {
	return url.Values{
		"page": []string{strconv.Itoa(page)},
		"size": []string{strconv.Itoa(size)},
	}
}
