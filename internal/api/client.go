// Package api is the REST client the CRM screens fetch through: one shared
// HTTP client with a fixed timeout, bearer-token injection, and an error
// taxonomy the UI can match on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"crmdesk/internal/session"
)

// requestTimeout bounds every call made through the shared client.
const requestTimeout = 10 * time.Second

// Client talks to the CRM backend. All methods are single-attempt: failures
// surface immediately and the user retries manually.
type Client struct {
	mu       sync.RWMutex
	base     string
	http     *http.Client
	sessions *session.Store
	log      *zap.Logger

	// onUnauthorized runs after a 401 has cleared the session, so the UI can
	// fall back to the login screen.
	onUnauthorized func()
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient swaps the underlying HTTP client, used by tests.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger attaches a structured logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// WithUnauthorizedHook registers the 401 fallback.
func WithUnauthorizedHook(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New builds a client for the given base URL, e.g. http://localhost:8080/api.
func New(baseURL string, sessions *session.Store, opts ...Option) *Client {
	c := &Client{
		base:     strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: requestTimeout},
		sessions: sessions,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetBaseURL repoints the client, so a server change in settings takes
// effect without a restart. In-flight requests keep the URL they started
// with.
func (c *Client) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.base = strings.TrimRight(baseURL, "/")
	c.mu.Unlock()
}

// BaseURL returns the current backend base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.base
}

// do issues one request and decodes a JSON response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.sessions != nil {
		if tok := c.sessions.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, ErrUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.sessions != nil {
			_ = c.sessions.Clear()
		}
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn("request rejected",
			zap.String("method", method), zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("%s %s: %w", method, path, classifyStatus(resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Health checks backend reachability.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

// Login authenticates against the backend and persists the session.
func (c *Client) Login(ctx context.Context, role session.Role, username, password string) error {
	var resp struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expiresAt"`
	}
	body := map[string]string{"role": string(role), "username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		return err
	}
	sess := session.Session{Role: role, Token: resp.Token}
	if resp.ExpiresAt != "" {
		if exp, err := time.Parse(time.RFC3339, resp.ExpiresAt); err == nil {
			sess.ExpiresAt = exp
		}
	}
	return c.sessions.Save(sess)
}

// reverse flips a fetched collection in place so the newest records, which
// the backend appends last, list first.
func reverse[T any](items []T) []T {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	return items
}
