// Package client is the API consumer side of the service: it owns the
// session lifecycle (token + cached profile), attaches the Bearer header to
// every authenticated request, and forces a logout whenever the server
// answers 401.
package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotAuthenticated means no token is held; the caller must log in first.
	ErrNotAuthenticated = errors.New("client: not authenticated")
	// ErrSessionExpired means the server rejected the token; the session has
	// already been cleared by the time this is returned.
	ErrSessionExpired = errors.New("client: session expired")
)

// APIError is a non-401 error response with the server's detail message.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// NetworkError wraps a transport-level failure (no HTTP response at all).
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string { return "network error: " + e.Err.Error() }
func (e *NetworkError) Unwrap() error { return e.Err }

// UserProfile is the denormalized public profile cached alongside the token.
type UserProfile struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	IsActive bool   `json:"is_active"`
}

type Client struct {
	baseURL          string
	http             *http.Client
	store            Store
	onSessionExpired func()
}

type Option func(*Client)

func WithStore(s Store) Option {
	return func(c *Client) { c.store = s }
}

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithSessionExpiredHandler registers the callback fired after a forced
// logout, the equivalent of redirecting the browser to the login page. It
// runs after the session is cleared and before the error is returned.
func WithSessionExpiredHandler(fn func()) Option {
	return func(c *Client) { c.onSessionExpired = fn }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		store:   NewMemoryStore(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) IsAuthenticated() bool {
	_, ok := c.store.Get(tokenKey)
	return ok
}

// CurrentUser returns the profile snapshot cached at login time.
func (c *Client) CurrentUser() (*UserProfile, bool) {
	raw, ok := c.store.Get(userKey)
	if !ok {
		return nil, false
	}
	var u UserProfile
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		return nil, false
	}
	return &u, true
}

func (c *Client) setSession(token string, u *UserProfile) {
	raw, _ := json.Marshal(u)
	c.store.Set(tokenKey, token)
	c.store.Set(userKey, string(raw))
}

// clearSession drops token and cached user together. Idempotent.
func (c *Client) clearSession() {
	c.store.Delete(tokenKey)
	c.store.Delete(userKey)
}

// requestConfig enumerates everything a request can carry; exactly one of
// jsonBody and formBody may be set.
type requestConfig struct {
	method   string
	path     string
	query    url.Values
	jsonBody interface{}
	formBody url.Values
	auth     bool
}

func (c *Client) do(rc requestConfig, out interface{}) error {
	var token string
	if rc.auth {
		t, ok := c.store.Get(tokenKey)
		if !ok {
			return ErrNotAuthenticated
		}
		token = t
	}

	endpoint := c.baseURL + rc.path
	if len(rc.query) > 0 {
		endpoint += "?" + rc.query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case rc.jsonBody != nil:
		raw, err := json.Marshal(rc.jsonBody)
		if err != nil {
			return err
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	case rc.formBody != nil:
		body = strings.NewReader(rc.formBody.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequest(rc.method, endpoint, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	// The session is void on any 401: clear it and signal the caller only
	// after the stored state is gone.
	if resp.StatusCode == http.StatusUnauthorized {
		c.clearSession()
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return ErrSessionExpired
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &payload) == nil {
			apiErr.Detail = payload.Detail
		}
		return apiErr
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

// doRaw streams a successful response body to w (CSV downloads).
func (c *Client) doRaw(rc requestConfig, w io.Writer) error {
	var token string
	if rc.auth {
		t, ok := c.store.Get(tokenKey)
		if !ok {
			return ErrNotAuthenticated
		}
		token = t
	}
	endpoint := c.baseURL + rc.path
	if len(rc.query) > 0 {
		endpoint += "?" + rc.query.Encode()
	}
	req, err := http.NewRequest(rc.method, endpoint, nil)
	if err != nil {
		return err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusUnauthorized {
		c.clearSession()
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return ErrSessionExpired
	}
	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Detail string `json:"detail"`
		}
		if data, rerr := io.ReadAll(resp.Body); rerr == nil && json.Unmarshal(data, &payload) == nil {
			apiErr.Detail = payload.Detail
		}
		return apiErr
	}
	_, err = io.Copy(w, resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	return nil
}
