package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/kazlaw/shule/core/sysconfig"
	"github.com/kazlaw/shule/core/user"
)

// Client talks to the API server. Its calls are the only operations on the
// client side that may block; the session cache, guard and dispatcher all
// complete synchronously against local state.
type Client struct {
	baseURL string
	http    *http.Client
	cache   *SessionCache
}

func New(baseURL string, cache *SessionCache) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		cache:   cache,
	}
}

// Cache exposes the session cache for guard checks and logout.
func (c *Client) Cache() *SessionCache { return c.cache }

// APIError is a failure response from the server, distinguished by Code.
type APIError struct {
	StatusCode int               `json:"-"`
	Code       string            `json:"code"`
	Message    string            `json:"error"`
	Fields     map[string]string `json:"fields"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("request failed (%s)", e.Code)
}

type (
	loginRequest struct {
		Username string    `json:"username"`
		Secret   string    `json:"secret"`
		Role     user.Role `json:"role"`
	}

	loginResponse struct {
		ID    string    `json:"id"`
		Name  string    `json:"name"`
		Role  user.Role `json:"role"`
		Token string    `json:"token"`
	}

	// Registration is the admin self-registration payload.
	Registration struct {
		Name          string `json:"name"`
		Email         string `json:"email"`
		Mobile        string `json:"mobile"`
		Secret        string `json:"secret"`
		SecretConfirm string `json:"secret_confirm"`
	}
)

// Login validates the credentials against the claimed role and, on success,
// atomically stores the issued session in the cache and returns it.
func (c *Client) Login(ctx context.Context, username, secret string, role user.Role) (Session, error) {
	var res loginResponse
	err := c.do(ctx, http.MethodPost, "/v1/auth/login",
		loginRequest{Username: username, Secret: secret, Role: role}, &res, false)
	if err != nil {
		return Session{}, err
	}

	s := Session{
		ID:       res.ID,
		Name:     res.Name,
		Role:     res.Role, // the server's stored role, never the claimed one
		Token:    res.Token,
		IssuedAt: time.Now().UTC(),
	}
	if err := c.cache.Store(s); err != nil {
		return Session{}, errors.Wrap(err, "caching session")
	}
	return s, nil
}

// Logout drops the cached session; the next guarded navigation redirects to login.
func (c *Client) Logout() error {
	return c.cache.Clear()
}

// Register self-registers a new admin account. No session is issued; the new
// admin must subsequently log in.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	return c.do(ctx, http.MethodPost, "/v1/auth/register", reg, nil, false)
}

// SysConfig reads the current gating policy.
func (c *Client) SysConfig(ctx context.Context) (sysconfig.Config, error) {
	var cfg sysconfig.Config
	err := c.do(ctx, http.MethodGet, "/v1/sysconfig", nil, &cfg, false)
	return cfg, err
}

// ToggleLogin flips the global login gate; requires a cached superadmin session.
func (c *Client) ToggleLogin(ctx context.Context) (sysconfig.Config, error) {
	var cfg sysconfig.Config
	err := c.do(ctx, http.MethodPost, "/v1/sysconfig/toggle-login", nil, &cfg, true)
	return cfg, err
}

// ToggleRegistration flips the global admin-registration gate.
func (c *Client) ToggleRegistration(ctx context.Context) (sysconfig.Config, error) {
	var cfg sysconfig.Config
	err := c.do(ctx, http.MethodPost, "/v1/sysconfig/toggle-registration", nil, &cfg, true)
	return cfg, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}, authed bool) error {
	var reqBody bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&reqBody).Encode(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		if s, ok := c.cache.Load(); ok {
			req.Header.Set("Authorization", "Bearer "+s.Token)
		}
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "calling "+path)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: res.StatusCode}
		if err := json.NewDecoder(res.Body).Decode(apiErr); err != nil {
			return errors.Wrapf(err, "decoding error response (%d)", res.StatusCode)
		}
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(res.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}
