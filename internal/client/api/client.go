// Package api is the HTTP client for the fintrack backend. It speaks the
// handler layer's JSON contracts and feeds successful logins into the session
// manager, which owns the token from then on.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fintrack/fintrack/internal/client/session"
	"github.com/fintrack/fintrack/internal/core/domain"
)

const defaultTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
	session *session.Manager
}

func New(baseURL string, sess *session.Manager) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		session: sess,
	}
}

type registerPayload struct {
	Email    string `json:"email"`
	Name     string `json:"name,omitempty"`
	Password string `json:"password"`
}

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authEnvelope struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// CurrentUser is the identity echoed by the protected current-user endpoint.
type CurrentUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Exp   int64  `json:"exp"`
}

// Register creates an account. It does not log in; call Login afterwards.
func (c *Client) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	var out authEnvelope
	err := c.postJSON(ctx, "/api/users/register", registerPayload{Email: email, Name: name, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return out.User, nil
}

// Login authenticates and hands the returned token to the session manager.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out authEnvelope
	if err := c.postJSON(ctx, "/api/users/login", loginPayload{Email: email, Password: password}, &out); err != nil {
		return err
	}
	if out.Token == "" {
		return &APIError{Status: http.StatusOK, Message: "login response carried no token"}
	}
	return c.session.SetSession(out.Token)
}

// Current calls the protected current-user endpoint with the held token.
func (c *Client) Current(ctx context.Context) (*CurrentUser, error) {
	var out CurrentUser
	if err := c.getJSON(ctx, "/api/users/current", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	if raw := c.session.Token(); raw != "" {
		req.Header.Set("Authorization", "Bearer "+raw)
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		// Any rejection of the held token collapses to "not
		// authenticated" on the client.
		if resp.StatusCode == http.StatusUnauthorized && req.Header.Get("Authorization") != "" {
			c.session.ClearSession()
		}
		var envelope struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&envelope)
		if envelope.Error == "" {
			envelope.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: envelope.Error}
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
