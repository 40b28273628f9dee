package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fintrack/fintrack/internal/api/middleware"
	"github.com/fintrack/fintrack/internal/core/domain"
	"github.com/fintrack/fintrack/internal/token"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, email, name, password string) (*domain.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	return s.registerFn(ctx, email, name, password)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	return s.loginFn(ctx, email, password)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func TestAuthHandler_Register_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, name, password string) (*domain.User, error) {
			if email != "alice@example.com" || name != "Alice" {
				t.Fatalf("unexpected args: %s %s", email, name)
			}
			return &domain.User{ID: "user_1", Email: email, Name: name}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"alice@example.com","name":"Alice","password":"correct-secret-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	user, ok := resp["user"].(map[string]any)
	if !ok {
		t.Fatalf("expected user in response")
	}
	if user["email"] != "alice@example.com" || user["id"] != "user_1" {
		t.Fatalf("unexpected user payload: %+v", user)
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatalf("password hash leaked in response")
	}
}

func TestAuthHandler_Register_MissingFields(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, name, password string) (*domain.User, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(`{"email":"not-an-email"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Register(c)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_Register_Duplicate(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		registerFn: func(ctx context.Context, email, name, password string) (*domain.User, error) {
			return nil, domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"bob@example.com","password":"correct-secret-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Register(c); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists to propagate, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "correct-secret-1" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: "user_1", Email: email}, nil
		},
	}
	handler := NewAuthHandler(stub)

	body := strings.NewReader(`{"email":"alice@example.com","password":"correct-secret-1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["token"] != "token123" {
		t.Fatalf("expected token, got %v", resp["token"])
	}
}

func TestAuthHandler_Login_RejectionsPropagate(t *testing.T) {
	e := newTestEcho()
	for _, sentinel := range []error{domain.ErrInvalidCredentials, domain.ErrUserNotFound, domain.ErrTooManyAttempts} {
		stub := &stubAuthService{
			loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
				return "", nil, sentinel
			},
		}
		handler := NewAuthHandler(stub)

		body := strings.NewReader(`{"email":"alice@example.com","password":"bad-password-1"}`)
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", body)
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)

		if err := handler.Login(c); err != sentinel {
			t.Fatalf("expected %v to propagate, got %v", sentinel, err)
		}
	}
}

func TestAuthHandler_Login_InvalidPayload(t *testing.T) {
	e := newTestEcho()
	stub := &stubAuthService{
		loginFn: func(ctx context.Context, email, password string) (string, *domain.User, error) {
			t.Fatalf("should not be called")
			return "", nil, nil
		},
	}
	handler := NewAuthHandler(stub)

	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.Login(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestAuthHandler_CurrentUser(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	c.Set(middleware.ClaimsContextKey, &token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user_1",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		Email: "alice@example.com",
		Name:  "Alice",
	})

	if err := handler.CurrentUser(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp currentUserResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.ID != "user_1" || resp.Email != "alice@example.com" || resp.Exp != exp.Unix() {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_CurrentUser_NoClaims(t *testing.T) {
	e := newTestEcho()
	handler := NewAuthHandler(&stubAuthService{})

	req := httptest.NewRequest(http.MethodGet, "/api/users/current", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := handler.CurrentUser(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}
