package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/fintrack/fintrack/internal/core/domain"
	"github.com/fintrack/fintrack/internal/token"
)

func mustCodec(t *testing.T) *token.Codec {
	t.Helper()
	codec, err := token.New("secret")
	if err != nil {
		t.Fatalf("codec: %v", err)
	}
	return codec
}

func mintToken(t *testing.T, codec *token.Codec, ttl time.Duration) string {
	t.Helper()
	raw, err := codec.Mint(token.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user_1"},
		Email:            "alice@example.com",
	}, ttl)
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	return raw
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	codec := mustCodec(t)
	raw := mintToken(t, codec, time.Hour)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+raw)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	mw := Auth(codec)
	handler := mw(func(c echo.Context) error {
		called = true
		claims, ok := c.Get(ClaimsContextKey).(*token.Claims)
		if !ok {
			t.Fatalf("claims not set")
		}
		if claims.Subject != "user_1" || claims.Email != "alice@example.com" {
			t.Fatalf("unexpected claims: %+v", claims)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	e := echo.New()
	codec := mustCodec(t)
	raw := mintToken(t, codec, time.Hour)
	repl := byte('A')
	if raw[len(raw)-1] == 'A' {
		repl = 'B'
	}
	tampered := raw[:len(raw)-1] + string(repl)
	expired := mintToken(t, codec, -time.Second)

	cases := []struct {
		name   string
		header string
		want   error
	}{
		{"no header", "", domain.ErrMissingToken},
		{"wrong scheme", "Token abc", domain.ErrMissingToken},
		{"not a token", "Bearer not-a-token", token.ErrMalformed},
		{"tampered signature", "Bearer " + tampered, token.ErrInvalidSignature},
		{"expired", "Bearer " + expired, domain.ErrTokenExpired},
	}

	mw := Auth(codec)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler := mw(func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})

			if err := handler(c); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestAuthMiddleware_ExpiredTokenError(t *testing.T) {
	e := echo.New()
	codec := mustCodec(t)
	expired := mintToken(t, codec, -time.Minute)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+expired)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	mw := Auth(codec)
	err := mw(func(c echo.Context) error { return nil })(c)
	if err == nil {
		t.Fatalf("expected error for expired token")
	}
	// The token decodes fine; rejection must come from the expiry check,
	// not the codec.
	if _, verifyErr := codec.Verify(expired); verifyErr != nil {
		t.Fatalf("expired token should still verify: %v", verifyErr)
	}
}
