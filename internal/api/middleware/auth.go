package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/fintrack/internal/api/metrics"
	"github.com/fintrack/fintrack/internal/core/domain"
	"github.com/fintrack/fintrack/internal/token"
)

// ClaimsContextKey is where Auth stores the verified *token.Claims on the
// echo context for downstream handlers.
const ClaimsContextKey = "auth_claims"

// Auth extracts the bearer token, verifies it with the codec, enforces expiry
// and injects the decoded claims into the context. Every rejection surfaces as
// 401 through the central error handler; the token is never mutated and
// nothing is stored server-side.
func Auth(codec *token.Codec) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingToken
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				metrics.TokenRejectionsTotal.WithLabelValues("missing").Inc()
				return domain.ErrMissingToken
			}

			claims, err := codec.Verify(parts[1])
			if err != nil {
				switch {
				case errors.Is(err, token.ErrMalformed):
					metrics.TokenRejectionsTotal.WithLabelValues("malformed").Inc()
				default:
					metrics.TokenRejectionsTotal.WithLabelValues("invalid_signature").Inc()
				}
				return err
			}

			// The codec leaves expiry to its callers; the gate enforces it.
			if claims.Expired(time.Now()) {
				metrics.TokenRejectionsTotal.WithLabelValues("expired").Inc()
				return domain.ErrTokenExpired
			}

			c.Set(ClaimsContextKey, claims)
			return next(c)
		}
	}
}
