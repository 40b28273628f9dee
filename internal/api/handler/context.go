package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fintrack/fintrack/internal/api/middleware"
	"github.com/fintrack/fintrack/internal/token"
)

// ctxClaims extracts the claims injected by the Auth middleware. A missing
// entry means the route was wired without the middleware — reject rather
// than serve an unauthenticated identity.
func ctxClaims(c echo.Context) (*token.Claims, error) {
	claims, ok := c.Get(middleware.ClaimsContextKey).(*token.Claims)
	if !ok || claims == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return claims, nil
}
