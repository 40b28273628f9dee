package api

import (
	"net/url"
	"strings"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fintrack/fintrack/internal/api/handler"
	"github.com/fintrack/fintrack/internal/api/middleware"
	"github.com/fintrack/fintrack/internal/core/ports"
	"github.com/fintrack/fintrack/internal/token"
)

// Deps carries everything the router wires together. Mongo, Redis,
// FinanceUpstream and ClientDir are optional; the corresponding routes are
// registered only when present, which also lets tests run against stubs.
type Deps struct {
	AuthService ports.AuthService
	Codec       *token.Codec
	Mongo       *mongo.Database
	Redis       *redis.Client
	// FinanceUpstream is the base URL of the financial-data collaborator.
	FinanceUpstream *url.URL
	// ClientDir is the SPA build directory, served with index.html fallback.
	ClientDir string
	Log       zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("fintrack"))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(d.AuthService)
	authMiddleware := middleware.Auth(d.Codec)

	// --- Auth routes ---
	e.POST("/api/users/register", authHandler.Register)
	e.POST("/api/users/login", authHandler.Login)
	e.GET("/api/users/current", authHandler.CurrentUser, authMiddleware)

	// --- Financial-data proxy (protected) ---
	if d.FinanceUpstream != nil {
		financeHandler := handler.NewFinanceHandler(d.FinanceUpstream, d.Log)
		e.Any("/api/finance/*", financeHandler.Proxy, authMiddleware)
	}

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Mongo, d.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- SPA client (served last so API routes win) ---
	if d.ClientDir != "" {
		e.Use(echomiddleware.StaticWithConfig(echomiddleware.StaticConfig{
			Root:  d.ClientDir,
			HTML5: true, // history-API fallback to index.html
			Skipper: func(c echo.Context) bool {
				p := c.Request().URL.Path
				for _, prefix := range []string{"/api/", "/health", "/metrics", "/swagger"} {
					if strings.HasPrefix(p, prefix) {
						return true
					}
				}
				return false
			},
		}))
	}

	return e
}
