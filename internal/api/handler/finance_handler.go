package handler

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fintrack/fintrack/internal/api/metrics"
)

// financePrefix is stripped before forwarding; the upstream sees its own paths.
const financePrefix = "/api/finance"

// FinanceHandler proxies requests to the financial-data upstream. The
// upstream's request/response shapes are opaque to this service; the only
// contract here is that a request reaches the proxy after the verification
// middleware has accepted its token.
type FinanceHandler struct {
	proxy *httputil.ReverseProxy
}

func NewFinanceHandler(upstream *url.URL, log zerolog.Logger) *FinanceHandler {
	proxy := httputil.NewSingleHostReverseProxy(upstream)

	director := proxy.Director
	proxy.Director = func(req *http.Request) {
		director(req)
		req.URL.Path = strings.TrimPrefix(req.URL.Path, financePrefix)
		if req.URL.Path == "" {
			req.URL.Path = "/"
		}
		req.Host = upstream.Host
		// The upstream has its own credentials; never leak session tokens.
		req.Header.Del(echo.HeaderAuthorization)
	}
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.Error().Err(err).Str("path", r.URL.Path).Msg("finance upstream unreachable")
		w.Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"financial data upstream unavailable"}`))
	}

	return &FinanceHandler{proxy: proxy}
}

// Proxy forwards the request to the upstream.
//
// @Summary      Financial-data pass-through
// @Tags         finance
// @Security     BearerAuth
// @Success      200
// @Failure      401  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/finance/{path} [post]
func (h *FinanceHandler) Proxy(c echo.Context) error {
	if _, err := ctxClaims(c); err != nil {
		return err
	}

	start := time.Now()
	h.proxy.ServeHTTP(c.Response(), c.Request())
	metrics.FinanceProxyDuration.WithLabelValues(c.Request().Method).Observe(time.Since(start).Seconds())
	return nil
}
