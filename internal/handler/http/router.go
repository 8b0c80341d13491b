package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds everything NewRouter needs beyond the handler itself.
type RouterConfig struct {
	AuthToken     string
	EnableMetrics bool
	Logger        *slog.Logger
}

// NewRouter assembles the chi router with its middleware stack and routes.
//
// Execution order, outside-in:
// Recovery → RequestID → Metrics → Logging → (BearerAuth) → handler
//
// Anything that matches no route, or matches a path with an unsupported
// method, falls through to the catch-all banner.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))

	// Public redirects
	r.Get("/r/{key}", h.Redirect)
	r.Get("/r/{key}/{fragment}", h.Redirect)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(BearerAuth(cfg.AuthToken, cfg.Logger))

		r.Get("/r", h.ListRoutes)
		r.Post("/w", h.CreateRoute)
		r.Delete("/d/{key}", h.DeleteRoute)
	})

	// Operational endpoints
	r.Get("/health/live", h.HealthCheck)
	if cfg.EnableMetrics {
		r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	}

	r.NotFound(h.CatchAll)
	r.MethodNotAllowed(h.CatchAll)

	return r
}
