package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"pivot/internal/domain"
	"pivot/internal/metrics"
	"pivot/pkg/logger"
	"pivot/pkg/validator"

	"github.com/go-chi/chi/v5"
)

// maxPayloadBytes caps the create request body.
const maxPayloadBytes = 1 << 20

// Response bodies for the plain-text outcomes.
const (
	msgRouteNotFound  = "Route not found."
	msgInvalidPayload = "Invalid payload provided."
	msgRouteExists    = "Route already exists."
	msgInvalidURL     = "Invalid URL provided."
	msgInternalError  = "Internal server error"
)

// RouteService defines the route table operations needed by the handler
type RouteService interface {
	Lookup(ctx context.Context, key string) (string, error)
	List(ctx context.Context) domain.Routes
	Insert(ctx context.Context, key, target string) error
	Delete(ctx context.Context, key string) error
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	routes RouteService
	logger *slog.Logger
	banner string // Body of the catch-all response
}

// NewHandler creates a new HTTP handler
func NewHandler(routes RouteService, logger *slog.Logger, banner string) *Handler {
	return &Handler{
		routes: routes,
		logger: logger,
		banner: banner,
	}
}

// CreateRouteRequest is the body of POST /w.
// Both fields must be JSON strings; any other JSON type fails decoding.
type CreateRouteRequest struct {
	Name  string `json:"name" validate:"required"`
	Value string `json:"value" validate:"required"`
}

// Redirect handles GET /r/{key} and GET /r/{key}/{fragment}
func (h *Handler) Redirect(w http.ResponseWriter, r *http.Request) {
	key := pathParam(r, "key")
	fragment := pathParam(r, "fragment")

	target, err := h.routes.Lookup(r.Context(), key)
	if err != nil {
		metrics.RecordRedirectMiss()
		respondText(w, http.StatusNotFound, msgRouteNotFound)
		return
	}

	metrics.RecordRedirect()
	http.Redirect(w, r, domain.WithFragment(target, fragment), http.StatusFound)
}

// ListRoutes handles GET /r
func (h *Handler) ListRoutes(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.routes.List(r.Context()))
}

// CreateRoute handles POST /w
func (h *Handler) CreateRoute(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)

	var req CreateRouteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPayloadBytes)).Decode(&req); err != nil {
		log.Debug("Rejected create payload", "error", err)
		respondText(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	if err := validator.ValidateStruct(req); err != nil {
		log.Debug("Rejected create payload", "error", err)
		respondText(w, http.StatusBadRequest, msgInvalidPayload)
		return
	}

	err := h.routes.Insert(r.Context(), req.Name, req.Value)
	switch {
	case err == nil:
		log.Info("Route created", "key", req.Name, "target", req.Value)
		respondEmpty(w, http.StatusOK)
	case errors.Is(err, domain.ErrInvalidPayload):
		respondText(w, http.StatusBadRequest, msgInvalidPayload)
	case errors.Is(err, domain.ErrRouteExists):
		respondText(w, http.StatusConflict, msgRouteExists)
	case errors.Is(err, domain.ErrInvalidURL):
		respondText(w, http.StatusBadRequest, msgInvalidURL)
	default:
		log.Error("Failed to create route", "key", req.Name, "error", err)
		respondText(w, http.StatusInternalServerError, msgInternalError)
	}
}

// DeleteRoute handles DELETE /d/{key}
func (h *Handler) DeleteRoute(w http.ResponseWriter, r *http.Request) {
	log := h.requestLogger(r)
	key := pathParam(r, "key")

	err := h.routes.Delete(r.Context(), key)
	switch {
	case err == nil:
		log.Info("Route deleted", "key", key)
		respondEmpty(w, http.StatusOK)
	case errors.Is(err, domain.ErrRouteNotFound):
		respondText(w, http.StatusNotFound, msgRouteNotFound)
	default:
		log.Error("Failed to delete route", "key", key, "error", err)
		respondText(w, http.StatusInternalServerError, msgInternalError)
	}
}

// CatchAll answers every request no other route matched, whatever the method
func (h *Handler) CatchAll(w http.ResponseWriter, r *http.Request) {
	respondText(w, http.StatusOK, h.banner)
}

// HealthCheck handles GET /health/live
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) requestLogger(r *http.Request) *slog.Logger {
	if id := logger.RequestIDFromContext(r.Context()); id != "" {
		return h.logger.With("request_id", id)
	}
	return h.logger
}

// pathParam returns a decoded chi URL parameter.
//
// chi routes on r.URL.RawPath when it is set (the path held escapes such as
// %2F that Path cannot represent), and on the already-decoded r.URL.Path
// otherwise. Only the first case needs unescaping; decoding a Path value again
// would turn a literal "%41" into "A".
func pathParam(r *http.Request, name string) string {
	param := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return param
	}
	if decoded, err := url.PathUnescape(param); err == nil {
		return decoded
	}
	return param
}
