package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"pivot/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggingMiddleware_LogsBeforeHandler(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	var loggedBeforeHandler bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loggedBeforeHandler = bytes.Contains(buf.Bytes(), []byte("API request"))
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/r/docs", nil)
	req.Header.Set("User-Agent", "curl/8.5.0")
	w := httptest.NewRecorder()
	LoggingMiddleware(log)(next).ServeHTTP(w, req)

	assert.True(t, loggedBeforeHandler)
	assert.Equal(t, http.StatusTeapot, w.Code)

	var entry map[string]interface{}
	line, _, _ := bytes.Cut(buf.Bytes(), []byte("\n"))
	require.NoError(t, json.Unmarshal(line, &entry))
	assert.Equal(t, "API request", entry["msg"])
	assert.Equal(t, "curl/8.5.0", entry["user_agent"])
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/r/docs", entry["path"])
}

func TestRequestIDMiddleware(t *testing.T) {
	var seen string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.RequestIDFromContext(r.Context())
	})

	w := httptest.NewRecorder()
	RequestIDMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	header := w.Header().Get("X-Request-ID")
	assert.Equal(t, header, seen)
	_, err := uuid.Parse(header)
	assert.NoError(t, err)
}

func TestRecoveryMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	RecoveryMiddleware(discardLogger())(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", w.Body.String())
}

func TestBearerAuth(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})
	gate := BearerAuth("secret", discardLogger())(next)

	req := httptest.NewRequest(http.MethodGet, "/r", nil)
	req.Header.Set("Authorization", "Bearer secret")
	w := httptest.NewRecorder()
	gate.ServeHTTP(w, req)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)

	called = false
	req = httptest.NewRequest(http.MethodGet, "/r", nil)
	req.Header.Set("Authorization", "Bearer Secret")
	w = httptest.NewRecorder()
	gate.ServeHTTP(w, req)
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestResponseWriter_SharedAndFirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()

	outer := wrapResponseWriter(rec)
	inner := wrapResponseWriter(outer)
	require.Same(t, outer, inner)

	inner.WriteHeader(http.StatusCreated)
	assert.Equal(t, http.StatusCreated, outer.statusCode)
}
