package middleware_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/middleware"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	var logs strings.Builder
	base := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var ctxTraceID string
	handler := middleware.NewTraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctxTraceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates an ID", func(t *testing.T) {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/articles", nil))

		require.Len(t, ctxTraceID, 32)
		assert.Equal(t, ctxTraceID, rr.Header().Get(middleware.TraceIDHeader))
		assert.Equal(t, http.StatusTeapot, rr.Code)
		assert.Contains(t, logs.String(), "trace_id="+ctxTraceID)
		assert.Contains(t, logs.String(), "status=418")
	})

	t.Run("reuses a client ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		req.Header.Set(middleware.TraceIDHeader, "client-trace-1")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, "client-trace-1", ctxTraceID)
		assert.Equal(t, "client-trace-1", rr.Header().Get(middleware.TraceIDHeader))
	})

	t.Run("replaces a malformed client ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		req.Header.Set(middleware.TraceIDHeader, "bad id\n")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Len(t, ctxTraceID, 32)
		assert.NotEqual(t, "bad id\n", rr.Header().Get(middleware.TraceIDHeader))
	})
}
