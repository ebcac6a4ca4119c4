package shared

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
)

// tracedRequest returns a request carrying a trace ID and a logger writing to buf.
func tracedRequest(buf *strings.Builder) *http.Request {
	l := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := logger.WithLogger(WithTraceID(context.Background(), "test-trace-id"), l)
	return httptest.NewRequest(http.MethodGet, "/api/articles", nil).WithContext(ctx)
}

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusCreated, map[string]interface{}{"success": true, "count": 3})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(3), body["count"])
}

func TestRespondWithJSON_EncodingError(t *testing.T) {
	t.Parallel()

	var logs strings.Builder
	w := httptest.NewRecorder()

	RespondWithJSON(w, tracedRequest(&logs), http.StatusOK, map[string]interface{}{"ch": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, logs.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	var logs strings.Builder
	w := httptest.NewRecorder()

	RespondWithError(w, tracedRequest(&logs), http.StatusUnauthorized, "Authentication required")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Authentication required", resp.Error)
	assert.Equal(t, "test-trace-id", resp.TraceID)
	assert.Empty(t, resp.Fields)
}

func TestRespondWithError_NoTraceID(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	RespondWithError(w, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusNotFound, "Not found")

	assert.NotContains(t, w.Body.String(), "trace_id")
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		err       error
		elevate   bool
		wantLevel string
	}{
		{name: "server error", status: http.StatusInternalServerError, err: errors.New("db down"), wantLevel: "level=ERROR"},
		{name: "client error", status: http.StatusBadRequest, err: errors.New("bad input"), wantLevel: "level=DEBUG"},
		{name: "elevated client error", status: http.StatusForbidden, err: errors.New("denied"), elevate: true, wantLevel: "level=WARN"},
		{name: "rate limited", status: http.StatusTooManyRequests, err: errors.New("slow down"), wantLevel: "level=WARN"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var logs strings.Builder
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, tracedRequest(&logs), tc.status, "safe message", tc.err, opts...)

			assert.Equal(t, tc.status, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "safe message", resp.Error)
			assert.Equal(t, "test-trace-id", resp.TraceID)

			out := logs.String()
			assert.Contains(t, out, tc.wantLevel)
			assert.Contains(t, out, "trace_id=test-trace-id")
			assert.Contains(t, out, "error_type=")
		})
	}
}

func TestRespondWithErrorAndLog_ValidationFields(t *testing.T) {
	t.Parallel()

	verr := &domain.ValidationError{}
	verr.Add("title", "must be between 5 and 255 characters")
	verr.Add("excerpt", "must be between 10 and 500 characters")
	err := fmt.Errorf("failed to create article: %w", verr)

	var logs strings.Builder
	w := httptest.NewRecorder()
	RespondWithErrorAndLog(w, tracedRequest(&logs), http.StatusBadRequest, "Validation failed", err)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, verr.Fields, resp.Fields)
}

func TestRespondWithErrorAndLog_RedactsLogs(t *testing.T) {
	t.Parallel()

	var logs strings.Builder
	w := httptest.NewRecorder()
	err := errors.New("connect: postgres://app:hunter22@db:5432/wildlife")

	RespondWithErrorAndLog(w, tracedRequest(&logs), http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.NotContains(t, logs.String(), "hunter22")
	assert.NotContains(t, w.Body.String(), "postgres://")
	assert.NotContains(t, w.Body.String(), "fields")
}
