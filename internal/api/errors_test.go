package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/policy"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "nil error", err: nil, expectedStatus: http.StatusOK},
		{name: "invalid token", err: auth.ErrInvalidToken, expectedStatus: http.StatusUnauthorized},
		{name: "expired token", err: fmt.Errorf("validate: %w", auth.ErrExpiredToken), expectedStatus: http.StatusUnauthorized},
		{name: "missing token", err: auth.ErrMissingToken, expectedStatus: http.StatusUnauthorized},
		{name: "bad login", err: service.ErrInvalidCredentials, expectedStatus: http.StatusUnauthorized},
		{name: "access denied", err: fmt.Errorf("update article: %w", policy.ErrAccessDenied), expectedStatus: http.StatusForbidden},
		{name: "pending account", err: service.ErrAccountPending, expectedStatus: http.StatusForbidden},
		{name: "disabled account", err: service.ErrAccountDisabled, expectedStatus: http.StatusForbidden},
		{name: "article not found", err: store.ErrArticleNotFound, expectedStatus: http.StatusNotFound},
		{name: "user not found", err: fmt.Errorf("get: %w", store.ErrUserNotFound), expectedStatus: http.StatusNotFound},
		{name: "email exists", err: store.ErrEmailExists, expectedStatus: http.StatusConflict},
		{name: "admin exists", err: service.ErrAdminExists, expectedStatus: http.StatusConflict},
		{name: "already published", err: policy.ErrAlreadyPublished, expectedStatus: http.StatusConflict},
		{name: "validation", err: domain.NewValidationError("title", "is required", nil), expectedStatus: http.StatusBadRequest},
		{name: "invalid id", err: domain.ErrInvalidID, expectedStatus: http.StatusBadRequest},
		{name: "invalid role", err: domain.ErrInvalidRole, expectedStatus: http.StatusBadRequest},
		{name: "invalid body", err: shared.ErrInvalidBody, expectedStatus: http.StatusBadRequest},
		{name: "file too large", err: service.ErrFileTooLarge, expectedStatus: http.StatusBadRequest},
		{name: "unsupported type", err: service.ErrUnsupportedMediaType, expectedStatus: http.StatusBadRequest},
		{name: "too many files", err: service.ErrTooManyFiles, expectedStatus: http.StatusBadRequest},
		{name: "upstream", err: fmt.Errorf("put object: %w", service.ErrUpstream), expectedStatus: http.StatusBadGateway},
		{name: "media disabled", err: service.ErrMediaDisabled, expectedStatus: http.StatusServiceUnavailable},
		{name: "unknown", err: errors.New("connection reset by peer"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "invalid token", err: auth.ErrInvalidSignature, expected: "Invalid or expired token"},
		{name: "bad login", err: service.ErrInvalidCredentials, expected: "Invalid email or password"},
		{name: "pending", err: service.ErrAccountPending, expected: "Account is pending approval"},
		{name: "article not found", err: store.ErrArticleNotFound, expected: "Article not found"},
		{name: "user not found", err: store.ErrUserNotFound, expected: "User not found"},
		{name: "generic not found", err: store.ErrNotFound, expected: "Resource not found"},
		{name: "email exists", err: store.ErrEmailExists, expected: "Email is already registered"},
		{name: "already published", err: policy.ErrAlreadyPublished, expected: "Article is already published"},
		{name: "invalid body", err: shared.ErrInvalidBody, expected: "Invalid request format"},
		{name: "field validation", err: domain.NewValidationError("email", "is required", nil), expected: "Validation failed"},
		{name: "upstream", err: service.ErrUpstream, expected: "Media provider is unavailable"},
		{
			name:     "internal details hidden",
			err:      fmt.Errorf("query failed: %w", errors.New("pq: relation \"articles\" does not exist")),
			expected: "An unexpected error occurred",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	t.Run("validation error lists fields", func(t *testing.T) {
		verr := domain.NewValidationError("title", "is required", nil)
		verr.Add("excerpt", "must be at least 10 characters")

		req := httptest.NewRequest(http.MethodPost, "/api/articles", nil)
		rec := httptest.NewRecorder()
		HandleAPIError(rec, req, fmt.Errorf("create article: %w", verr))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var body shared.ErrorResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "Validation failed", body.Error)
		assert.Equal(t, []domain.FieldError{
			{Field: "title", Message: "is required"},
			{Field: "excerpt", Message: "must be at least 10 characters"},
		}, body.Fields)
	})

	t.Run("internal error is not leaked", func(t *testing.T) {
		var logs bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
		req := httptest.NewRequest(http.MethodGet, "/api/articles", nil)
		req = req.WithContext(logger.WithLogger(req.Context(), log))
		rec := httptest.NewRecorder()

		HandleAPIError(rec, req, errors.New("dial tcp: password=hunter2 host=db.internal"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "hunter2")
		assert.Contains(t, rec.Body.String(), "An unexpected error occurred")
		assert.NotContains(t, logs.String(), "hunter2")
	})

	t.Run("forbidden is logged at warn", func(t *testing.T) {
		var logs bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&logs, &slog.HandlerOptions{Level: slog.LevelWarn}))
		req := httptest.NewRequest(http.MethodDelete, "/api/articles/x", nil)
		req = req.WithContext(logger.WithLogger(req.Context(), log))
		rec := httptest.NewRecorder()

		HandleAPIError(rec, req, policy.ErrAccessDenied)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Contains(t, logs.String(), `"level":"WARN"`)
	})
}
