package middleware_test

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/middleware"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/mocks"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

var rangerID = uuid.MustParse("7d0f3c2e-1b6a-4a51-9c1e-2f4b8a9d0c11")

func rangerPrincipal(role domain.Role) *domain.Principal {
	return &domain.Principal{
		ID:       rangerID,
		Email:    "ranger@example.org",
		Name:     "Park Ranger",
		Role:     role,
		Approved: true,
		Enabled:  true,
	}
}

// echoPrincipal responds 200 with the principal's ID, or "anonymous".
var echoPrincipal = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	p := shared.PrincipalFromContext(r.Context())
	if p == nil {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(p.ID.String()))
})

func TestAuthMiddleware_Authenticate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		authHeader  string
		validateErr error
		resolveErr  error
		wantStatus  int
		wantBody    string
	}{
		{
			name:       "valid token",
			authHeader: "Bearer valid-token",
			wantStatus: http.StatusOK,
			wantBody:   rangerID.String(),
		},
		{
			name:       "lower-case scheme",
			authHeader: "bearer valid-token",
			wantStatus: http.StatusOK,
			wantBody:   rangerID.String(),
		},
		{
			name:       "missing header",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Authentication required",
		},
		{
			name:       "wrong scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid authorization format",
		},
		{
			name:       "scheme without token",
			authHeader: "Bearer ",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:        "expired token",
			authHeader:  "Bearer expired",
			validateErr: auth.ErrExpiredToken,
			wantStatus:  http.StatusUnauthorized,
			wantBody:    "Invalid or expired token",
		},
		{
			name:        "bad signature",
			authHeader:  "Bearer forged",
			validateErr: auth.ErrInvalidSignature,
			wantStatus:  http.StatusUnauthorized,
		},
		{
			name:        "unexpected validation failure",
			authHeader:  "Bearer valid-token",
			validateErr: errors.New("key store offline"),
			wantStatus:  http.StatusInternalServerError,
		},
		{
			name:       "deleted account",
			authHeader: "Bearer valid-token",
			resolveErr: store.ErrUserNotFound,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "disabled account",
			authHeader: "Bearer valid-token",
			resolveErr: service.ErrAccountDisabled,
			wantStatus: http.StatusForbidden,
			wantBody:   "Account is disabled",
		},
		{
			name:       "resolver failure",
			authHeader: "Bearer valid-token",
			resolveErr: errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jwtSvc := &mocks.MockJWTService{
				Claims:      &auth.Claims{UserID: rangerID},
				ValidateErr: tc.validateErr,
			}
			users := &mocks.MockUserService{}
			if tc.resolveErr != nil {
				users.On("ResolvePrincipal", mock.Anything, rangerID).Return(nil, tc.resolveErr)
			} else {
				users.On("ResolvePrincipal", mock.Anything, rangerID).Return(rangerPrincipal(domain.RoleContributor), nil).Maybe()
			}

			mw := middleware.NewAuthMiddleware(jwtSvc, users, slog.Default())
			req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			mw.Authenticate(echoPrincipal).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestAuthMiddleware_PassesRawToken(t *testing.T) {
	t.Parallel()

	var seen string
	jwtSvc := &mocks.MockJWTService{
		ValidateTokenFn: func(_ context.Context, token string) (*auth.Claims, error) {
			seen = token
			return &auth.Claims{UserID: rangerID}, nil
		},
	}
	users := &mocks.MockUserService{}
	users.On("ResolvePrincipal", mock.Anything, rangerID).Return(rangerPrincipal(domain.RoleAdmin), nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer  abc.def.ghi ")
	rr := httptest.NewRecorder()

	middleware.NewAuthMiddleware(jwtSvc, users, nil).Authenticate(echoPrincipal).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "abc.def.ghi", seen)
	users.AssertExpectations(t)
}

func TestAuthMiddleware_Optional(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		authHeader  string
		validateErr error
		resolveErr  error
		wantStatus  int
		wantBody    string
	}{
		{name: "anonymous", wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "authenticated", authHeader: "Bearer ok", wantStatus: http.StatusOK, wantBody: rangerID.String()},
		{name: "invalid token", authHeader: "Bearer bad", validateErr: auth.ErrMalformedToken, wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "disabled account", authHeader: "Bearer ok", resolveErr: service.ErrAccountDisabled, wantStatus: http.StatusOK, wantBody: "anonymous"},
		{name: "resolver failure", authHeader: "Bearer ok", resolveErr: errors.New("db down"), wantStatus: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jwtSvc := &mocks.MockJWTService{Claims: &auth.Claims{UserID: rangerID}, ValidateErr: tc.validateErr}
			users := &mocks.MockUserService{}
			if tc.resolveErr != nil {
				users.On("ResolvePrincipal", mock.Anything, rangerID).Return(nil, tc.resolveErr)
			} else {
				users.On("ResolvePrincipal", mock.Anything, rangerID).Return(rangerPrincipal(domain.RoleContributor), nil).Maybe()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/articles/x", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			middleware.NewAuthMiddleware(jwtSvc, users, nil).Optional(echoPrincipal).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, rr.Body.String())
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		principal  *domain.Principal
		guard      func(http.Handler) http.Handler
		wantStatus int
	}{
		{name: "admin on admin route", principal: rangerPrincipal(domain.RoleAdmin), guard: middleware.RequireAdmin, wantStatus: http.StatusOK},
		{name: "contributor on admin route", principal: rangerPrincipal(domain.RoleContributor), guard: middleware.RequireAdmin, wantStatus: http.StatusForbidden},
		{name: "anonymous on admin route", guard: middleware.RequireAdmin, wantStatus: http.StatusUnauthorized},
		{name: "contributor on author route", principal: rangerPrincipal(domain.RoleContributor), guard: middleware.RequireAuthor, wantStatus: http.StatusOK},
		{name: "admin on author route", principal: rangerPrincipal(domain.RoleAdmin), guard: middleware.RequireAuthor, wantStatus: http.StatusOK},
		{name: "unknown role on author route", principal: rangerPrincipal(domain.Role("GUEST")), guard: middleware.RequireAuthor, wantStatus: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.principal != nil {
				req = req.WithContext(shared.WithPrincipal(req.Context(), tc.principal))
			}
			rr := httptest.NewRecorder()

			tc.guard(echoPrincipal).ServeHTTP(rr, req)

			assert.Equal(t, tc.wantStatus, rr.Code)
		})
	}
}

func TestAuthMiddleware_RedactsLoggedErrors(t *testing.T) {
	t.Parallel()

	var logs strings.Builder
	l := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	jwtSvc := &mocks.MockJWTService{Claims: &auth.Claims{UserID: rangerID}}
	users := &mocks.MockUserService{}
	users.On("ResolvePrincipal", mock.Anything, rangerID).
		Return(nil, errors.New("query failed on postgres://app:hunter22@db:5432/wildlife"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), l))
	req.Header.Set("Authorization", "Bearer ok")
	rr := httptest.NewRecorder()

	middleware.NewAuthMiddleware(jwtSvc, users, l).Authenticate(echoPrincipal).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, logs.String(), "hunter22")
	assert.NotContains(t, rr.Body.String(), "postgres")
	assert.Contains(t, logs.String(), "[REDACTED_CREDENTIAL]")
}
