package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// PrincipalResolver loads the current state of the account named by a token.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, id uuid.UUID) (*domain.Principal, error)
}

// AuthMiddleware authenticates bearer tokens and enforces roles.
type AuthMiddleware struct {
	jwtService auth.JWTService
	principals PrincipalResolver
	logger     *slog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService, principals PrincipalResolver, logger *slog.Logger) *AuthMiddleware {
	if jwtService == nil || principals == nil {
		// ALLOW-PANIC: constructor enforcing required dependencies
		panic("jwtService and principals cannot be nil for AuthMiddleware")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		principals: principals,
		logger:     logger.With(slog.String("component", "auth_middleware")),
	}
}

// authFailure is a rejected credential together with its response.
type authFailure struct {
	status  int
	message string
	err     error
}

// Authenticate requires a valid bearer token for an enabled account and
// stores the resulting principal in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, fail := m.authenticate(r)
		if fail != nil {
			var opts []shared.ResponseOption
			if fail.status != http.StatusInternalServerError {
				opts = append(opts, shared.WithElevatedLogLevel())
			}
			shared.RespondWithErrorAndLog(w, r, fail.status, fail.message, fail.err, opts...)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.withPrincipal(r.Context(), p)))
	})
}

// Optional authenticates the request when it carries a token and otherwise
// continues anonymously. A token that fails validation is treated as absent.
func (m *AuthMiddleware) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}

		p, fail := m.authenticate(r)
		if fail != nil {
			if fail.status == http.StatusInternalServerError {
				shared.RespondWithErrorAndLog(w, r, fail.status, fail.message, fail.err)
				return
			}
			logger.FromContextOrDefault(r.Context(), m.logger).Debug("ignoring unusable credential on optional route",
				slog.Int("would_be_status", fail.status))
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(m.withPrincipal(r.Context(), p)))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (*domain.Principal, *authFailure) {
	token, err := bearerToken(r)
	if err != nil {
		if errors.Is(err, auth.ErrMissingToken) {
			return nil, &authFailure{http.StatusUnauthorized, "Authentication required", err}
		}
		return nil, &authFailure{http.StatusUnauthorized, "Invalid authorization format", err}
	}

	claims, err := m.jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrMissingToken) {
			return nil, &authFailure{http.StatusUnauthorized, "Invalid or expired token", err}
		}
		return nil, &authFailure{http.StatusInternalServerError, "Authentication error", err}
	}

	p, err := m.principals.ResolvePrincipal(r.Context(), claims.UserID)
	switch {
	case err == nil:
		return p, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, &authFailure{http.StatusUnauthorized, "Invalid or expired token", err}
	case errors.Is(err, service.ErrAccountDisabled):
		return nil, &authFailure{http.StatusForbidden, "Account is disabled", err}
	default:
		return nil, &authFailure{http.StatusInternalServerError, "Authentication error", err}
	}
}

func (m *AuthMiddleware) withPrincipal(ctx context.Context, p *domain.Principal) context.Context {
	ctx = shared.WithPrincipal(ctx, p)
	log := logger.FromContextOrDefault(ctx, slog.Default()).With(slog.String("user_id", p.ID.String()))
	return logger.WithLogger(ctx, log)
}

// RequireRole rejects requests whose principal holds none of roles. It must
// run after Authenticate; a missing principal yields 401.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := shared.PrincipalFromContext(r.Context())
			if p == nil {
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
				return
			}
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Access denied",
				errors.New("role "+string(p.Role)+" not permitted"), shared.WithElevatedLogLevel())
		})
	}
}

// RequireAdmin is RequireRole(domain.RoleAdmin).
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin)(next)
}

// RequireAuthor admits contributors and admins.
func RequireAuthor(next http.Handler) http.Handler {
	return RequireRole(domain.RoleAdmin, domain.RoleContributor)(next)
}

// bearerToken extracts the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, error) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return "", auth.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", auth.ErrMalformedToken
	}
	return token, nil
}
