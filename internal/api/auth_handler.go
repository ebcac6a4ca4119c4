package api

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
)

// TokenType is the scheme clients must use with issued tokens.
const TokenType = "Bearer"

// AuthHandler handles registration, login and the caller's own account.
type AuthHandler struct {
	authService service.AuthService
	userService service.UserService
	logger      *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(authService service.AuthService, userService service.UserService, logger *slog.Logger) *AuthHandler {
	if authService == nil || userService == nil {
		// ALLOW-PANIC: constructor enforcing required dependencies
		panic("authService and userService cannot be nil for AuthHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		authService: authService,
		userService: userService,
		logger:      logger.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /auth/register. The account starts pending approval.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, Envelope{
		Success: true,
		Message: "Registration successful. Your account is pending admin approval.",
		Data:    user,
	})
}

// CreateAdmin handles POST /auth/create-admin. It only succeeds while no
// admin exists.
func (h *AuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authService.BootstrapAdmin(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("admin account bootstrapped",
		slog.String("user_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, Envelope{
		Success: true,
		Message: "Admin user created successfully",
		Data:    user,
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.authService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := MapErrorToStatusCode(err)
		if status == http.StatusUnauthorized || status == http.StatusForbidden {
			shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Token:     result.Token,
		TokenType: TokenType,
		ExpiresAt: result.ExpiresAt,
		User:      result.User,
	})
}

// ApproveUser handles POST /auth/approve-user/{email}.
func (h *AuthHandler) ApproveUser(w http.ResponseWriter, r *http.Request) {
	email, err := url.PathUnescape(chi.URLParam(r, "email"))
	if err != nil || email == "" {
		HandleAPIError(w, r, domain.NewValidationError("email", "must be a valid email address", domain.ErrInvalidEmail))
		return
	}

	user, err := h.authService.ApproveByEmail(r.Context(), principalFrom(r), email)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{
		Success: true,
		Message: "User approved successfully",
		Data:    user,
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	if p == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.userService.Get(r.Context(), p.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{Success: true, Data: user})
}

// UpdateProfile handles PUT /auth/update-profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), principalFrom(r), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{
		Success: true,
		Message: "Profile updated successfully",
		Data:    user,
	})
}

// ChangePassword handles PUT /auth/change-password. A wrong current password
// answers 400, not 401: the caller's token is still valid.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	err := h.userService.ChangePassword(r.Context(), principalFrom(r), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Current password is incorrect", err)
		return
	case err != nil:
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{
		Success: true,
		Message: "Password changed successfully",
	})
}

// decodeAndValidate decodes the JSON body into dst and checks its validate
// tags, writing a 400 response on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := shared.DecodeJSON(r, dst); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	if err := shared.ValidateRequest(dst); err != nil {
		HandleAPIError(w, r, err)
		return false
	}
	return true
}
