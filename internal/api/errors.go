package api

import (
	"errors"
	"net/http"

	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/policy"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// MapErrorToStatusCode maps an error from the service layer to an HTTP status.
// Unknown errors become 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, policy.ErrAccessDenied),
		errors.Is(err, service.ErrAccountPending),
		errors.Is(err, service.ErrAccountDisabled):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, service.ErrAdminExists),
		errors.Is(err, policy.ErrAlreadyPublished):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrUnsupportedMediaType),
		errors.Is(err, service.ErrTooManyFiles),
		errors.Is(err, service.ErrEmptyFile):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrUpstream):
		return http.StatusBadGateway

	case errors.Is(err, service.ErrMediaDisabled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-facing message for err. It never
// includes the wrapped error text, which may carry internal details.
func GetSafeErrorMessage(err error) string {
	switch {
	case err == nil:
		return ""

	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"
	case errors.Is(err, auth.ErrInvalidToken):
		return "Invalid or expired token"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, service.ErrAccountPending):
		return "Account is pending approval"
	case errors.Is(err, service.ErrAccountDisabled):
		return "Account is disabled"
	case errors.Is(err, policy.ErrAccessDenied):
		return "Access denied"

	case errors.Is(err, store.ErrArticleNotFound):
		return "Article not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrNotFound):
		return "Resource not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email is already registered"
	case errors.Is(err, service.ErrAdminExists):
		return "An admin account already exists"
	case errors.Is(err, policy.ErrAlreadyPublished):
		return "Article is already published"
	case errors.Is(err, store.ErrDuplicate):
		return "Resource already exists"

	case errors.Is(err, shared.ErrInvalidBody):
		return "Invalid request format"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, domain.ErrInvalidRole):
		return "Invalid role"
	case errors.Is(err, service.ErrFileTooLarge):
		return "File is too large"
	case errors.Is(err, service.ErrUnsupportedMediaType):
		return "Unsupported file type"
	case errors.Is(err, service.ErrTooManyFiles):
		return "Too many files"
	case errors.Is(err, service.ErrEmptyFile):
		return "File is empty"
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidPassword),
		errors.Is(err, store.ErrInvalidEntity):
		return "Validation failed"

	case errors.Is(err, service.ErrUpstream):
		return "Media provider is unavailable"
	case errors.Is(err, service.ErrMediaDisabled):
		return "Media uploads are not configured"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps err to a status and a safe message, logs the redacted
// details and writes the error response.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	var opts []shared.ResponseOption
	if status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, GetSafeErrorMessage(err), err, opts...)
}
