package api

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
)

// UserHandler serves /users. Everything except /users/me is admin-only;
// the router enforces that.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if users == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("users cannot be nil for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: logger.With(slog.String("component", "user_handler")),
	}
}

// Me handles GET /users/me.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r)
	if p == nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	user, err := h.users.Get(r.Context(), p.ID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userResponse(user))
}

// UpdateMe handles PUT /users/me.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.users.UpdateProfile(r.Context(), principalFrom(r), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userResponse(user))
}

// List handles GET /users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, DefaultUserPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.users.List(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userPageResponse(result))
}

// Search handles GET /users/search?q=, matching name or email.
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, DefaultUserPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.users.Search(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userPageResponse(result))
}

// ByRole handles GET /users/role/{role}.
func (h *UserHandler) ByRole(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRoleStrict(chi.URLParam(r, "role"))
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("role", "must be one of: ADMIN CONTRIBUTOR", err))
		return
	}
	page, err := pageFromQuery(r, DefaultUserPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.users.ListByRole(r.Context(), role, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userPageResponse(result))
}

// ByApproval handles GET /users/approval/{approved} and the query form
// GET /users/approval?approved=. A missing flag lists the accounts still
// waiting for approval.
func (h *UserHandler) ByApproval(w http.ResponseWriter, r *http.Request) {
	var (
		approved bool
		err      error
	)
	if chi.URLParam(r, "approved") != "" {
		approved, err = pathBool(r, "approved")
	} else {
		approved, _, err = queryBool(r, "approved")
	}
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	page, err := pageFromQuery(r, DefaultUserPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.users.ListByApproval(r.Context(), approved, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userPageResponse(result))
}

// Get handles GET /users/{id}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := h.users.Get(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, userResponse(user))
}

// Approve handles POST /users/{id}/approve (PATCH is accepted too).
func (h *UserHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "user approved", h.users.Approve)
}

// Disable handles POST /users/{id}/disable (PATCH is accepted too).
func (h *UserHandler) Disable(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "user disabled", h.users.Disable)
}

// Enable handles POST /users/{id}/enable (PATCH is accepted too).
func (h *UserHandler) Enable(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, "user enabled", h.users.Enable)
}

// ChangeRole handles PUT /users/{id}/role?role= (PATCH is accepted too).
func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	role, err := domain.ParseRoleStrict(strings.TrimSpace(r.URL.Query().Get("role")))
	if err != nil {
		HandleAPIError(w, r, domain.NewValidationError("role", "must be one of: ADMIN CONTRIBUTOR", err))
		return
	}

	h.transition(w, r, "user role changed",
		func(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error) {
			return h.users.ChangeRole(ctx, actor, id, role)
		})
}

// Statistics handles GET /users/statistics.
func (h *UserHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.users.Statistics(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{Data: stats})
}

// TopContributors handles GET /users/top-contributors?limit.
func (h *UserHandler) TopContributors(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", service.DefaultTopContributors)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	contributors, err := h.users.TopContributors(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if contributors == nil {
		contributors = []domain.Contributor{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Data: map[string]interface{}{"contributors": contributors},
	})
}

// Recent handles GET /users/recent?days.
func (h *UserHandler) Recent(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", service.DefaultRecentUserDays)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	users, err := h.users.Recent(r.Context(), days)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Data: map[string]interface{}{"users": users},
	})
}

// transition runs an admin action against the user named by the id path
// parameter and answers with the updated user.
func (h *UserHandler) transition(
	w http.ResponseWriter,
	r *http.Request,
	event string,
	action func(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error),
) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	user, err := action(r.Context(), principalFrom(r), id)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info(event,
		slog.String("target_user_id", id.String()),
		slog.String("role", string(user.Role)))
	shared.RespondWithJSON(w, r, http.StatusOK, userResponse(user))
}
