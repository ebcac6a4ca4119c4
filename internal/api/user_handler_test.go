package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/mocks"
	"github.com/zahid-akhtar7979/wildlife-api/internal/policy"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

func newUserHandler() (*UserHandler, *mocks.MockUserService) {
	svc := &mocks.MockUserService{}
	return NewUserHandler(svc, nil), svc
}

func TestUserHandler_List_DefaultPageSize(t *testing.T) {
	t.Parallel()

	h, svc := newUserHandler()
	page := domain.PageRequest{Page: 1, Size: DefaultUserPageSize}
	users := []*domain.User{sampleUser(adminPrincipal), sampleUser(contributorPrincipal)}
	svc.On("List", mock.Anything, page).Return(domain.NewPage(users, page, 2), nil).Once()

	rec := httptest.NewRecorder()
	h.List(rec, asPrincipal(httptest.NewRequest(http.MethodGet, "/api/users", nil), adminPrincipal))

	require.Equal(t, http.StatusOK, rec.Code)
	var data UserPageData
	decodeData(t, rec, &data)
	assert.Len(t, data.Users, 2)
	assert.Equal(t, 20, data.Pagination.PageSize)
	assert.Equal(t, int64(2), data.Pagination.TotalItems)
	svc.AssertExpectations(t)
}

func TestUserHandler_ByRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		role       string
		wantRole   domain.Role
		wantStatus int
	}{
		{name: "upper case", role: "ADMIN", wantRole: domain.RoleAdmin, wantStatus: http.StatusOK},
		{name: "prefixed lower case", role: "role_contributor", wantRole: domain.RoleContributor, wantStatus: http.StatusOK},
		{name: "unknown role", role: "poacher", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, svc := newUserHandler()
			page := domain.PageRequest{Page: 1, Size: DefaultUserPageSize}
			if tc.wantRole != "" {
				svc.On("ListByRole", mock.Anything, tc.wantRole, page).
					Return(domain.NewPage([]*domain.User{}, page, 0), nil).Once()
			}

			req := withURLParam(httptest.NewRequest(http.MethodGet, "/api/users/role/x", nil), "role", tc.role)
			rec := httptest.NewRecorder()
			h.ByRole(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusBadRequest {
				body := decodeError(t, rec)
				assert.Equal(t, "Invalid role", body.Error)
				require.Len(t, body.Fields, 1)
				assert.Equal(t, "role", body.Fields[0].Field)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_ByApproval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		path       string
		query      string
		want       bool
		wantStatus int
	}{
		{name: "pending by default", query: "", want: false, wantStatus: http.StatusOK},
		{name: "approved", query: "?approved=true", want: true, wantStatus: http.StatusOK},
		{name: "garbage flag", query: "?approved=perhaps", wantStatus: http.StatusBadRequest},
		{name: "path approved", path: "true", want: true, wantStatus: http.StatusOK},
		{name: "path pending", path: "false", want: false, wantStatus: http.StatusOK},
		{name: "path wins over query", path: "true", query: "?approved=false", want: true, wantStatus: http.StatusOK},
		{name: "garbage path flag", path: "yes-please", wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, svc := newUserHandler()
			page := domain.PageRequest{Page: 1, Size: DefaultUserPageSize}
			if tc.wantStatus == http.StatusOK {
				svc.On("ListByApproval", mock.Anything, tc.want, page).
					Return(domain.NewPage([]*domain.User{}, page, 0), nil).Once()
			}

			req := httptest.NewRequest(http.MethodGet, "/api/users/approval"+tc.query, nil)
			if tc.path != "" {
				req = withURLParam(req, "approved", tc.path)
			}
			rec := httptest.NewRecorder()
			h.ByApproval(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_Transitions(t *testing.T) {
	t.Parallel()

	target := uuid.MustParse("c0ffee00-1234-4abc-8def-0123456789ab")

	tests := []struct {
		name       string
		method     string
		call       func(h *UserHandler, w http.ResponseWriter, r *http.Request)
		svcErr     error
		wantStatus int
	}{
		{name: "approve", method: "Approve", call: (*UserHandler).Approve, wantStatus: http.StatusOK},
		{name: "disable", method: "Disable", call: (*UserHandler).Disable, wantStatus: http.StatusOK},
		{name: "enable missing user", method: "Enable", call: (*UserHandler).Enable, svcErr: store.ErrUserNotFound, wantStatus: http.StatusNotFound},
		{name: "approve as contributor", method: "Approve", call: (*UserHandler).Approve, svcErr: policy.ErrAccessDenied, wantStatus: http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, svc := newUserHandler()
			var result *domain.User
			if tc.svcErr == nil {
				result = &domain.User{ID: target, Email: "ranger@wildlife.test", Role: domain.RoleContributor}
			}
			svc.On(tc.method, mock.Anything, adminPrincipal, target).Return(result, tc.svcErr).Once()

			req := withURLParam(asPrincipal(httptest.NewRequest(http.MethodPatch, "/api/users/x", nil), adminPrincipal), "id", target.String())
			rec := httptest.NewRecorder()
			tc.call(h, rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				var data struct {
					User domain.User `json:"user"`
				}
				decodeData(t, rec, &data)
				assert.Equal(t, target, data.User.ID)
			}
			svc.AssertExpectations(t)
		})
	}
}

func TestUserHandler_ChangeRole(t *testing.T) {
	t.Parallel()

	target := uuid.New()

	t.Run("promotes", func(t *testing.T) {
		h, svc := newUserHandler()
		svc.On("ChangeRole", mock.Anything, adminPrincipal, target, domain.RoleAdmin).
			Return(&domain.User{ID: target, Role: domain.RoleAdmin}, nil).Once()

		req := withURLParam(asPrincipal(httptest.NewRequest(http.MethodPatch, "/api/users/x/role?role=admin", nil), adminPrincipal), "id", target.String())
		rec := httptest.NewRecorder()
		h.ChangeRole(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		svc.AssertExpectations(t)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		h, svc := newUserHandler()
		req := withURLParam(asPrincipal(httptest.NewRequest(http.MethodPatch, "/api/users/x/role?role=superuser", nil), adminPrincipal), "id", target.String())
		rec := httptest.NewRecorder()
		h.ChangeRole(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "ChangeRole", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUserHandler_TopContributors(t *testing.T) {
	t.Parallel()

	h, svc := newUserHandler()
	svc.On("TopContributors", mock.Anything, service.DefaultTopContributors).Return([]domain.Contributor{
		{User: sampleUser(contributorPrincipal), ArticleCount: 12},
	}, nil).Once()

	rec := httptest.NewRecorder()
	h.TopContributors(rec, httptest.NewRequest(http.MethodGet, "/api/users/top-contributors", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var data struct {
		Contributors []domain.Contributor `json:"contributors"`
	}
	decodeData(t, rec, &data)
	require.Len(t, data.Contributors, 1)
	assert.Equal(t, int64(12), data.Contributors[0].ArticleCount)
	svc.AssertExpectations(t)
}

func TestUserHandler_Recent_Empty(t *testing.T) {
	t.Parallel()

	h, svc := newUserHandler()
	svc.On("Recent", mock.Anything, 7).Return(nil, nil).Once()

	rec := httptest.NewRecorder()
	h.Recent(rec, httptest.NewRequest(http.MethodGet, "/api/users/recent?days=7", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"users":[]}}`, rec.Body.String())
}

func TestUserHandler_UpdateMe_Validation(t *testing.T) {
	t.Parallel()

	h, svc := newUserHandler()
	req := asPrincipal(newJSONRequest(t, http.MethodPut, "/api/users/me", map[string]string{"email": "nope"}), contributorPrincipal)
	rec := httptest.NewRecorder()
	h.UpdateMe(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeError(t, rec)
	require.Len(t, body.Fields, 1)
	assert.Equal(t, "email", body.Fields[0].Field)
	svc.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything)
}
