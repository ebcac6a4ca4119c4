package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
)

var (
	adminPrincipal = &domain.Principal{
		ID:       uuid.MustParse("7d1e2a44-0c55-4b6f-9e0a-2b3c4d5e6f70"),
		Email:    "warden@wildlife.test",
		Name:     "Head Warden",
		Role:     domain.RoleAdmin,
		Approved: true,
		Enabled:  true,
	}
	contributorPrincipal = &domain.Principal{
		ID:       uuid.MustParse("3a9b8c7d-6e5f-4a3b-8c1d-0e9f8a7b6c5d"),
		Email:    "ranger@wildlife.test",
		Name:     "Field Ranger",
		Role:     domain.RoleContributor,
		Approved: true,
		Enabled:  true,
	}
)

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = jsonBody(t, body)
	}
	req := httptest.NewRequest(method, target, r)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asPrincipal(r *http.Request, p *domain.Principal) *http.Request {
	return r.WithContext(shared.WithPrincipal(r.Context(), p))
}

// decodeData decodes a {"data": ...} body into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	var body struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NoError(t, json.Unmarshal(body.Data, dst))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var body shared.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func sampleUser(p *domain.Principal) *domain.User {
	return &domain.User{
		ID:       p.ID,
		Email:    p.Email,
		Name:     p.Name,
		Role:     p.Role,
		Approved: p.Approved,
		Enabled:  p.Enabled,
	}
}
