package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
)

// DefaultUserPageSize is the page size of the admin user listings.
const DefaultUserPageSize = 20

// principalFrom returns the caller placed in the context by the auth
// middleware, or nil for anonymous requests.
func principalFrom(r *http.Request) *domain.Principal {
	return shared.PrincipalFromContext(r.Context())
}

// getPathUUID extracts and parses a UUID path parameter.
//
// Returns a *domain.ValidationError wrapping domain.ErrInvalidID when the
// parameter is missing or malformed.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}
	return id, nil
}

// queryInt reads an optional integer query parameter, returning def when it
// is absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer", nil)
	}
	return v, nil
}

// queryBool reads an optional boolean query parameter. The second result
// reports whether it was present.
func queryBool(r *http.Request, name string) (bool, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false, domain.NewValidationError(name, "must be true or false", nil)
	}
	return v, true, nil
}

// pathBool parses a required boolean path parameter.
func pathBool(r *http.Request, name string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(chi.URLParam(r, name)))
	if err != nil {
		return false, domain.NewValidationError(name, "must be true or false", nil)
	}
	return v, nil
}

// pageFromQuery builds a clamped page request from the page, size and limit
// query parameters. Pages are 1-based; limit is an alias that takes
// precedence over size. A size above domain.MaxPageSize is rejected rather
// than shortened, so an accepted page always holds the requested slice.
func pageFromQuery(r *http.Request, defaultSize int) (domain.PageRequest, error) {
	page, err := queryInt(r, "page", 1)
	if err != nil {
		return domain.PageRequest{}, err
	}
	size, err := queryInt(r, "size", 0)
	if err != nil {
		return domain.PageRequest{}, err
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		return domain.PageRequest{}, err
	}
	field := "size"
	if limit > 0 {
		size, field = limit, "limit"
	}
	if size > domain.MaxPageSize {
		return domain.PageRequest{}, domain.NewValidationError(field,
			fmt.Sprintf("must not exceed %d", domain.MaxPageSize), nil)
	}
	return domain.NewPageRequestWithDefault(page, size, defaultSize), nil
}

// queryTags collects tags given either as repeated parameters or as one
// comma separated value.
func queryTags(r *http.Request) []string {
	var tags []string
	for _, v := range r.URL.Query()["tags"] {
		for _, t := range strings.Split(v, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}
