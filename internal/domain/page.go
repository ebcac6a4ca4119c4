package domain

import "math"

// Pagination defaults shared by every listing.
const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// PageRequest is a bounded, 1-based page selection.
type PageRequest struct {
	Page int
	Size int
}

// NewPageRequest clamps the external page and size parameters: pages below 1
// become 1, non-positive sizes take the default and sizes are capped. Pages
// are also capped so that the end of the page, Offset plus Limit, never overflows int.
func NewPageRequest(page, size int) PageRequest {
	return NewPageRequestWithDefault(page, size, DefaultPageSize)
}

// NewPageRequestWithDefault is NewPageRequest with a caller-chosen default size.
func NewPageRequestWithDefault(page, size, defaultSize int) PageRequest {
	if page < 1 {
		page = 1
	}
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}
	return PageRequest{Page: page, Size: size}
}

// Offset is the 0-based row offset of the first item of the page.
func (r PageRequest) Offset() int {
	return (r.Page - 1) * r.Size
}

// Limit is the maximum number of rows in the page.
func (r PageRequest) Limit() int {
	return r.Size
}

// Page is one slice of an ordered result set together with its totals.
type Page[T any] struct {
	Items      []T
	Page       int
	Size       int
	TotalItems int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
}

// NewPage wraps items selected with req out of total matching rows.
func NewPage[T any](items []T, req PageRequest, total int64) Page[T] {
	if items == nil {
		items = []T{}
	}
	totalPages := 0
	if req.Size > 0 {
		totalPages = int((total + int64(req.Size) - 1) / int64(req.Size))
	}
	return Page[T]{
		Items:      items,
		Page:       req.Page,
		Size:       req.Size,
		TotalItems: total,
		TotalPages: totalPages,
		HasNext:    req.Page < totalPages,
		HasPrev:    req.Page > 1,
	}
}

// ClampLimit bounds a "top N" style limit to [1, MaxPageSize], using def for
// non-positive input.
func ClampLimit(limit, def int) int {
	if limit <= 0 {
		limit = def
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return limit
}
