package store

import (
	"context"
	"io"
)

// MediaStore persists uploaded binary objects under caller-chosen keys.
type MediaStore interface {
	// Put uploads size bytes from body under key and returns the public URL.
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error)

	// Delete removes the object stored under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL of key.
	URL(key string) string

	// DerivedURL returns the URL of a width x height rendition of the image
	// stored under key.
	DerivedURL(key string, width, height int) string
}
