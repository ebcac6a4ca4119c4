package mocks

import (
	"context"
	"fmt"
	"io"

	"github.com/stretchr/testify/mock"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// MockMediaStore is a testify mock of store.MediaStore. URL and DerivedURL
// are deterministic and not recorded.
type MockMediaStore struct {
	mock.Mock
	BaseURL string
}

var _ store.MediaStore = (*MockMediaStore)(nil)

// Put mocks store.MediaStore.Put. The body is drained so that callers see
// the same behaviour as a real upload.
func (m *MockMediaStore) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	if body != nil {
		_, _ = io.Copy(io.Discard, body)
	}
	args := m.Called(ctx, key, contentType, size)
	return args.String(0), args.Error(1)
}

// Delete mocks store.MediaStore.Delete
func (m *MockMediaStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

// URL implements store.MediaStore.URL
func (m *MockMediaStore) URL(key string) string {
	return m.BaseURL + "/" + key
}

// DerivedURL implements store.MediaStore.DerivedURL
func (m *MockMediaStore) DerivedURL(key string, width, height int) string {
	return fmt.Sprintf("%s/%s?w=%d&h=%d", m.BaseURL, key, width, height)
}
