package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// MockArticleStore is a testify mock of store.ArticleStore.
type MockArticleStore struct {
	mock.Mock
}

var _ store.ArticleStore = (*MockArticleStore)(nil)

func articleOrNil(v any) *domain.Article {
	if a, ok := v.(*domain.Article); ok {
		return a
	}
	return nil
}

func articlesOrNil(v any) []*domain.Article {
	if a, ok := v.([]*domain.Article); ok {
		return a
	}
	return nil
}

func stringsOrNil(v any) []string {
	if s, ok := v.([]string); ok {
		return s
	}
	return nil
}

// Create mocks store.ArticleStore.Create
func (m *MockArticleStore) Create(ctx context.Context, article *domain.Article) error {
	return m.Called(ctx, article).Error(0)
}

// GetByID mocks store.ArticleStore.GetByID
func (m *MockArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	args := m.Called(ctx, id)
	return articleOrNil(args.Get(0)), args.Error(1)
}

// GetByIDForUpdate mocks store.ArticleStore.GetByIDForUpdate
func (m *MockArticleStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	args := m.Called(ctx, id)
	return articleOrNil(args.Get(0)), args.Error(1)
}

// Update mocks store.ArticleStore.Update
func (m *MockArticleStore) Update(ctx context.Context, article *domain.Article) error {
	return m.Called(ctx, article).Error(0)
}

// Delete mocks store.ArticleStore.Delete
func (m *MockArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// Publish mocks store.ArticleStore.Publish
func (m *MockArticleStore) Publish(ctx context.Context, id uuid.UUID, now time.Time) (*domain.Article, error) {
	args := m.Called(ctx, id, now)
	return articleOrNil(args.Get(0)), args.Error(1)
}

// IncrementViews mocks store.ArticleStore.IncrementViews
func (m *MockArticleStore) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// List mocks store.ArticleStore.List
func (m *MockArticleStore) List(ctx context.Context, filter store.ArticleFilter, page domain.PageRequest) ([]*domain.Article, int64, error) {
	args := m.Called(ctx, filter, page)
	return articlesOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

// Featured mocks store.ArticleStore.Featured
func (m *MockArticleStore) Featured(ctx context.Context, limit int) ([]*domain.Article, error) {
	args := m.Called(ctx, limit)
	return articlesOrNil(args.Get(0)), args.Error(1)
}

// MostViewed mocks store.ArticleStore.MostViewed
func (m *MockArticleStore) MostViewed(ctx context.Context, page domain.PageRequest) ([]*domain.Article, int64, error) {
	args := m.Called(ctx, page)
	return articlesOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

// PublishedSince mocks store.ArticleStore.PublishedSince
func (m *MockArticleStore) PublishedSince(ctx context.Context, since time.Time, limit int) ([]*domain.Article, error) {
	args := m.Called(ctx, since, limit)
	return articlesOrNil(args.Get(0)), args.Error(1)
}

// ListByAuthor mocks store.ArticleStore.ListByAuthor
func (m *MockArticleStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) ([]*domain.Article, int64, error) {
	args := m.Called(ctx, authorID, page)
	return articlesOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

// ListByOwner mocks store.ArticleStore.ListByOwner
func (m *MockArticleStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, page domain.PageRequest) ([]*domain.Article, int64, error) {
	args := m.Called(ctx, ownerID, page)
	return articlesOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

// Related mocks store.ArticleStore.Related
func (m *MockArticleStore) Related(ctx context.Context, source *domain.Article, limit int) ([]*domain.Article, error) {
	args := m.Called(ctx, source, limit)
	return articlesOrNil(args.Get(0)), args.Error(1)
}

// Categories mocks store.ArticleStore.Categories
func (m *MockArticleStore) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return stringsOrNil(args.Get(0)), args.Error(1)
}

// Tags mocks store.ArticleStore.Tags
func (m *MockArticleStore) Tags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return stringsOrNil(args.Get(0)), args.Error(1)
}

// Stats mocks store.ArticleStore.Stats
func (m *MockArticleStore) Stats(ctx context.Context) (domain.ArticleStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ArticleStats), args.Error(1)
}

// WithTx returns the store configured with Return, or the mock itself.
func (m *MockArticleStore) WithTx(tx *sql.Tx) store.ArticleStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.ArticleStore); ok {
		return ret
	}
	return m
}
