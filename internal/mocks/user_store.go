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

// MockUserStore is a testify mock of store.UserStore.
type MockUserStore struct {
	mock.Mock
}

var _ store.UserStore = (*MockUserStore)(nil)

func userOrNil(v any) *domain.User {
	if u, ok := v.(*domain.User); ok {
		return u
	}
	return nil
}

func usersOrNil(v any) []*domain.User {
	if u, ok := v.([]*domain.User); ok {
		return u
	}
	return nil
}

// Create mocks store.UserStore.Create
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// CreateFirstAdmin mocks store.UserStore.CreateFirstAdmin
func (m *MockUserStore) CreateFirstAdmin(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// GetByID mocks store.UserStore.GetByID
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

// GetByIDForUpdate mocks store.UserStore.GetByIDForUpdate
func (m *MockUserStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

// GetByEmail mocks store.UserStore.GetByEmail
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

// ExistsByEmail mocks store.UserStore.ExistsByEmail
func (m *MockUserStore) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

// Update mocks store.UserStore.Update
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

// List mocks store.UserStore.List
func (m *MockUserStore) List(ctx context.Context, page domain.PageRequest) ([]*domain.User, int64, error) {
	args := m.Called(ctx, page)
	return usersOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

// Search mocks store.UserStore.Search
func (m *MockUserStore) Search(ctx context.Context, query string, page domain.PageRequest) ([]*domain.User, int64, error) {
	args := m.Called(ctx, query, page)
	return usersOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

// ListByRole mocks store.UserStore.ListByRole
func (m *MockUserStore) ListByRole(ctx context.Context, role domain.Role, page domain.PageRequest) ([]*domain.User, int64, error) {
	args := m.Called(ctx, role, page)
	return usersOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

// ListByApproval mocks store.UserStore.ListByApproval
func (m *MockUserStore) ListByApproval(ctx context.Context, approved bool, page domain.PageRequest) ([]*domain.User, int64, error) {
	args := m.Called(ctx, approved, page)
	return usersOrNil(args.Get(0)), args.Get(1).(int64), args.Error(2)
}

// TopContributors mocks store.UserStore.TopContributors
func (m *MockUserStore) TopContributors(ctx context.Context, limit int) ([]domain.Contributor, error) {
	args := m.Called(ctx, limit)
	top, _ := args.Get(0).([]domain.Contributor)
	return top, args.Error(1)
}

// CreatedSince mocks store.UserStore.CreatedSince
func (m *MockUserStore) CreatedSince(ctx context.Context, since time.Time) ([]*domain.User, error) {
	args := m.Called(ctx, since)
	return usersOrNil(args.Get(0)), args.Error(1)
}

// Stats mocks store.UserStore.Stats
func (m *MockUserStore) Stats(ctx context.Context) (domain.UserStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.UserStats), args.Error(1)
}

// WithTx returns the store configured with Return, or the mock itself.
func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	args := m.Called(tx)
	if ret, ok := args.Get(0).(store.UserStore); ok {
		return ret
	}
	return m
}
