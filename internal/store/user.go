package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user. The caller supplies HashedPassword; the store
	// never sees plaintext passwords.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// CreateFirstAdmin saves user as the bootstrap admin. The existence
	// check and insert run under a lock so that at most one admin can ever be
	// bootstrapped.
	// Returns ErrAdminExists if any admin exists and ErrEmailExists if the
	// email is taken.
	CreateFirstAdmin(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByIDForUpdate is GetByID that also locks the row until the
	// surrounding transaction ends. Call it on a WithTx store.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their normalized email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// ExistsByEmail reports whether a user other than excludeID owns email.
	// Pass uuid.Nil to check against every user.
	ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)

	// Update replaces the mutable fields of an existing user, including the
	// hashed password.
	// Returns ErrUserNotFound if the user does not exist and ErrEmailExists
	// if the new email belongs to someone else.
	Update(ctx context.Context, user *domain.User) error

	// List returns all users, newest first.
	List(ctx context.Context, page domain.PageRequest) ([]*domain.User, int64, error)

	// Search matches query case-insensitively against name and email.
	Search(ctx context.Context, query string, page domain.PageRequest) ([]*domain.User, int64, error)

	// ListByRole returns users holding role, newest first.
	ListByRole(ctx context.Context, role domain.Role, page domain.PageRequest) ([]*domain.User, int64, error)

	// ListByApproval returns users by approval state, newest first.
	ListByApproval(ctx context.Context, approved bool, page domain.PageRequest) ([]*domain.User, int64, error)

	// TopContributors returns the users with the most articles.
	TopContributors(ctx context.Context, limit int) ([]domain.Contributor, error)

	// CreatedSince returns users created at or after since, newest first.
	CreatedSince(ctx context.Context, since time.Time) ([]*domain.User, error)

	// Stats returns aggregate user counts.
	Stats(ctx context.Context) (domain.UserStats, error)

	// WithTx returns a new UserStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) UserStore
}
