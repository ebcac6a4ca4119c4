package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/policy"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// Defaults for the directory queries.
const (
	DefaultTopContributors = 10
	DefaultRecentUserDays  = 30
)

// ProfilePatch carries a self-service profile edit. Nil fields are left untouched.
type ProfilePatch struct {
	Name              *string
	Email             *string
	Bio               *string
	ProfilePictureURL *string
}

// UserService manages the user directory.
type UserService interface {
	// Get retrieves a user by ID.
	Get(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// ResolvePrincipal loads the current state of an authenticated user.
	// Returns ErrAccountDisabled for disabled accounts.
	ResolvePrincipal(ctx context.Context, id uuid.UUID) (*domain.Principal, error)

	Approve(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error)
	Disable(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error)
	Enable(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error)
	ChangeRole(ctx context.Context, actor *domain.Principal, id uuid.UUID, role domain.Role) (*domain.User, error)

	// UpdateProfile edits the caller's own profile.
	UpdateProfile(ctx context.Context, p *domain.Principal, patch ProfilePatch) (*domain.User, error)

	// ChangePassword replaces the caller's password after verifying the current one.
	ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error

	List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error)
	Search(ctx context.Context, query string, page domain.PageRequest) (domain.Page[*domain.User], error)
	ListByRole(ctx context.Context, role domain.Role, page domain.PageRequest) (domain.Page[*domain.User], error)
	ListByApproval(ctx context.Context, approved bool, page domain.PageRequest) (domain.Page[*domain.User], error)
	TopContributors(ctx context.Context, limit int) ([]domain.Contributor, error)
	Recent(ctx context.Context, days int) ([]*domain.User, error)
	Statistics(ctx context.Context) (domain.UserStats, error)
}

type userServiceImpl struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	db       *sql.DB
	logger   *slog.Logger
	timeFunc func() time.Time
}

var _ UserService = (*userServiceImpl)(nil)

// NewUserService creates a UserService using the wall clock.
func NewUserService(users store.UserStore, hasher auth.PasswordHasher, db *sql.DB, logger *slog.Logger) UserService {
	return NewUserServiceWithClock(users, hasher, db, logger, time.Now)
}

// NewUserServiceWithClock creates a UserService with an injected clock.
func NewUserServiceWithClock(
	users store.UserStore,
	hasher auth.PasswordHasher,
	db *sql.DB,
	logger *slog.Logger,
	timeFunc func() time.Time,
) UserService {
	if users == nil || hasher == nil || db == nil {
		panic("user service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &userServiceImpl{
		users:    users,
		hasher:   hasher,
		db:       db,
		logger:   logger.With(slog.String("component", "user_service")),
		timeFunc: timeFunc,
	}
}

// Get implements UserService.Get
func (s *userServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve user",
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}
	return user, nil
}

// ResolvePrincipal implements UserService.ResolvePrincipal
func (s *userServiceImpl) ResolvePrincipal(ctx context.Context, id uuid.UUID) (*domain.Principal, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !user.Enabled {
		return nil, ErrAccountDisabled
	}
	return user.Principal(), nil
}

// updateUserLocked loads the user with a row lock, applies fn and writes the
// result in one transaction, so a concurrent admin action or profile edit
// cannot be overwritten by a stale copy. fn receives the transactional store.
// UpdatedAt is bumped even when fn changes nothing.
func updateUserLocked(
	ctx context.Context,
	db *sql.DB,
	users store.UserStore,
	id uuid.UUID,
	now time.Time,
	fn func(tx store.UserStore, u *domain.User) error,
) (*domain.User, error) {
	var updated *domain.User
	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := users.WithTx(tx)

		user, err := txStore.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to retrieve user: %w", err)
		}
		if err := fn(txStore, user); err != nil {
			return err
		}
		user.UpdatedAt = now

		if err := txStore.Update(ctx, user); err != nil {
			return fmt.Errorf("failed to update user: %w", err)
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// adminUpdate applies fn to the user id on behalf of an admin.
func (s *userServiceImpl) adminUpdate(
	ctx context.Context,
	actor *domain.Principal,
	id uuid.UUID,
	action string,
	fn func(u *domain.User),
) (*domain.User, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := updateUserLocked(ctx, s.db, s.users, id, s.timeFunc().UTC(),
		func(_ store.UserStore, u *domain.User) error {
			fn(u)
			return nil
		})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to update user",
				slog.String("action", action),
				slog.String("user_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to %s user: %w", action, err)
	}

	log.Info("user updated by admin",
		slog.String("action", action),
		slog.String("user_id", id.String()),
		slog.String("admin_id", actor.ID.String()))
	return user, nil
}

// Approve implements UserService.Approve
func (s *userServiceImpl) Approve(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error) {
	return s.adminUpdate(ctx, actor, id, "approve", func(u *domain.User) { u.Approved = true })
}

// Disable implements UserService.Disable
func (s *userServiceImpl) Disable(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error) {
	return s.adminUpdate(ctx, actor, id, "disable", func(u *domain.User) { u.Enabled = false })
}

// Enable implements UserService.Enable
func (s *userServiceImpl) Enable(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error) {
	return s.adminUpdate(ctx, actor, id, "enable", func(u *domain.User) { u.Enabled = true })
}

// ChangeRole implements UserService.ChangeRole
func (s *userServiceImpl) ChangeRole(
	ctx context.Context,
	actor *domain.Principal,
	id uuid.UUID,
	role domain.Role,
) (*domain.User, error) {
	if role != domain.RoleAdmin && role != domain.RoleContributor {
		return nil, domain.NewValidationError("role", "must be ADMIN or CONTRIBUTOR", domain.ErrInvalidRole)
	}
	return s.adminUpdate(ctx, actor, id, "change role of", func(u *domain.User) { u.Role = role })
}

// UpdateProfile implements UserService.UpdateProfile. The uniqueness check
// and the update share one transaction.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, p *domain.Principal, patch ProfilePatch) (*domain.User, error) {
	if p == nil {
		return nil, policy.ErrAccessDenied
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	updated, err := updateUserLocked(ctx, s.db, s.users, p.ID, s.timeFunc().UTC(),
		func(txStore store.UserStore, user *domain.User) error {
			if patch.Email != nil {
				email := domain.NormalizeEmail(*patch.Email)
				if email != user.Email {
					taken, err := txStore.ExistsByEmail(ctx, email, user.ID)
					if err != nil {
						return fmt.Errorf("failed to check email: %w", err)
					}
					if taken {
						return store.ErrEmailExists
					}
					user.Email = email
				}
			}
			if patch.Name != nil {
				user.Name = domain.NormalizeText(*patch.Name)
			}
			if patch.Bio != nil {
				user.Bio = *patch.Bio
			}
			if patch.ProfilePictureURL != nil {
				user.ProfilePictureURL = *patch.ProfilePictureURL
			}
			return user.Validate()
		})
	if err != nil {
		if errors.Is(err, store.ErrEmailExists) || errors.Is(err, domain.ErrValidation) {
			log.Debug("profile update rejected", slog.String("reason", err.Error()))
		} else {
			log.Error("failed to update profile",
				slog.String("user_id", p.ID.String()),
				slog.String("error", err.Error()))
		}
		return nil, err
	}

	log.Info("profile updated", slog.String("user_id", p.ID.String()))
	return updated, nil
}

// ChangePassword implements UserService.ChangePassword
func (s *userServiceImpl) ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error {
	if p == nil {
		return policy.ErrAccessDenied
	}
	if len(next) < domain.MinPasswordLength || len(next) > domain.MaxPasswordLength {
		return domain.NewValidationError("newPassword", "must be between 6 and 72 characters", domain.ErrInvalidPassword)
	}

	_, err := updateUserLocked(ctx, s.db, s.users, p.ID, s.timeFunc().UTC(),
		func(_ store.UserStore, user *domain.User) error {
			if err := s.hasher.Compare(user.HashedPassword, current); err != nil {
				if errors.Is(err, auth.ErrPasswordMismatch) {
					return ErrInvalidCredentials
				}
				return fmt.Errorf("failed to verify password: %w", err)
			}

			hash, err := s.hasher.Hash(next)
			if err != nil {
				return fmt.Errorf("failed to hash password: %w", err)
			}
			user.HashedPassword = hash
			return nil
		})
	if err != nil {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("password changed", slog.String("user_id", p.ID.String()))
	return nil
}

func userPage(items []*domain.User, total int64, err error, page domain.PageRequest, what string) (domain.Page[*domain.User], error) {
	if err != nil {
		return domain.Page[*domain.User]{}, fmt.Errorf("failed to %s: %w", what, err)
	}
	return domain.NewPage(items, page, total), nil
}

// List implements UserService.List
func (s *userServiceImpl) List(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.User], error) {
	items, total, err := s.users.List(ctx, page)
	return userPage(items, total, err, page, "list users")
}

// Search implements UserService.Search
func (s *userServiceImpl) Search(ctx context.Context, query string, page domain.PageRequest) (domain.Page[*domain.User], error) {
	items, total, err := s.users.Search(ctx, domain.NormalizeText(query), page)
	return userPage(items, total, err, page, "search users")
}

// ListByRole implements UserService.ListByRole
func (s *userServiceImpl) ListByRole(ctx context.Context, role domain.Role, page domain.PageRequest) (domain.Page[*domain.User], error) {
	items, total, err := s.users.ListByRole(ctx, role, page)
	return userPage(items, total, err, page, "list users by role")
}

// ListByApproval implements UserService.ListByApproval
func (s *userServiceImpl) ListByApproval(ctx context.Context, approved bool, page domain.PageRequest) (domain.Page[*domain.User], error) {
	items, total, err := s.users.ListByApproval(ctx, approved, page)
	return userPage(items, total, err, page, "list users by approval")
}

// TopContributors implements UserService.TopContributors
func (s *userServiceImpl) TopContributors(ctx context.Context, limit int) ([]domain.Contributor, error) {
	top, err := s.users.TopContributors(ctx, domain.ClampLimit(limit, DefaultTopContributors))
	if err != nil {
		return nil, fmt.Errorf("failed to list top contributors: %w", err)
	}
	return top, nil
}

// Recent implements UserService.Recent
func (s *userServiceImpl) Recent(ctx context.Context, days int) ([]*domain.User, error) {
	if days <= 0 {
		days = DefaultRecentUserDays
	}
	users, err := s.users.CreatedSince(ctx, s.timeFunc().UTC().AddDate(0, 0, -days))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}
	return users, nil
}

// Statistics implements UserService.Statistics
func (s *userServiceImpl) Statistics(ctx context.Context) (domain.UserStats, error) {
	stats, err := s.users.Stats(ctx)
	if err != nil {
		return domain.UserStats{}, fmt.Errorf("failed to load user statistics: %w", err)
	}
	return stats, nil
}
