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

// LoginResult is returned by a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// AuthService handles registration, admin bootstrap and login.
type AuthService interface {
	// Register creates a pending contributor. No token is issued until an
	// admin approves the account.
	Register(ctx context.Context, email, name, password string) (*domain.User, error)

	// BootstrapAdmin creates the first, auto-approved admin.
	// Returns ErrAdminExists once any admin exists.
	BootstrapAdmin(ctx context.Context, email, name, password string) (*domain.User, error)

	// Login verifies the credentials and issues an access token.
	Login(ctx context.Context, email, password string) (*LoginResult, error)

	// ApproveByEmail approves the account registered under email.
	ApproveByEmail(ctx context.Context, actor *domain.Principal, email string) (*domain.User, error)
}

type authServiceImpl struct {
	users    store.UserStore
	hasher   auth.PasswordHasher
	tokens   auth.JWTService
	db       *sql.DB
	logger   *slog.Logger
	timeFunc func() time.Time
}

var _ AuthService = (*authServiceImpl)(nil)

// NewAuthService creates an AuthService using the wall clock.
func NewAuthService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	db *sql.DB,
	logger *slog.Logger,
) AuthService {
	return NewAuthServiceWithClock(users, hasher, tokens, db, logger, time.Now)
}

// NewAuthServiceWithClock creates an AuthService with an injected clock.
func NewAuthServiceWithClock(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	db *sql.DB,
	logger *slog.Logger,
	timeFunc func() time.Time,
) AuthService {
	if users == nil || hasher == nil || tokens == nil || db == nil {
		panic("auth service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &authServiceImpl{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		db:       db,
		logger:   logger.With(slog.String("component", "auth_service")),
		timeFunc: timeFunc,
	}
}

// newAccount validates the input and hashes the password. The plaintext is
// cleared before the user leaves this function.
func (s *authServiceImpl) newAccount(email, name, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, name, password, s.timeFunc())
	if err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hash
	user.Password = ""
	return user, nil
}

// Register implements AuthService.Register
func (s *authServiceImpl) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	exists, err := s.users.ExistsByEmail(ctx, email, uuid.Nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		log.Debug("registration rejected: email taken")
		return nil, store.ErrEmailExists
	}

	user, err := s.newAccount(email, name, password)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if !errors.Is(err, store.ErrEmailExists) {
			log.Error("failed to register user", slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	log.Info("user registered, awaiting approval", slog.String("user_id", user.ID.String()))
	return user, nil
}

// BootstrapAdmin implements AuthService.BootstrapAdmin
func (s *authServiceImpl) BootstrapAdmin(ctx context.Context, email, name, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.newAccount(email, name, password)
	if err != nil {
		return nil, err
	}
	user.Role = domain.RoleAdmin
	user.Approved = true

	if err := s.users.CreateFirstAdmin(ctx, user); err != nil {
		if errors.Is(err, store.ErrAdminExists) {
			return nil, ErrAdminExists
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	log.Info("bootstrap admin created", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Login implements AuthService.Login. Credentials are checked before the
// approval and enabled flags so that account state is never disclosed to a
// caller who does not know the password.
func (s *authServiceImpl) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login failed: unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user for login: %w", err)
	}

	if err := s.hasher.Compare(user.HashedPassword, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			log.Debug("login failed: wrong password", slog.String("user_id", user.ID.String()))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	if !user.Approved {
		return nil, ErrAccountPending
	}
	if !user.Enabled {
		return nil, ErrAccountDisabled
	}

	token, expiresAt, err := s.tokens.GenerateToken(ctx, user.Principal())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ApproveByEmail implements AuthService.ApproveByEmail
func (s *authServiceImpl) ApproveByEmail(ctx context.Context, actor *domain.Principal, email string) (*domain.User, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return nil, err
	}

	found, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	user, err := updateUserLocked(ctx, s.db, s.users, found.ID, s.timeFunc().UTC(),
		func(_ store.UserStore, u *domain.User) error {
			u.Approved = true
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("failed to approve user: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("user approved",
		slog.String("user_id", user.ID.String()),
		slog.String("approved_by", actor.ID.String()))
	return user, nil
}
