package postgres

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
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// adminBootstrapLockKey is the pg_advisory_xact_lock key serialising
// bootstrap admin creation.
const adminBootstrapLockKey int64 = 0x77696c646c696665 // "wildlife"

const userColumns = `id, email, name, password_hash, role, approved, enabled,
	bio, profile_picture_url, created_at, updated_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{db: tx, logger: s.logger}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, extra ...any) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	dest := []any{
		&u.ID, &u.Email, &u.Name, &u.HashedPassword, &role, &u.Approved, &u.Enabled,
		&u.Bio, &u.ProfilePictureURL, &u.CreatedAt, &u.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	u.Role = domain.ParseRole(role)
	return &u, nil
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)
	if err := s.insert(ctx, s.db, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("email already registered", slog.String("user_id", user.ID.String()))
			return err
		}
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()),
		slog.String("role", string(user.Role)))
	return nil
}

func (s *PostgresUserStore) insert(ctx context.Context, db store.DBTX, user *domain.User) error {
	if user.HashedPassword == "" {
		return fmt.Errorf("%w: user has no password hash", store.ErrInvalidEntity)
	}

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.Name,
		user.HashedPassword,
		string(user.Role),
		user.Approved,
		user.Enabled,
		user.Bio,
		user.ProfilePictureURL,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return MapUniqueViolation(err, store.ErrEmailExists)
	}
	return nil
}

// CreateFirstAdmin implements store.UserStore.CreateFirstAdmin. When the
// store is not already bound to a transaction it opens one.
func (s *PostgresUserStore) CreateFirstAdmin(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	run := func(ctx context.Context, db store.DBTX) error {
		if _, err := db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, adminBootstrapLockKey); err != nil {
			return fmt.Errorf("failed to acquire bootstrap lock: %w", MapError(err))
		}

		var exists bool
		err := db.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE role = $1)`, string(domain.RoleAdmin),
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check for existing admin: %w", MapError(err))
		}
		if exists {
			return store.ErrAdminExists
		}
		return s.insert(ctx, db, user)
	}

	var err error
	if sqlDB, ok := s.db.(*sql.DB); ok {
		err = store.RunInTransaction(ctx, sqlDB, func(ctx context.Context, tx *sql.Tx) error {
			return run(ctx, tx)
		})
	} else {
		err = run(ctx, s.db)
	}
	if err != nil {
		if store.IsDuplicateError(err) {
			log.Warn("bootstrap admin rejected", slog.String("reason", err.Error()))
		} else {
			log.Error("failed to bootstrap admin", slog.String("error", err.Error()))
		}
		return err
	}

	log.Info("bootstrap admin created", slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByIDForUpdate implements store.UserStore.GetByIDForUpdate
func (s *PostgresUserStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, domain.NormalizeEmail(email))
}

func (s *PostgresUserStore) getOne(ctx context.Context, query string, arg any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := scanUser(s.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found")
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return user, nil
}

// ExistsByEmail implements store.UserStore.ExistsByEmail
func (s *PostgresUserStore) ExistsByEmail(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		domain.NormalizeEmail(email), excludeID,
	).Scan(&exists)
	if err != nil {
		return false, MapError(err)
	}
	return exists, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET email = $1, name = $2, password_hash = $3, role = $4, approved = $5,
			enabled = $6, bio = $7, profile_picture_url = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := s.db.ExecContext(ctx, query,
		user.Email,
		user.Name,
		user.HashedPassword,
		string(user.Role),
		user.Approved,
		user.Enabled,
		user.Bio,
		user.ProfilePictureURL,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		mapped := MapUniqueViolation(err, store.ErrEmailExists)
		log.Warn("failed to update user",
			slog.String("error", mapped.Error()),
			slog.String("user_id", user.ID.String()))
		return mapped
	}
	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		return err
	}

	log.Debug("user updated", slog.String("user_id", user.ID.String()))
	return nil
}

// List implements store.UserStore.List
func (s *PostgresUserStore) List(ctx context.Context, page domain.PageRequest) ([]*domain.User, int64, error) {
	return s.listPage(ctx, &whereClause{}, page)
}

// Search implements store.UserStore.Search
func (s *PostgresUserStore) Search(ctx context.Context, query string, page domain.PageRequest) ([]*domain.User, int64, error) {
	w := &whereClause{}
	if q := domain.NormalizeText(query); q != "" {
		w.add(`(name ILIKE ? OR email ILIKE ?)`, likePattern(q), likePattern(q))
	}
	return s.listPage(ctx, w, page)
}

// ListByRole implements store.UserStore.ListByRole
func (s *PostgresUserStore) ListByRole(ctx context.Context, role domain.Role, page domain.PageRequest) ([]*domain.User, int64, error) {
	w := &whereClause{}
	w.add(`role = ?`, string(role))
	return s.listPage(ctx, w, page)
}

// ListByApproval implements store.UserStore.ListByApproval
func (s *PostgresUserStore) ListByApproval(ctx context.Context, approved bool, page domain.PageRequest) ([]*domain.User, int64, error) {
	w := &whereClause{}
	w.add(`approved = ?`, approved)
	return s.listPage(ctx, w, page)
}

func (s *PostgresUserStore) listPage(ctx context.Context, w *whereClause, page domain.PageRequest) ([]*domain.User, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+w.String(), w.args...).Scan(&total); err != nil {
		log.Error("failed to count users", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	query := `SELECT ` + userColumns + ` FROM users` + w.String() +
		` ORDER BY created_at DESC, id LIMIT ` + w.arg(page.Limit()) + ` OFFSET ` + w.arg(page.Offset())

	users, err := s.queryUsers(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *PostgresUserStore) queryUsers(ctx context.Context, query string, args ...any) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query users", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			log.Error("failed to scan user row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return users, nil
}

// TopContributors implements store.UserStore.TopContributors
func (s *PostgresUserStore) TopContributors(ctx context.Context, limit int) ([]domain.Contributor, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT u.id, u.email, u.name, u.password_hash, u.role, u.approved, u.enabled,
			u.bio, u.profile_picture_url, u.created_at, u.updated_at, COUNT(a.id) AS article_count
		FROM users u
		JOIN articles a ON a.author_id = u.id
		GROUP BY u.id
		ORDER BY article_count DESC, u.id
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		log.Error("failed to query top contributors", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	out := []domain.Contributor{}
	for rows.Next() {
		var count int64
		u, err := scanUser(rows, &count)
		if err != nil {
			return nil, MapError(err)
		}
		out = append(out, domain.Contributor{User: u, ArticleCount: count})
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

// CreatedSince implements store.UserStore.CreatedSince
func (s *PostgresUserStore) CreatedSince(ctx context.Context, since time.Time) ([]*domain.User, error) {
	return s.queryUsers(ctx,
		`SELECT `+userColumns+` FROM users WHERE created_at >= $1 ORDER BY created_at DESC, id`,
		since.UTC())
}

// Stats implements store.UserStore.Stats
func (s *PostgresUserStore) Stats(ctx context.Context) (domain.UserStats, error) {
	var st domain.UserStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE approved),
			COUNT(*) FILTER (WHERE NOT approved),
			COUNT(*) FILTER (WHERE enabled),
			COUNT(*) FILTER (WHERE role = 'ADMIN'),
			COUNT(*) FILTER (WHERE role = 'CONTRIBUTOR')
		FROM users
	`).Scan(&st.Total, &st.Approved, &st.Pending, &st.Enabled, &st.Admins, &st.Contributors)
	if err != nil {
		return domain.UserStats{}, MapError(err)
	}
	return st, nil
}
