package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/zahid-akhtar7979/wildlife-api/internal/config"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/media"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/postgres"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// application holds the shared dependencies and releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore    store.UserStore
	articleStore store.ArticleStore
	mediaStore   store.MediaStore

	jwtService auth.JWTService
	hasher     auth.PasswordHasher

	authService    service.AuthService
	userService    service.UserService
	articleService service.ArticleService
	uploadService  service.UploadService
}

// newApplication wires stores and services. db must already be reachable.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.hasher = auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	app.userStore = postgres.NewPostgresUserStore(db, logger)
	app.articleStore = postgres.NewPostgresArticleStore(db, logger)

	// Leave mediaStore as a nil interface when uploads are off so the upload
	// service reports ErrMediaDisabled.
	s3Store, err := media.NewS3Store(ctx, cfg.Media, logger)
	switch {
	case errors.Is(err, media.ErrNotConfigured):
		logger.Warn("media bucket not configured, upload routes are disabled")
	case err != nil:
		return nil, fmt.Errorf("failed to initialize media store: %w", err)
	default:
		app.mediaStore = s3Store
		logger.Info("media store initialized", slog.String("bucket", cfg.Media.Bucket))
	}

	app.authService = service.NewAuthService(app.userStore, app.hasher, app.jwtService, db, logger)
	app.userService = service.NewUserService(app.userStore, app.hasher, db, logger)
	app.articleService = service.NewArticleService(app.articleStore, db, logger)
	app.uploadService = service.NewUploadService(app.mediaStore, logger)

	if err := app.seedAdmin(ctx); err != nil {
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

// seedAdmin creates the configured bootstrap admin. An existing admin is not
// an error.
func (app *application) seedAdmin(ctx context.Context) error {
	seed := app.config.Admin
	if !seed.SeedRequested() {
		return nil
	}

	user, err := app.authService.BootstrapAdmin(ctx, seed.Email, seed.Name, seed.Password)
	switch {
	case errors.Is(err, service.ErrAdminExists):
		app.logger.Info("admin seed skipped, an admin already exists")
		return nil
	case err != nil:
		return fmt.Errorf("failed to seed admin account: %w", err)
	}

	app.logger.Info("admin account seeded", slog.String("user_id", user.ID.String()))
	return nil
}

// setupRouter builds the HTTP handler from the application services.
func (app *application) setupRouter() http.Handler {
	return newRouter(routerDeps{
		logger:         app.logger,
		jwtService:     app.jwtService,
		authService:    app.authService,
		userService:    app.userService,
		articleService: app.articleService,
		uploadService:  app.uploadService,
		registerer:     prometheus.DefaultRegisterer,
		metricsHandler: promhttp.Handler(),
	})
}

// Run serves HTTP until ctx is cancelled, then shuts down.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()
	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
