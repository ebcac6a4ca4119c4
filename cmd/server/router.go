package main

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api"
	apiMiddleware "github.com/zahid-akhtar7979/wildlife-api/internal/api/middleware"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service/auth"
)

// routerDeps lists everything newRouter needs, so tests can build the
// router from mocks.
type routerDeps struct {
	logger         *slog.Logger
	jwtService     auth.JWTService
	authService    service.AuthService
	userService    service.UserService
	articleService service.ArticleService
	uploadService  service.UploadService
	registerer     prometheus.Registerer
	metricsHandler http.Handler
}

// newRouter registers every route under /api plus /health and /metrics.
func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(apiMiddleware.NewTraceMiddleware(d.logger))
	r.Use(middleware.Recoverer)
	if d.registerer != nil {
		r.Use(apiMiddleware.NewMetrics(d.registerer).Handler)
	}

	authMW := apiMiddleware.NewAuthMiddleware(d.jwtService, d.userService, d.logger)
	authHandler := api.NewAuthHandler(d.authService, d.userService, d.logger)
	articleHandler := api.NewArticleHandler(d.articleService, d.logger)
	userHandler := api.NewUserHandler(d.userService, d.logger)
	uploadHandler := api.NewUploadHandler(d.uploadService, d.logger)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/create-admin", authHandler.CreateAdmin)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Authenticate)
				r.Get("/me", authHandler.Me)
				r.Put("/update-profile", authHandler.UpdateProfile)
				r.Put("/change-password", authHandler.ChangePassword)
				r.With(apiMiddleware.RequireAdmin).Post("/approve-user/{email}", authHandler.ApproveUser)
			})
		})

		r.Route("/articles", func(r chi.Router) {
			r.Get("/", articleHandler.List)
			r.Get("/featured", articleHandler.Featured)
			r.Get("/categories", articleHandler.Categories)
			r.Get("/tags", articleHandler.Tags)
			r.Get("/category/{category}", articleHandler.ByCategory)
			r.Get("/tag/{tag}", articleHandler.ByTag)
			r.Get("/search", articleHandler.Search)
			r.Get("/most-viewed", articleHandler.MostViewed)
			r.Get("/recent", articleHandler.Recent)
			r.Get("/author/{authorId}", articleHandler.ByAuthor)

			r.Group(func(r chi.Router) {
				r.Use(authMW.Optional)
				r.Get("/{id}", articleHandler.Get)
				r.Get("/{id}/related", articleHandler.Related)
			})

			r.Group(func(r chi.Router) {
				r.Use(authMW.Authenticate, apiMiddleware.RequireAuthor)
				r.Post("/", articleHandler.Create)
				r.Get("/my-articles", articleHandler.Mine)
				r.Put("/{id}", articleHandler.Update)
				r.Delete("/{id}", articleHandler.Delete)
				r.Patch("/{id}/publish", articleHandler.Publish)
			})

			r.With(authMW.Authenticate, apiMiddleware.RequireAdmin).Get("/statistics", articleHandler.Statistics)
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authMW.Authenticate)
			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateMe)

			r.Group(func(r chi.Router) {
				r.Use(apiMiddleware.RequireAdmin)
				r.Get("/", userHandler.List)
				r.Get("/search", userHandler.Search)
				r.Get("/role/{role}", userHandler.ByRole)
				r.Get("/approval", userHandler.ByApproval)
				r.Get("/approval/{approved}", userHandler.ByApproval)
				r.Get("/statistics", userHandler.Statistics)
				r.Get("/top-contributors", userHandler.TopContributors)
				r.Get("/recent", userHandler.Recent)
				r.Get("/{id}", userHandler.Get)
				r.Post("/{id}/approve", userHandler.Approve)
				r.Post("/{id}/disable", userHandler.Disable)
				r.Post("/{id}/enable", userHandler.Enable)
				r.Put("/{id}/role", userHandler.ChangeRole)

				// PATCH aliases for clients of the earlier route table.
				r.Patch("/{id}/approve", userHandler.Approve)
				r.Patch("/{id}/disable", userHandler.Disable)
				r.Patch("/{id}/enable", userHandler.Enable)
				r.Patch("/{id}/role", userHandler.ChangeRole)
			})
		})

		r.Route("/upload", func(r chi.Router) {
			r.Use(authMW.Authenticate, apiMiddleware.RequireAuthor)
			r.Post("/image", uploadHandler.UploadImage)
			r.Post("/video", uploadHandler.UploadVideo)
			r.Post("/multiple-images", uploadHandler.UploadImages)
			r.Delete("/delete/{publicId}", uploadHandler.Delete)
			r.Post("/transform-image/{publicId}", uploadHandler.Transform)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			d.logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})
	if d.metricsHandler != nil {
		r.Handle("/metrics", d.metricsHandler)
	}

	return r
}
