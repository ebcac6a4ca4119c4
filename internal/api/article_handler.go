package api

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// ArticleHandler serves /articles.
type ArticleHandler struct {
	articles service.ArticleService
	logger   *slog.Logger
}

// NewArticleHandler creates a new ArticleHandler.
func NewArticleHandler(articles service.ArticleService, logger *slog.Logger) *ArticleHandler {
	if articles == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("articles cannot be nil for ArticleHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ArticleHandler{
		articles: articles,
		logger:   logger.With(slog.String("component", "article_handler")),
	}
}

// List handles GET /articles: published articles filtered by search,
// category, featured and tags.
func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, domain.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	q := r.URL.Query()
	filter := store.ArticleFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Tags:     queryTags(r),
	}
	featured, ok, err := queryBool(r, "featured")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if ok {
		filter.Featured = &featured
	}

	result, err := h.articles.ListPublished(r.Context(), filter, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articlePageResponse(result))
}

// Get handles GET /articles/{id}. Drafts are visible to their owner and to
// admins; reading a published article counts a view.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	article, err := h.articles.Get(r.Context(), id, principalFrom(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articleResponse(article))
}

// Featured handles GET /articles/featured.
func (h *ArticleHandler) Featured(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", service.DefaultFeaturedLimit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	articles, err := h.articles.Featured(r.Context(), limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articleListResponse(articles))
}

// Categories handles GET /articles/categories.
func (h *ArticleHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.articles.Categories(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Data: map[string]interface{}{"categories": nonNilStrings(categories)},
	})
}

// Tags handles GET /articles/tags.
func (h *ArticleHandler) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.articles.Tags(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{
		Data: map[string]interface{}{"tags": nonNilStrings(tags)},
	})
}

// ByCategory handles GET /articles/category/{category}.
func (h *ArticleHandler) ByCategory(w http.ResponseWriter, r *http.Request) {
	category, err := url.PathUnescape(chi.URLParam(r, "category"))
	if err != nil || strings.TrimSpace(category) == "" {
		HandleAPIError(w, r, domain.NewValidationError("category", "is required", nil))
		return
	}
	page, err := pageFromQuery(r, domain.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.articles.ListByCategory(r.Context(), category, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articlePageResponse(result))
}

// ByTag handles GET /articles/tag/{tag}.
func (h *ArticleHandler) ByTag(w http.ResponseWriter, r *http.Request) {
	tag, err := url.PathUnescape(chi.URLParam(r, "tag"))
	if err != nil || strings.TrimSpace(tag) == "" {
		HandleAPIError(w, r, domain.NewValidationError("tag", "is required", nil))
		return
	}
	page, err := pageFromQuery(r, domain.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.articles.ListByTag(r.Context(), tag, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articlePageResponse(result))
}

// Search handles GET /articles/search?q=.
func (h *ArticleHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, domain.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.articles.Search(r.Context(), r.URL.Query().Get("q"), page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articlePageResponse(result))
}

// MostViewed handles GET /articles/most-viewed.
func (h *ArticleHandler) MostViewed(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, domain.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.articles.MostViewed(r.Context(), page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articlePageResponse(result))
}

// Recent handles GET /articles/recent?days&limit.
func (h *ArticleHandler) Recent(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days", service.DefaultRecentDays)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultRecentLimit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	articles, err := h.articles.Recent(r.Context(), days, limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articleListResponse(articles))
}

// ByAuthor handles GET /articles/author/{authorId}: the author's published
// articles.
func (h *ArticleHandler) ByAuthor(w http.ResponseWriter, r *http.Request) {
	authorID, err := getPathUUID(r, "authorId")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	page, err := pageFromQuery(r, domain.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.articles.ListByAuthor(r.Context(), authorID, page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articlePageResponse(result))
}

// Related handles GET /articles/{id}/related.
func (h *ArticleHandler) Related(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", service.DefaultRelatedLimit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	articles, err := h.articles.Related(r.Context(), id, principalFrom(r), limit)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articleListResponse(articles))
}

// Create handles POST /articles.
func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	article, err := h.articles.Create(r.Context(), principalFrom(r), req.toFields())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("article created",
		slog.String("article_id", article.ID.String()),
		slog.Bool("published", article.Published))
	shared.RespondWithJSON(w, r, http.StatusCreated, articleResponse(article))
}

// Update handles PUT /articles/{id}.
func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	var req UpdateArticleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	article, err := h.articles.Update(r.Context(), id, principalFrom(r), req.toPatch())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articleResponse(article))
}

// Delete handles DELETE /articles/{id}.
func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	if err := h.articles.Delete(r.Context(), id, principalFrom(r)); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("article deleted",
		slog.String("article_id", id.String()))
	w.WriteHeader(http.StatusNoContent)
}

// Publish handles PATCH /articles/{id}/publish.
func (h *ArticleHandler) Publish(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	article, err := h.articles.Publish(r.Context(), id, principalFrom(r))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articleResponse(article))
}

// Mine handles GET /articles/my-articles: the caller's articles, drafts
// included.
func (h *ArticleHandler) Mine(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r, domain.DefaultPageSize)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	result, err := h.articles.ListMine(r.Context(), principalFrom(r), page)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, articlePageResponse(result))
}

// Statistics handles GET /articles/statistics.
func (h *ArticleHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.articles.Statistics(r.Context())
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, DataResponse{Data: stats})
}
