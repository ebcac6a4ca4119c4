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
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// Listing defaults for the article queries that take a limit.
const (
	DefaultFeaturedLimit = 6
	DefaultRecentDays    = 7
	DefaultRecentLimit   = 10
	DefaultRelatedLimit  = 5
)

// ArticlePatch carries a partial update. Nil fields are left untouched.
type ArticlePatch struct {
	Title     *string
	Excerpt   *string
	Content   *string
	Category  *string
	Published *bool
	Featured  *bool
	Tags      *[]string
	Images    *[]domain.ImageAsset
	Videos    *[]domain.VideoAsset
}

// ArticleService manages the article lifecycle and the public listings.
type ArticleService interface {
	// Create stores a new article owned by p.
	Create(ctx context.Context, p *domain.Principal, in domain.ArticleFields) (*domain.Article, error)

	// Get returns an article visible to p. Reading a published article
	// counts one view and the result carries the new count.
	Get(ctx context.Context, id uuid.UUID, p *domain.Principal) (*domain.Article, error)

	// Update applies patch to an article owned by p (or any article for admins).
	Update(ctx context.Context, id uuid.UUID, p *domain.Principal, patch ArticlePatch) (*domain.Article, error)

	// Delete removes an article owned by p (or any article for admins).
	Delete(ctx context.Context, id uuid.UUID, p *domain.Principal) error

	// Publish turns a draft into a published article.
	// Returns policy.ErrAlreadyPublished if it is already published.
	Publish(ctx context.Context, id uuid.UUID, p *domain.Principal) (*domain.Article, error)

	ListPublished(ctx context.Context, filter store.ArticleFilter, page domain.PageRequest) (domain.Page[*domain.Article], error)
	ListByCategory(ctx context.Context, category string, page domain.PageRequest) (domain.Page[*domain.Article], error)
	ListByTag(ctx context.Context, tag string, page domain.PageRequest) (domain.Page[*domain.Article], error)
	Search(ctx context.Context, query string, page domain.PageRequest) (domain.Page[*domain.Article], error)
	MostViewed(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Article], error)
	Recent(ctx context.Context, days, limit int) ([]*domain.Article, error)
	Featured(ctx context.Context, limit int) ([]*domain.Article, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (domain.Page[*domain.Article], error)

	// Related returns published articles sharing a category or tag with the
	// article id, which must be visible to p.
	Related(ctx context.Context, id uuid.UUID, p *domain.Principal, limit int) ([]*domain.Article, error)

	// ListMine returns every article owned by p, drafts included.
	ListMine(ctx context.Context, p *domain.Principal, page domain.PageRequest) (domain.Page[*domain.Article], error)

	Categories(ctx context.Context) ([]string, error)
	Tags(ctx context.Context) ([]string, error)
	Statistics(ctx context.Context) (domain.ArticleStats, error)
}

type articleServiceImpl struct {
	articles store.ArticleStore
	db       *sql.DB
	logger   *slog.Logger
	timeFunc func() time.Time
}

var _ ArticleService = (*articleServiceImpl)(nil)

// NewArticleService creates an ArticleService using the wall clock.
func NewArticleService(articles store.ArticleStore, db *sql.DB, logger *slog.Logger) ArticleService {
	return NewArticleServiceWithClock(articles, db, logger, time.Now)
}

// NewArticleServiceWithClock creates an ArticleService with an injected clock.
func NewArticleServiceWithClock(
	articles store.ArticleStore,
	db *sql.DB,
	logger *slog.Logger,
	timeFunc func() time.Time,
) ArticleService {
	if articles == nil || db == nil {
		panic("article service dependencies cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &articleServiceImpl{
		articles: articles,
		db:       db,
		logger:   logger.With(slog.String("component", "article_service")),
		timeFunc: timeFunc,
	}
}

func (s *articleServiceImpl) now() time.Time {
	return s.timeFunc().UTC()
}

// Create implements ArticleService.Create
func (s *articleServiceImpl) Create(ctx context.Context, p *domain.Principal, in domain.ArticleFields) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !policy.CanAuthor(p) {
		return nil, policy.ErrAccessDenied
	}

	article, err := domain.NewArticle(p.ID, in, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.articles.Create(ctx, article); err != nil {
		log.Error("failed to create article",
			slog.String("author_id", p.ID.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to create article: %w", err)
	}
	if article.Published {
		articlesPublishedCounter.Inc()
	}
	article.AuthorName = p.Name

	log.Info("article created",
		slog.String("article_id", article.ID.String()),
		slog.String("author_id", p.ID.String()),
		slog.Bool("published", article.Published))
	return article, nil
}

// load fetches an article and wraps store errors.
func (s *articleServiceImpl) load(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	article, err := s.articles.GetByID(ctx, id)
	if err != nil {
		if !store.IsNotFoundError(err) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load article",
				slog.String("article_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, fmt.Errorf("failed to load article: %w", err)
	}
	return article, nil
}

// Get implements ArticleService.Get
func (s *articleServiceImpl) Get(ctx context.Context, id uuid.UUID, p *domain.Principal) (*domain.Article, error) {
	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeRead(p, article); err != nil {
		return nil, err
	}
	if !article.Published {
		return article, nil
	}

	views, err := s.articles.IncrementViews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count article view: %w", err)
	}
	article.Views = views
	articleViewsCounter.Inc()
	return article, nil
}

// Update implements ArticleService.Update
func (s *articleServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	p *domain.Principal,
	patch ArticlePatch,
) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// The row stays locked from read to write so a concurrent publish or
	// edit is never overwritten by a stale copy.
	var article *domain.Article
	var newlyPublished bool
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.articles.WithTx(tx)

		current, err := txStore.GetByIDForUpdate(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to load article: %w", err)
		}
		if err := policy.AuthorizeMutate(p, current); err != nil {
			return err
		}

		now := s.now()
		wasPublished := current.Published
		applyArticlePatch(current, patch, now)
		if err := current.Validate(); err != nil {
			return err
		}
		current.UpdatedAt = now

		if err := txStore.Update(ctx, current); err != nil {
			return fmt.Errorf("failed to update article: %w", err)
		}
		article = current
		newlyPublished = current.Published && !wasPublished
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) && !errors.Is(err, domain.ErrValidation) && !errors.Is(err, policy.ErrAccessDenied) {
			log.Error("failed to update article",
				slog.String("article_id", id.String()),
				slog.String("error", err.Error()))
		}
		return nil, err
	}
	if newlyPublished {
		articlesPublishedCounter.Inc()
	}

	log.Info("article updated", slog.String("article_id", id.String()))
	return article, nil
}

func applyArticlePatch(a *domain.Article, patch ArticlePatch, now time.Time) {
	if patch.Title != nil {
		a.Title = domain.NormalizeText(*patch.Title)
	}
	if patch.Excerpt != nil {
		a.Excerpt = domain.NormalizeText(*patch.Excerpt)
	}
	if patch.Content != nil {
		a.Content = *patch.Content
	}
	if patch.Category != nil {
		a.Category = domain.NormalizeText(*patch.Category)
	}
	if patch.Featured != nil {
		a.Featured = *patch.Featured
	}
	if patch.Tags != nil {
		a.Tags = domain.NormalizeTags(*patch.Tags)
	}
	if patch.Images != nil {
		a.Images = append([]domain.ImageAsset{}, *patch.Images...)
	}
	if patch.Videos != nil {
		a.Videos = append([]domain.VideoAsset{}, *patch.Videos...)
	}
	if patch.Published != nil {
		if *patch.Published {
			a.MarkPublished(now)
		} else {
			a.Published = false
		}
	}
}

// Delete implements ArticleService.Delete
func (s *articleServiceImpl) Delete(ctx context.Context, id uuid.UUID, p *domain.Principal) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	article, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.AuthorizeMutate(p, article); err != nil {
		return err
	}

	if err := s.articles.Delete(ctx, id); err != nil {
		log.Error("failed to delete article",
			slog.String("article_id", id.String()),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete article: %w", err)
	}

	log.Info("article deleted",
		slog.String("article_id", id.String()),
		slog.String("deleted_by", p.ID.String()))
	return nil
}

// Publish implements ArticleService.Publish
func (s *articleServiceImpl) Publish(ctx context.Context, id uuid.UUID, p *domain.Principal) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	article, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.CanPublish(p, article); err != nil {
		return nil, err
	}

	published, err := s.articles.Publish(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, store.ErrUpdateFailed) {
			// Another request published it after our read.
			return nil, policy.ErrAlreadyPublished
		}
		log.Error("failed to publish article",
			slog.String("article_id", id.String()),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to publish article: %w", err)
	}
	articlesPublishedCounter.Inc()

	log.Info("article published", slog.String("article_id", id.String()))
	return published, nil
}

// ListPublished implements ArticleService.ListPublished
func (s *articleServiceImpl) ListPublished(
	ctx context.Context,
	filter store.ArticleFilter,
	page domain.PageRequest,
) (domain.Page[*domain.Article], error) {
	filter.Search = domain.NormalizeText(filter.Search)
	filter.Category = domain.NormalizeText(filter.Category)
	filter.Tags = domain.NormalizeTags(filter.Tags)
	if len(filter.Tags) == 0 {
		filter.Tags = nil
	}

	items, total, err := s.articles.List(ctx, filter, page)
	if err != nil {
		return domain.Page[*domain.Article]{}, fmt.Errorf("failed to list articles: %w", err)
	}
	return domain.NewPage(items, page, total), nil
}

// ListByCategory implements ArticleService.ListByCategory
func (s *articleServiceImpl) ListByCategory(ctx context.Context, category string, page domain.PageRequest) (domain.Page[*domain.Article], error) {
	return s.ListPublished(ctx, store.ArticleFilter{Category: category}, page)
}

// ListByTag implements ArticleService.ListByTag
func (s *articleServiceImpl) ListByTag(ctx context.Context, tag string, page domain.PageRequest) (domain.Page[*domain.Article], error) {
	return s.ListPublished(ctx, store.ArticleFilter{Tags: []string{tag}}, page)
}

// Search implements ArticleService.Search
func (s *articleServiceImpl) Search(ctx context.Context, query string, page domain.PageRequest) (domain.Page[*domain.Article], error) {
	return s.ListPublished(ctx, store.ArticleFilter{Search: query}, page)
}

// MostViewed implements ArticleService.MostViewed
func (s *articleServiceImpl) MostViewed(ctx context.Context, page domain.PageRequest) (domain.Page[*domain.Article], error) {
	items, total, err := s.articles.MostViewed(ctx, page)
	if err != nil {
		return domain.Page[*domain.Article]{}, fmt.Errorf("failed to list most viewed articles: %w", err)
	}
	return domain.NewPage(items, page, total), nil
}

// Recent implements ArticleService.Recent
func (s *articleServiceImpl) Recent(ctx context.Context, days, limit int) ([]*domain.Article, error) {
	if days <= 0 {
		days = DefaultRecentDays
	}
	since := s.now().AddDate(0, 0, -days)

	items, err := s.articles.PublishedSince(ctx, since, domain.ClampLimit(limit, DefaultRecentLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list recent articles: %w", err)
	}
	return items, nil
}

// Featured implements ArticleService.Featured
func (s *articleServiceImpl) Featured(ctx context.Context, limit int) ([]*domain.Article, error) {
	items, err := s.articles.Featured(ctx, domain.ClampLimit(limit, DefaultFeaturedLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list featured articles: %w", err)
	}
	return items, nil
}

// ListByAuthor implements ArticleService.ListByAuthor
func (s *articleServiceImpl) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (domain.Page[*domain.Article], error) {
	items, total, err := s.articles.ListByAuthor(ctx, authorID, page)
	if err != nil {
		return domain.Page[*domain.Article]{}, fmt.Errorf("failed to list articles by author: %w", err)
	}
	return domain.NewPage(items, page, total), nil
}

// Related implements ArticleService.Related
func (s *articleServiceImpl) Related(ctx context.Context, id uuid.UUID, p *domain.Principal, limit int) ([]*domain.Article, error) {
	source, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := policy.AuthorizeRead(p, source); err != nil {
		return nil, err
	}

	items, err := s.articles.Related(ctx, source, domain.ClampLimit(limit, DefaultRelatedLimit))
	if err != nil {
		return nil, fmt.Errorf("failed to list related articles: %w", err)
	}
	return items, nil
}

// ListMine implements ArticleService.ListMine
func (s *articleServiceImpl) ListMine(ctx context.Context, p *domain.Principal, page domain.PageRequest) (domain.Page[*domain.Article], error) {
	if p == nil {
		return domain.Page[*domain.Article]{}, policy.ErrAccessDenied
	}
	items, total, err := s.articles.ListByOwner(ctx, p.ID, page)
	if err != nil {
		return domain.Page[*domain.Article]{}, fmt.Errorf("failed to list own articles: %w", err)
	}
	return domain.NewPage(items, page, total), nil
}

// Categories implements ArticleService.Categories
func (s *articleServiceImpl) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.articles.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Tags implements ArticleService.Tags
func (s *articleServiceImpl) Tags(ctx context.Context) ([]string, error) {
	tags, err := s.articles.Tags(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// Statistics implements ArticleService.Statistics
func (s *articleServiceImpl) Statistics(ctx context.Context) (domain.ArticleStats, error) {
	stats, err := s.articles.Stats(ctx)
	if err != nil {
		return domain.ArticleStats{}, fmt.Errorf("failed to load article statistics: %w", err)
	}
	return stats, nil
}
