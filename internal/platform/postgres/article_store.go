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

const articleColumns = `a.id, a.title, a.excerpt, a.content, a.category, a.published, a.featured,
	a.views, array_to_json(a.tags), a.images, a.videos, a.publish_date, a.author_id,
	COALESCE(u.name, ''), a.created_at, a.updated_at`

const articleFrom = ` FROM articles a LEFT JOIN users u ON u.id = a.author_id`

// PostgresArticleStore implements the store.ArticleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresArticleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresArticleStore creates a new PostgreSQL implementation of the ArticleStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresArticleStore(db store.DBTX, logger *slog.Logger) *PostgresArticleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresArticleStore{
		db:     db,
		logger: logger.With(slog.String("component", "article_store")),
	}
}

// Ensure PostgresArticleStore implements store.ArticleStore interface
var _ store.ArticleStore = (*PostgresArticleStore)(nil)

// WithTx implements store.ArticleStore.WithTx
func (s *PostgresArticleStore) WithTx(tx *sql.Tx) store.ArticleStore {
	return &PostgresArticleStore{db: tx, logger: s.logger}
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	var (
		a                   domain.Article
		tags, images, video []byte
		publishDate         sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Title, &a.Excerpt, &a.Content, &a.Category, &a.Published, &a.Featured,
		&a.Views, &tags, &images, &video, &publishDate, &a.AuthorID,
		&a.AuthorName, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.Tags, err = decodeTags(tags); err != nil {
		return nil, err
	}
	if a.Images, err = decodeAssets[domain.ImageAsset](images); err != nil {
		return nil, err
	}
	if a.Videos, err = decodeAssets[domain.VideoAsset](video); err != nil {
		return nil, err
	}
	if publishDate.Valid {
		t := publishDate.Time.UTC()
		a.PublishDate = &t
	}
	return &a, nil
}

// Create implements store.ArticleStore.Create
func (s *PostgresArticleStore) Create(ctx context.Context, article *domain.Article) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	images, err := encodeImages(article.Images)
	if err != nil {
		return err
	}
	videos, err := encodeVideos(article.Videos)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO articles (id, title, excerpt, content, category, published, featured,
			views, tags, images, videos, publish_date, author_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	_, err = s.db.ExecContext(ctx, query,
		article.ID,
		article.Title,
		article.Excerpt,
		article.Content,
		article.Category,
		article.Published,
		article.Featured,
		article.Views,
		nonNilTags(article.Tags),
		images,
		videos,
		article.PublishDate,
		article.AuthorID,
		article.CreatedAt,
		article.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during article creation",
				slog.String("article_id", article.ID.String()),
				slog.String("author_id", article.AuthorID.String()))
			return fmt.Errorf("%w: author with ID %s not found", store.ErrInvalidEntity, article.AuthorID)
		}
		log.Error("failed to create article",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()))
		return MapError(err)
	}

	log.Info("article created successfully",
		slog.String("article_id", article.ID.String()),
		slog.String("author_id", article.AuthorID.String()),
		slog.Bool("published", article.Published))
	return nil
}

// GetByID implements store.ArticleStore.GetByID
func (s *PostgresArticleStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return s.getByID(ctx, `SELECT `+articleColumns+articleFrom+` WHERE a.id = $1`, id)
}

// GetByIDForUpdate implements store.ArticleStore.GetByIDForUpdate. Only the
// article row is locked; the author join sits on the nullable side.
func (s *PostgresArticleStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return s.getByID(ctx, `SELECT `+articleColumns+articleFrom+` WHERE a.id = $1 FOR UPDATE OF a`, id)
}

func (s *PostgresArticleStore) getByID(ctx context.Context, query string, id uuid.UUID) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	article, err := scanArticle(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("article not found", slog.String("article_id", id.String()))
			return nil, store.ErrArticleNotFound
		}
		log.Error("failed to get article by ID",
			slog.String("error", err.Error()),
			slog.String("article_id", id.String()))
		return nil, MapError(err)
	}
	return article, nil
}

// Update implements store.ArticleStore.Update
func (s *PostgresArticleStore) Update(ctx context.Context, article *domain.Article) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	images, err := encodeImages(article.Images)
	if err != nil {
		return err
	}
	videos, err := encodeVideos(article.Videos)
	if err != nil {
		return err
	}

	query := `
		UPDATE articles
		SET title = $1, excerpt = $2, content = $3, category = $4, published = $5,
			featured = $6, tags = $7, images = $8, videos = $9,
			publish_date = COALESCE(publish_date, $10), updated_at = $11
		WHERE id = $12
	`
	result, err := s.db.ExecContext(ctx, query,
		article.Title,
		article.Excerpt,
		article.Content,
		article.Category,
		article.Published,
		article.Featured,
		nonNilTags(article.Tags),
		images,
		videos,
		article.PublishDate,
		article.UpdatedAt,
		article.ID,
	)
	if err != nil {
		log.Error("failed to update article",
			slog.String("error", err.Error()),
			slog.String("article_id", article.ID.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrArticleNotFound); err != nil {
		return err
	}

	log.Info("article updated successfully", slog.String("article_id", article.ID.String()))
	return nil
}

// Delete implements store.ArticleStore.Delete
func (s *PostgresArticleStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete article",
			slog.String("error", err.Error()),
			slog.String("article_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrArticleNotFound); err != nil {
		return err
	}

	log.Info("article deleted", slog.String("article_id", id.String()))
	return nil
}

// Publish implements store.ArticleStore.Publish
func (s *PostgresArticleStore) Publish(ctx context.Context, id uuid.UUID, now time.Time) (*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	now = now.UTC()

	result, err := s.db.ExecContext(ctx, `
		UPDATE articles
		SET published = TRUE, publish_date = COALESCE(publish_date, $2), updated_at = $2
		WHERE id = $1 AND published = FALSE
	`, id, now)
	if err != nil {
		log.Error("failed to publish article",
			slog.String("error", err.Error()),
			slog.String("article_id", id.String()))
		return nil, MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUpdateFailed); err != nil {
		// Either the article is gone or it was already published.
		if _, getErr := s.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		log.Debug("article already published", slog.String("article_id", id.String()))
		return nil, store.NewStoreError("article", "publish", "article is already published", err)
	}

	log.Info("article published", slog.String("article_id", id.String()))
	return s.GetByID(ctx, id)
}

// IncrementViews implements store.ArticleStore.IncrementViews
func (s *PostgresArticleStore) IncrementViews(ctx context.Context, id uuid.UUID) (int64, error) {
	var views int64
	err := s.db.QueryRowContext(ctx, `
		UPDATE articles SET views = views + 1
		WHERE id = $1 AND published = TRUE
		RETURNING views
	`, id).Scan(&views)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrArticleNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to increment views",
			slog.String("error", err.Error()),
			slog.String("article_id", id.String()))
		return 0, MapError(err)
	}
	return views, nil
}

// publishedWhere returns a clause restricted to published articles and the filter.
func publishedWhere(filter store.ArticleFilter) *whereClause {
	w := &whereClause{}
	w.add(`a.published = TRUE`)
	if q := domain.NormalizeText(filter.Search); q != "" {
		p := likePattern(q)
		w.add(`(a.title ILIKE ? OR a.excerpt ILIKE ? OR a.content ILIKE ?)`, p, p, p)
	}
	if c := domain.NormalizeText(filter.Category); c != "" {
		w.add(`a.category = ?`, c)
	}
	if filter.Featured != nil {
		w.add(`a.featured = ?`, *filter.Featured)
	}
	if tags := domain.NormalizeTags(filter.Tags); len(tags) > 0 {
		w.add(`a.tags && ?::text[]`, tags)
	}
	if filter.AuthorID != uuid.Nil {
		w.add(`a.author_id = ?`, filter.AuthorID)
	}
	return w
}

// List implements store.ArticleStore.List
func (s *PostgresArticleStore) List(ctx context.Context, filter store.ArticleFilter, page domain.PageRequest) ([]*domain.Article, int64, error) {
	return s.listPage(ctx, publishedWhere(filter), `a.publish_date DESC, a.id`, page)
}

// MostViewed implements store.ArticleStore.MostViewed
func (s *PostgresArticleStore) MostViewed(ctx context.Context, page domain.PageRequest) ([]*domain.Article, int64, error) {
	return s.listPage(ctx, publishedWhere(store.ArticleFilter{}), `a.views DESC, a.publish_date DESC, a.id`, page)
}

// ListByAuthor implements store.ArticleStore.ListByAuthor. Public author
// pages list published work newest publication first, like every other
// public listing.
func (s *PostgresArticleStore) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) ([]*domain.Article, int64, error) {
	return s.listPage(ctx, publishedWhere(store.ArticleFilter{AuthorID: authorID}), `a.publish_date DESC, a.id`, page)
}

// ListByOwner implements store.ArticleStore.ListByOwner
func (s *PostgresArticleStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, page domain.PageRequest) ([]*domain.Article, int64, error) {
	w := &whereClause{}
	w.add(`a.author_id = ?`, ownerID)
	return s.listPage(ctx, w, `a.created_at DESC, a.id`, page)
}

// Featured implements store.ArticleStore.Featured
func (s *PostgresArticleStore) Featured(ctx context.Context, limit int) ([]*domain.Article, error) {
	featured := true
	w := publishedWhere(store.ArticleFilter{Featured: &featured})
	query := `SELECT ` + articleColumns + articleFrom + w.String() +
		` ORDER BY a.publish_date DESC, a.id LIMIT ` + w.arg(limit)
	return s.queryArticles(ctx, query, w.args...)
}

// PublishedSince implements store.ArticleStore.PublishedSince
func (s *PostgresArticleStore) PublishedSince(ctx context.Context, since time.Time, limit int) ([]*domain.Article, error) {
	w := publishedWhere(store.ArticleFilter{})
	w.add(`a.publish_date >= ?`, since.UTC())
	query := `SELECT ` + articleColumns + articleFrom + w.String() +
		` ORDER BY a.publish_date DESC, a.id LIMIT ` + w.arg(limit)
	return s.queryArticles(ctx, query, w.args...)
}

// Related implements store.ArticleStore.Related
func (s *PostgresArticleStore) Related(ctx context.Context, source *domain.Article, limit int) ([]*domain.Article, error) {
	w := publishedWhere(store.ArticleFilter{})
	w.add(`a.id <> ?`, source.ID)
	w.add(`((? <> '' AND a.category = ?) OR a.tags && ?::text[])`,
		source.Category, source.Category, nonNilTags(source.Tags))
	query := `SELECT ` + articleColumns + articleFrom + w.String() +
		` ORDER BY a.publish_date DESC, a.id LIMIT ` + w.arg(limit)
	return s.queryArticles(ctx, query, w.args...)
}

func (s *PostgresArticleStore) listPage(
	ctx context.Context,
	w *whereClause,
	orderBy string,
	page domain.PageRequest,
) ([]*domain.Article, int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles a`+w.String(), w.args...).Scan(&total); err != nil {
		log.Error("failed to count articles", slog.String("error", err.Error()))
		return nil, 0, MapError(err)
	}

	query := `SELECT ` + articleColumns + articleFrom + w.String() +
		` ORDER BY ` + orderBy + ` LIMIT ` + w.arg(page.Limit()) + ` OFFSET ` + w.arg(page.Offset())

	articles, err := s.queryArticles(ctx, query, w.args...)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (s *PostgresArticleStore) queryArticles(ctx context.Context, query string, args ...any) ([]*domain.Article, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query articles", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	articles := []*domain.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			log.Error("failed to scan article row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return articles, nil
}

// Categories implements store.ArticleStore.Categories
func (s *PostgresArticleStore) Categories(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT category FROM articles
		WHERE published = TRUE AND category <> ''
		ORDER BY category
	`)
}

// Tags implements store.ArticleStore.Tags
func (s *PostgresArticleStore) Tags(ctx context.Context) ([]string, error) {
	return s.queryStrings(ctx, `
		SELECT DISTINCT tag FROM articles, unnest(tags) AS tag
		WHERE published = TRUE AND tag <> ''
		ORDER BY tag
	`)
}

func (s *PostgresArticleStore) queryStrings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, MapError(err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return out, nil
}

// Stats implements store.ArticleStore.Stats
func (s *PostgresArticleStore) Stats(ctx context.Context) (domain.ArticleStats, error) {
	var st domain.ArticleStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE published), COUNT(*) FILTER (WHERE NOT published)
		FROM articles
	`).Scan(&st.Total, &st.Published, &st.Drafts)
	if err != nil {
		return domain.ArticleStats{}, MapError(err)
	}
	return st, nil
}
