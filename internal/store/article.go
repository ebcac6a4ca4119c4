package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
)

// ArticleFilter narrows a listing of published articles. Zero values mean
// "no constraint".
type ArticleFilter struct {
	// Search is a case-insensitive substring matched against title,
	// excerpt and content.
	Search string
	// Category matches exactly.
	Category string
	// Featured restricts the result to featured (true) or non-featured
	// (false) articles when non-nil.
	Featured *bool
	// Tags matches articles carrying any of the given tags.
	Tags []string
	// AuthorID restricts to one author when not uuid.Nil.
	AuthorID uuid.UUID
}

// ArticleStore defines the interface for article data persistence.
//
// Listing methods other than ListByOwner only ever return published
// articles and never touch view counts.
type ArticleStore interface {
	// Create saves a new article.
	Create(ctx context.Context, article *domain.Article) error

	// GetByID retrieves an article regardless of its published state.
	// Returns ErrArticleNotFound if the article does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Article, error)

	// GetByIDForUpdate is GetByID that also locks the row until the
	// surrounding transaction ends. Call it on a WithTx store.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Article, error)

	// Update replaces the mutable fields of an article. Author, views and
	// creation time are never changed by Update.
	// Returns ErrArticleNotFound if the article does not exist.
	Update(ctx context.Context, article *domain.Article) error

	// Delete removes an article permanently.
	// Returns ErrArticleNotFound if the article does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Publish marks a draft as published in a single conditional update,
	// keeping any existing publish date and otherwise using now.
	// Returns ErrArticleNotFound if the article does not exist and
	// ErrUpdateFailed if it was already published.
	Publish(ctx context.Context, id uuid.UUID, now time.Time) (*domain.Article, error)

	// IncrementViews atomically adds one to the view count of a published
	// article and returns the new count.
	// Returns ErrArticleNotFound if no published article has that id.
	IncrementViews(ctx context.Context, id uuid.UUID) (int64, error)

	// List returns published articles matching filter, newest publication first.
	List(ctx context.Context, filter ArticleFilter, page domain.PageRequest) ([]*domain.Article, int64, error)

	// Featured returns up to limit featured published articles.
	Featured(ctx context.Context, limit int) ([]*domain.Article, error)

	// MostViewed returns published articles ordered by views.
	MostViewed(ctx context.Context, page domain.PageRequest) ([]*domain.Article, int64, error)

	// PublishedSince returns up to limit articles published at or after since.
	PublishedSince(ctx context.Context, since time.Time, limit int) ([]*domain.Article, error)

	// ListByAuthor returns an author's published articles, newest created first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) ([]*domain.Article, int64, error)

	// ListByOwner returns every article of ownerID including drafts,
	// newest created first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page domain.PageRequest) ([]*domain.Article, int64, error)

	// Related returns published articles sharing the category or any tag
	// of source, excluding source itself.
	Related(ctx context.Context, source *domain.Article, limit int) ([]*domain.Article, error)

	// Categories returns the distinct non-empty categories of published articles, sorted.
	Categories(ctx context.Context) ([]string, error)

	// Tags returns the distinct tags of published articles, sorted.
	Tags(ctx context.Context) ([]string, error)

	// Stats returns aggregate article counts.
	Stats(ctx context.Context) (domain.ArticleStats, error)

	// WithTx returns a new ArticleStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ArticleStore
}
