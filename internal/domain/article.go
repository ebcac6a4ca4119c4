package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Field limits for articles.
const (
	MinTitleLength    = 5
	MaxTitleLength    = 255
	MinExcerptLength  = 10
	MaxExcerptLength  = 500
	MaxCategoryLength = 100
)

// ImageAsset describes an uploaded image attached to an article, including
// the derived renditions produced by the media collaborator.
type ImageAsset struct {
	URL          string `json:"url"`
	PublicID     string `json:"publicId,omitempty"`
	Caption      string `json:"caption,omitempty"`
	Alt          string `json:"alt,omitempty"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	MediumURL    string `json:"mediumUrl,omitempty"`
	LargeURL     string `json:"largeUrl,omitempty"`
}

// VideoAsset describes an uploaded video attached to an article.
type VideoAsset struct {
	URL          string  `json:"url"`
	PublicID     string  `json:"publicId,omitempty"`
	Caption      string  `json:"caption,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	Format       string  `json:"format,omitempty"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
}

// Article is the unit of published content. It is owned by the user that
// created it; AuthorID never changes after creation.
type Article struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Excerpt     string       `json:"excerpt"`
	Content     string       `json:"content,omitempty"`
	Category    string       `json:"category,omitempty"`
	Published   bool         `json:"published"`
	Featured    bool         `json:"featured"`
	Views       int64        `json:"views"`
	Tags        []string     `json:"tags"`
	Images      []ImageAsset `json:"images"`
	Videos      []VideoAsset `json:"videos"`
	PublishDate *time.Time   `json:"publishDate"`
	AuthorID    uuid.UUID    `json:"authorId"`
	AuthorName  string       `json:"authorName,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// ArticleFields holds the writable fields used to create an article.
type ArticleFields struct {
	Title     string
	Excerpt   string
	Content   string
	Category  string
	Published bool
	Featured  bool
	Tags      []string
	Images    []ImageAsset
	Videos    []VideoAsset
}

// NewArticle builds a validated article owned by authorID. When the fields
// ask for immediate publication the publish date is stamped with now.
func NewArticle(authorID uuid.UUID, f ArticleFields, now time.Time) (*Article, error) {
	now = now.UTC()
	a := &Article{
		ID:        uuid.New(),
		Title:     strings.TrimSpace(f.Title),
		Excerpt:   strings.TrimSpace(f.Excerpt),
		Content:   f.Content,
		Category:  strings.TrimSpace(f.Category),
		Featured:  f.Featured,
		Tags:      NormalizeTags(f.Tags),
		Images:    nonNilImages(f.Images),
		Videos:    nonNilVideos(f.Videos),
		AuthorID:  authorID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if f.Published {
		a.MarkPublished(now)
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate checks the content constraints of the article.
func (a *Article) Validate() error {
	verr := &ValidationError{}

	if a.ID == uuid.Nil {
		verr.Add("id", "cannot be empty")
	}
	if a.AuthorID == uuid.Nil {
		verr.Add("authorId", "cannot be empty")
	}
	if n := utf8.RuneCountInString(a.Title); n < MinTitleLength || n > MaxTitleLength {
		verr.Add("title", "must be between 5 and 255 characters")
	}
	if n := utf8.RuneCountInString(a.Excerpt); n < MinExcerptLength || n > MaxExcerptLength {
		verr.Add("excerpt", "must be between 10 and 500 characters")
	}
	if utf8.RuneCountInString(a.Category) > MaxCategoryLength {
		verr.Add("category", "must be at most 100 characters")
	}
	if a.Published && a.PublishDate == nil {
		verr.Add("publishDate", "must be set on published articles")
	}
	for i, img := range a.Images {
		if strings.TrimSpace(img.URL) == "" {
			verr.Add("images", "entry "+strconv.Itoa(i)+" has no url")
		}
	}
	for i, v := range a.Videos {
		if strings.TrimSpace(v.URL) == "" {
			verr.Add("videos", "entry "+strconv.Itoa(i)+" has no url")
		}
	}

	return verr.Err()
}

// MarkPublished flips the article to published. The publish date is only
// stamped the first time; later calls keep the original date.
func (a *Article) MarkPublished(now time.Time) {
	a.Published = true
	if a.PublishDate == nil {
		t := now.UTC()
		a.PublishDate = &t
	}
}

// IsDraft reports whether the article is unpublished.
func (a *Article) IsDraft() bool {
	return !a.Published
}

// NormalizeTags trims, NFC-normalises and de-duplicates tags while keeping
// their original order. Empty entries are dropped.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = NormalizeText(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// NormalizeText trims s and converts it to Unicode NFC so that visually
// identical labels and search terms compare equal.
func NormalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func nonNilImages(in []ImageAsset) []ImageAsset {
	if in == nil {
		return []ImageAsset{}
	}
	return in
}

func nonNilVideos(in []VideoAsset) []VideoAsset {
	if in == nil {
		return []VideoAsset{}
	}
	return in
}
