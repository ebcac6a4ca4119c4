package api

import (
	"time"

	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
)

// RegisterRequest is the payload of /auth/register and /auth/create-admin.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// LoginRequest is the payload of /auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest changes the caller's own profile. Omitted fields are
// left untouched.
type UpdateProfileRequest struct {
	Name              *string `json:"name"              validate:"omitempty,min=2,max=100"`
	Email             *string `json:"email"             validate:"omitempty,email,max=255"`
	Bio               *string `json:"bio"               validate:"omitempty,max=1000"`
	ProfilePictureURL *string `json:"profilePictureUrl" validate:"omitempty,max=500"`
}

func (r UpdateProfileRequest) toPatch() service.ProfilePatch {
	return service.ProfilePatch{
		Name:              r.Name,
		Email:             r.Email,
		Bio:               r.Bio,
		ProfilePictureURL: r.ProfilePictureURL,
	}
}

// ChangePasswordRequest is the payload of /auth/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword"     validate:"required,min=6,max=72"`
}

// CreateArticleRequest is the payload of POST /articles.
type CreateArticleRequest struct {
	Title     string              `json:"title"     validate:"required,min=5,max=255"`
	Excerpt   string              `json:"excerpt"   validate:"required,min=10,max=500"`
	Content   string              `json:"content"`
	Category  string              `json:"category"  validate:"max=100"`
	Published bool                `json:"published"`
	Featured  bool                `json:"featured"`
	Tags      []string            `json:"tags"`
	Images    []domain.ImageAsset `json:"images"    validate:"dive"`
	Videos    []domain.VideoAsset `json:"videos"    validate:"dive"`
}

func (r CreateArticleRequest) toFields() domain.ArticleFields {
	return domain.ArticleFields{
		Title:     r.Title,
		Excerpt:   r.Excerpt,
		Content:   r.Content,
		Category:  r.Category,
		Published: r.Published,
		Featured:  r.Featured,
		Tags:      r.Tags,
		Images:    r.Images,
		Videos:    r.Videos,
	}
}

// UpdateArticleRequest is the payload of PUT /articles/{id}. Omitted fields
// keep their stored value.
type UpdateArticleRequest struct {
	Title     *string              `json:"title"     validate:"omitempty,min=5,max=255"`
	Excerpt   *string              `json:"excerpt"   validate:"omitempty,min=10,max=500"`
	Content   *string              `json:"content"`
	Category  *string              `json:"category"  validate:"omitempty,max=100"`
	Published *bool                `json:"published"`
	Featured  *bool                `json:"featured"`
	Tags      *[]string            `json:"tags"`
	Images    *[]domain.ImageAsset `json:"images"`
	Videos    *[]domain.VideoAsset `json:"videos"`
}

func (r UpdateArticleRequest) toPatch() service.ArticlePatch {
	return service.ArticlePatch{
		Title:     r.Title,
		Excerpt:   r.Excerpt,
		Content:   r.Content,
		Category:  r.Category,
		Published: r.Published,
		Featured:  r.Featured,
		Tags:      r.Tags,
		Images:    r.Images,
		Videos:    r.Videos,
	}
}

// TransformRequest asks for a resized rendition of an uploaded image.
type TransformRequest struct {
	Width  int `json:"width"  validate:"gte=0,lte=4000"`
	Height int `json:"height" validate:"gte=0,lte=4000"`
}

// Envelope is the generic {success, message, data} response body.
type Envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// DataResponse wraps a payload as {"data": ...}.
type DataResponse struct {
	Data interface{} `json:"data"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"tokenType"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *domain.User `json:"user"`
}

// PaginationResponse describes the position of a page in its result set.
type PaginationResponse struct {
	CurrentPage int   `json:"currentPage"`
	PageSize    int   `json:"pageSize"`
	TotalItems  int64 `json:"totalItems"`
	TotalPages  int   `json:"totalPages"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

// ArticlePageData is the data member of paginated article listings.
type ArticlePageData struct {
	Articles   []*domain.Article  `json:"articles"`
	Pagination PaginationResponse `json:"pagination"`
}

// UserPageData is the data member of paginated user listings.
type UserPageData struct {
	Users      []*domain.User     `json:"users"`
	Pagination PaginationResponse `json:"pagination"`
}

func paginationOf[T any](p domain.Page[T]) PaginationResponse {
	return PaginationResponse{
		CurrentPage: p.Page,
		PageSize:    p.Size,
		TotalItems:  p.TotalItems,
		TotalPages:  p.TotalPages,
		HasNext:     p.HasNext,
		HasPrev:     p.HasPrev,
	}
}

func articlePageResponse(p domain.Page[*domain.Article]) DataResponse {
	return DataResponse{Data: ArticlePageData{Articles: p.Items, Pagination: paginationOf(p)}}
}

func userPageResponse(p domain.Page[*domain.User]) DataResponse {
	return DataResponse{Data: UserPageData{Users: p.Items, Pagination: paginationOf(p)}}
}

func articleListResponse(articles []*domain.Article) DataResponse {
	if articles == nil {
		articles = []*domain.Article{}
	}
	return DataResponse{Data: map[string]interface{}{"articles": articles}}
}

func articleResponse(a *domain.Article) DataResponse {
	return DataResponse{Data: map[string]interface{}{"article": a}}
}

func userResponse(u *domain.User) DataResponse {
	return DataResponse{Data: map[string]interface{}{"user": u}}
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
