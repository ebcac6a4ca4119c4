package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

type articlePage = domain.Page[*domain.Article]
type userPage = domain.Page[*domain.User]

func articlePageOf(v any) articlePage {
	if p, ok := v.(articlePage); ok {
		return p
	}
	return articlePage{}
}

func userPageOf(v any) userPage {
	if p, ok := v.(userPage); ok {
		return p
	}
	return userPage{}
}

// MockArticleService is a testify mock of service.ArticleService.
type MockArticleService struct {
	mock.Mock
}

var _ service.ArticleService = (*MockArticleService)(nil)

func (m *MockArticleService) Create(ctx context.Context, p *domain.Principal, in domain.ArticleFields) (*domain.Article, error) {
	args := m.Called(ctx, p, in)
	return articleOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Get(ctx context.Context, id uuid.UUID, p *domain.Principal) (*domain.Article, error) {
	args := m.Called(ctx, id, p)
	return articleOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Update(ctx context.Context, id uuid.UUID, p *domain.Principal, patch service.ArticlePatch) (*domain.Article, error) {
	args := m.Called(ctx, id, p, patch)
	return articleOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Delete(ctx context.Context, id uuid.UUID, p *domain.Principal) error {
	return m.Called(ctx, id, p).Error(0)
}

func (m *MockArticleService) Publish(ctx context.Context, id uuid.UUID, p *domain.Principal) (*domain.Article, error) {
	args := m.Called(ctx, id, p)
	return articleOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) ListPublished(ctx context.Context, filter store.ArticleFilter, page domain.PageRequest) (articlePage, error) {
	args := m.Called(ctx, filter, page)
	return articlePageOf(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) ListByCategory(ctx context.Context, category string, page domain.PageRequest) (articlePage, error) {
	args := m.Called(ctx, category, page)
	return articlePageOf(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) ListByTag(ctx context.Context, tag string, page domain.PageRequest) (articlePage, error) {
	args := m.Called(ctx, tag, page)
	return articlePageOf(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Search(ctx context.Context, query string, page domain.PageRequest) (articlePage, error) {
	args := m.Called(ctx, query, page)
	return articlePageOf(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) MostViewed(ctx context.Context, page domain.PageRequest) (articlePage, error) {
	args := m.Called(ctx, page)
	return articlePageOf(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Recent(ctx context.Context, days, limit int) ([]*domain.Article, error) {
	args := m.Called(ctx, days, limit)
	return articlesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Featured(ctx context.Context, limit int) ([]*domain.Article, error) {
	args := m.Called(ctx, limit)
	return articlesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) ListByAuthor(ctx context.Context, authorID uuid.UUID, page domain.PageRequest) (articlePage, error) {
	args := m.Called(ctx, authorID, page)
	return articlePageOf(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Related(ctx context.Context, id uuid.UUID, p *domain.Principal, limit int) ([]*domain.Article, error) {
	args := m.Called(ctx, id, p, limit)
	return articlesOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) ListMine(ctx context.Context, p *domain.Principal, page domain.PageRequest) (articlePage, error) {
	args := m.Called(ctx, p, page)
	return articlePageOf(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Categories(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return stringsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Tags(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return stringsOrNil(args.Get(0)), args.Error(1)
}

func (m *MockArticleService) Statistics(ctx context.Context) (domain.ArticleStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.ArticleStats), args.Error(1)
}

// MockAuthService is a testify mock of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

var _ service.AuthService = (*MockAuthService)(nil)

func (m *MockAuthService) Register(ctx context.Context, email, name, password string) (*domain.User, error) {
	args := m.Called(ctx, email, name, password)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAuthService) BootstrapAdmin(ctx context.Context, email, name, password string) (*domain.User, error) {
	args := m.Called(ctx, email, name, password)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResult, error) {
	args := m.Called(ctx, email, password)
	res, _ := args.Get(0).(*service.LoginResult)
	return res, args.Error(1)
}

func (m *MockAuthService) ApproveByEmail(ctx context.Context, actor *domain.Principal, email string) (*domain.User, error) {
	args := m.Called(ctx, actor, email)
	return userOrNil(args.Get(0)), args.Error(1)
}

// MockUserService is a testify mock of service.UserService.
type MockUserService struct {
	mock.Mock
}

var _ service.UserService = (*MockUserService)(nil)

func (m *MockUserService) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) ResolvePrincipal(ctx context.Context, id uuid.UUID) (*domain.Principal, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*domain.Principal)
	return p, args.Error(1)
}

func (m *MockUserService) Approve(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, actor, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Disable(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, actor, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Enable(ctx context.Context, actor *domain.Principal, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, actor, id)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) ChangeRole(ctx context.Context, actor *domain.Principal, id uuid.UUID, role domain.Role) (*domain.User, error) {
	args := m.Called(ctx, actor, id, role)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, p *domain.Principal, patch service.ProfilePatch) (*domain.User, error) {
	args := m.Called(ctx, p, patch)
	return userOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, p *domain.Principal, current, next string) error {
	return m.Called(ctx, p, current, next).Error(0)
}

func (m *MockUserService) List(ctx context.Context, page domain.PageRequest) (userPage, error) {
	args := m.Called(ctx, page)
	return userPageOf(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Search(ctx context.Context, query string, page domain.PageRequest) (userPage, error) {
	args := m.Called(ctx, query, page)
	return userPageOf(args.Get(0)), args.Error(1)
}

func (m *MockUserService) ListByRole(ctx context.Context, role domain.Role, page domain.PageRequest) (userPage, error) {
	args := m.Called(ctx, role, page)
	return userPageOf(args.Get(0)), args.Error(1)
}

func (m *MockUserService) ListByApproval(ctx context.Context, approved bool, page domain.PageRequest) (userPage, error) {
	args := m.Called(ctx, approved, page)
	return userPageOf(args.Get(0)), args.Error(1)
}

func (m *MockUserService) TopContributors(ctx context.Context, limit int) ([]domain.Contributor, error) {
	args := m.Called(ctx, limit)
	top, _ := args.Get(0).([]domain.Contributor)
	return top, args.Error(1)
}

func (m *MockUserService) Recent(ctx context.Context, days int) ([]*domain.User, error) {
	args := m.Called(ctx, days)
	return usersOrNil(args.Get(0)), args.Error(1)
}

func (m *MockUserService) Statistics(ctx context.Context) (domain.UserStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.UserStats), args.Error(1)
}

// MockUploadService is a testify mock of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

var _ service.UploadService = (*MockUploadService)(nil)

func (m *MockUploadService) UploadImage(ctx context.Context, p *domain.Principal, file service.FileUpload) (*domain.ImageAsset, error) {
	args := m.Called(ctx, p, file.Filename)
	img, _ := args.Get(0).(*domain.ImageAsset)
	return img, args.Error(1)
}

func (m *MockUploadService) UploadVideo(ctx context.Context, p *domain.Principal, file service.FileUpload) (*domain.VideoAsset, error) {
	args := m.Called(ctx, p, file.Filename)
	v, _ := args.Get(0).(*domain.VideoAsset)
	return v, args.Error(1)
}

func (m *MockUploadService) UploadImages(ctx context.Context, p *domain.Principal, files []service.FileUpload) ([]domain.ImageAsset, error) {
	args := m.Called(ctx, p, len(files))
	imgs, _ := args.Get(0).([]domain.ImageAsset)
	return imgs, args.Error(1)
}

func (m *MockUploadService) Delete(ctx context.Context, p *domain.Principal, publicID string) error {
	return m.Called(ctx, p, publicID).Error(0)
}

func (m *MockUploadService) Transform(ctx context.Context, p *domain.Principal, publicID string, size service.Size) (string, error) {
	args := m.Called(ctx, p, publicID, size)
	return args.String(0), args.Error(1)
}
