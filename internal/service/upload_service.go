package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/policy"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// Upload limits.
const (
	MaxImageSize       int64 = 10 << 20
	MaxVideoSize       int64 = 100 << 20
	MaxImagesPerUpload       = 10
)

// Folders and name prefixes of uploaded objects.
const (
	ImageFolder = "wildlife-images"
	VideoFolder = "wildlife-videos"
	imagePrefix = "wildlife_"
	videoPrefix = "wildlife_video_"
	randomIDLen = 15
)

// Rendition sizes derived for every image.
var (
	ThumbnailSize = Size{Width: 300, Height: 200}
	MediumSize    = Size{Width: 800, Height: 600}
	LargeSize     = Size{Width: 1200, Height: 800}
)

// Default size of an on-demand image transformation.
var DefaultTransformSize = MediumSize

// Size is a width x height pair in pixels.
type Size struct {
	Width  int
	Height int
}

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/webp": true,
	"image/avif": true,
}

var allowedVideoTypes = map[string]bool{
	"video/mp4":        true,
	"video/mov":        true,
	"video/quicktime":  true,
	"video/avi":        true,
	"video/x-msvideo":  true,
	"video/mkv":        true,
	"video/x-matroska": true,
	"video/webm":       true,
}

// FileUpload is one file received from a client.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.Reader
	Caption     string
	Alt         string
}

// UploadService validates uploads and hands them to the media store.
type UploadService interface {
	UploadImage(ctx context.Context, p *domain.Principal, file FileUpload) (*domain.ImageAsset, error)
	UploadVideo(ctx context.Context, p *domain.Principal, file FileUpload) (*domain.VideoAsset, error)

	// UploadImages uploads up to MaxImagesPerUpload images and stops at the
	// first failure. Every file is validated before anything is stored.
	UploadImages(ctx context.Context, p *domain.Principal, files []FileUpload) ([]domain.ImageAsset, error)

	// Delete removes a previously uploaded object.
	Delete(ctx context.Context, p *domain.Principal, publicID string) error

	// Transform returns the URL of a width x height rendition of an image.
	Transform(ctx context.Context, p *domain.Principal, publicID string, size Size) (string, error)
}

type uploadServiceImpl struct {
	media    store.MediaStore
	logger   *slog.Logger
	timeFunc func() time.Time
	randomID func() string
}

var _ UploadService = (*uploadServiceImpl)(nil)

// NewUploadService creates an UploadService. A nil media store yields a
// service whose operations all fail with ErrMediaDisabled.
func NewUploadService(media store.MediaStore, logger *slog.Logger) UploadService {
	return newUploadService(media, logger, time.Now, randomID)
}

func newUploadService(media store.MediaStore, logger *slog.Logger, timeFunc func() time.Time, rnd func() string) *uploadServiceImpl {
	if logger == nil {
		logger = slog.Default()
	}
	return &uploadServiceImpl{
		media:    media,
		logger:   logger.With(slog.String("component", "upload_service")),
		timeFunc: timeFunc,
		randomID: rnd,
	}
}

func randomID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:randomIDLen]
}

func (s *uploadServiceImpl) guard(p *domain.Principal) error {
	if s.media == nil {
		return ErrMediaDisabled
	}
	if !policy.CanAuthor(p) {
		return policy.ErrAccessDenied
	}
	return nil
}

func (s *uploadServiceImpl) imageKey() string {
	return fmt.Sprintf("%s/%s%d_%s", ImageFolder, imagePrefix, s.timeFunc().UnixMilli(), s.randomID())
}

func (s *uploadServiceImpl) videoKey() string {
	return fmt.Sprintf("%s/%s%d_%s", VideoFolder, videoPrefix, s.timeFunc().UnixMilli(), s.randomID())
}

// UploadImage implements UploadService.UploadImage
func (s *uploadServiceImpl) UploadImage(ctx context.Context, p *domain.Principal, file FileUpload) (*domain.ImageAsset, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	body, contentType, err := checkFile(file, MaxImageSize, allowedImageTypes)
	if err != nil {
		return nil, err
	}
	return s.storeImage(ctx, file, body, contentType)
}

func (s *uploadServiceImpl) storeImage(ctx context.Context, file FileUpload, body io.Reader, contentType string) (*domain.ImageAsset, error) {
	key := s.imageKey()
	url, err := s.media.Put(ctx, key, contentType, body, file.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("image uploaded",
		slog.String("public_id", key),
		slog.Int64("size", file.Size))

	return &domain.ImageAsset{
		URL:          url,
		PublicID:     key,
		Caption:      file.Caption,
		Alt:          file.Alt,
		ThumbnailURL: s.media.DerivedURL(key, ThumbnailSize.Width, ThumbnailSize.Height),
		MediumURL:    s.media.DerivedURL(key, MediumSize.Width, MediumSize.Height),
		LargeURL:     s.media.DerivedURL(key, LargeSize.Width, LargeSize.Height),
	}, nil
}

// UploadVideo implements UploadService.UploadVideo
func (s *uploadServiceImpl) UploadVideo(ctx context.Context, p *domain.Principal, file FileUpload) (*domain.VideoAsset, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	body, contentType, err := checkFile(file, MaxVideoSize, allowedVideoTypes)
	if err != nil {
		return nil, err
	}

	key := s.videoKey()
	url, err := s.media.Put(ctx, key, contentType, body, file.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("video uploaded",
		slog.String("public_id", key),
		slog.Int64("size", file.Size))

	return &domain.VideoAsset{
		URL:      url,
		PublicID: key,
		Caption:  file.Caption,
		Format:   videoFormat(file.Filename, contentType),
	}, nil
}

// UploadImages implements UploadService.UploadImages
func (s *uploadServiceImpl) UploadImages(ctx context.Context, p *domain.Principal, files []FileUpload) ([]domain.ImageAsset, error) {
	if err := s.guard(p); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrEmptyFile
	}
	if len(files) > MaxImagesPerUpload {
		return nil, ErrTooManyFiles
	}

	bodies := make([]io.Reader, len(files))
	types := make([]string, len(files))
	for i, f := range files {
		body, contentType, err := checkFile(f, MaxImageSize, allowedImageTypes)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", i+1, err)
		}
		bodies[i], types[i] = body, contentType
	}

	out := make([]domain.ImageAsset, 0, len(files))
	for i, f := range files {
		img, err := s.storeImage(ctx, f, bodies[i], types[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *img)
	}
	return out, nil
}

// Delete implements UploadService.Delete
func (s *uploadServiceImpl) Delete(ctx context.Context, p *domain.Principal, publicID string) error {
	if err := s.guard(p); err != nil {
		return err
	}
	if err := checkPublicID(publicID); err != nil {
		return err
	}

	if err := s.media.Delete(ctx, publicID); err != nil {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("media deleted",
		slog.String("public_id", publicID),
		slog.String("deleted_by", p.ID.String()))
	return nil
}

// Transform implements UploadService.Transform
func (s *uploadServiceImpl) Transform(ctx context.Context, p *domain.Principal, publicID string, size Size) (string, error) {
	if err := s.guard(p); err != nil {
		return "", err
	}
	if err := checkPublicID(publicID); err != nil {
		return "", err
	}
	if size.Width <= 0 {
		size.Width = DefaultTransformSize.Width
	}
	if size.Height <= 0 {
		size.Height = DefaultTransformSize.Height
	}
	return s.media.DerivedURL(publicID, size.Width, size.Height), nil
}

// checkPublicID only accepts keys inside the upload folders.
func checkPublicID(publicID string) error {
	clean := path.Clean(publicID)
	if clean != publicID ||
		!(strings.HasPrefix(publicID, ImageFolder+"/") || strings.HasPrefix(publicID, VideoFolder+"/")) {
		return domain.NewValidationError("publicId", "is not a known media id", nil)
	}
	return nil
}

// checkFile validates size and type. The returned reader yields the full
// content, including the bytes consumed for sniffing.
func checkFile(file FileUpload, maxSize int64, allowed map[string]bool) (io.Reader, string, error) {
	if file.Content == nil || file.Size <= 0 {
		return nil, "", ErrEmptyFile
	}
	if file.Size > maxSize {
		return nil, "", fmt.Errorf("%w: limit is %d MB", ErrFileTooLarge, maxSize>>20)
	}

	declared := normalizeContentType(file.ContentType)
	if !allowed[declared] {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedMediaType, declared)
	}

	br := bufio.NewReaderSize(file.Content, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, "", fmt.Errorf("failed to read upload: %w", err)
	}
	if len(head) == 0 {
		return nil, "", ErrEmptyFile
	}

	sniffed := normalizeContentType(http.DetectContentType(head))
	if sniffed != "application/octet-stream" && !allowed[sniffed] {
		return nil, "", fmt.Errorf("%w: content looks like %s", ErrUnsupportedMediaType, sniffed)
	}

	return br, declared, nil
}

func normalizeContentType(ct string) string {
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(ct))
	}
	return mediaType
}

func videoFormat(filename, contentType string) string {
	if ext := strings.TrimPrefix(strings.ToLower(path.Ext(filename)), "."); ext != "" {
		return ext
	}
	switch contentType {
	case "video/quicktime":
		return "mov"
	case "video/x-msvideo":
		return "avi"
	case "video/x-matroska":
		return "mkv"
	}
	return strings.TrimPrefix(contentType, "video/")
}
