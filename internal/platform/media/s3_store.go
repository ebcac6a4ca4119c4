// Package media stores uploaded images and videos in an S3-compatible bucket
// (AWS S3, Cloudflare R2, MinIO) and builds their public URLs.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/zahid-akhtar7979/wildlife-api/internal/config"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// ErrNotConfigured is returned by NewS3Store when no bucket is configured.
var ErrNotConfigured = errors.New("media storage is not configured")

// objectAPI is the subset of the S3 client used by S3Store.
type objectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements store.MediaStore on top of an S3 bucket.
type S3Store struct {
	client        objectAPI
	bucket        string
	publicBase    string
	transformBase string
	logger        *slog.Logger
}

var _ store.MediaStore = (*S3Store)(nil)

// NewS3Store builds an S3 client from cfg. Static credentials are used when
// both keys are set; otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, cfg config.MediaConfig, logger *slog.Logger) (*S3Store, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 configuration: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return newS3Store(client, cfg, logger), nil
}

func newS3Store(client objectAPI, cfg config.MediaConfig, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		publicBase:    strings.TrimRight(cfg.PublicBaseURL, "/"),
		transformBase: strings.TrimRight(cfg.TransformBaseURL, "/"),
		logger:        logger.With(slog.String("component", "media_store")),
	}
}

// Put implements store.MediaStore.Put
func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		log.Error("failed to upload object",
			slog.String("key", key),
			slog.Int64("size", size),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	log.Debug("object uploaded", slog.String("key", key), slog.Int64("size", size))
	return s.URL(key), nil
}

// Delete implements store.MediaStore.Delete. S3 reports success for missing
// keys, so deleting twice is not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error("failed to delete object", slog.String("key", key), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}

	log.Debug("object deleted", slog.String("key", key))
	return nil
}

// URL implements store.MediaStore.URL
func (s *S3Store) URL(key string) string {
	return s.publicBase + "/" + escapeKey(key)
}

// DerivedURL implements store.MediaStore.DerivedURL. Without a transform
// endpoint the original object URL is returned.
func (s *S3Store) DerivedURL(key string, width, height int) string {
	if s.transformBase == "" || width <= 0 || height <= 0 {
		return s.URL(key)
	}
	return fmt.Sprintf("%s/w_%d,h_%d,c_fill/%s", s.transformBase, width, height, escapeKey(key))
}

// escapeKey escapes each path segment of key but keeps the separators.
func escapeKey(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
