package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/zahid-akhtar7979/wildlife-api/internal/api/shared"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/platform/logger"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
)

const (
	// multipartMemory is the part of a multipart body kept in memory; the
	// rest spills to temporary files.
	multipartMemory = 32 << 20
	// multipartOverhead allows for form fields and part headers on top of
	// the file size limits.
	multipartOverhead = 1 << 20
)

// UploadHandler serves /upload.
type UploadHandler struct {
	uploads service.UploadService
	logger  *slog.Logger
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploads service.UploadService, logger *slog.Logger) *UploadHandler {
	if uploads == nil {
		// ALLOW-PANIC: constructor enforcing required dependency
		panic("uploads cannot be nil for UploadHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UploadHandler{
		uploads: uploads,
		logger:  logger.With(slog.String("component", "upload_handler")),
	}
}

// UploadImage handles POST /upload/image with a multipart "file" (or
// "image") part and optional caption and alt fields.
func (h *UploadHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, service.MaxImageSize+multipartOverhead) {
		return
	}
	file, closeFn, err := formFile(r, "file", "image")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	defer closeFn()

	asset, err := h.uploads.UploadImage(r.Context(), principalFrom(r), file)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("image uploaded",
		slog.String("public_id", asset.PublicID))
	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{Success: true, Data: asset})
}

// UploadVideo handles POST /upload/video with a multipart "file" (or
// "video") part and an optional caption.
func (h *UploadHandler) UploadVideo(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r, service.MaxVideoSize+multipartOverhead) {
		return
	}
	file, closeFn, err := formFile(r, "file", "video")
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	defer closeFn()

	asset, err := h.uploads.UploadVideo(r.Context(), principalFrom(r), file)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("video uploaded",
		slog.String("public_id", asset.PublicID))
	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{Success: true, Data: asset})
}

// UploadImages handles POST /upload/multiple-images with up to
// service.MaxImagesPerUpload "files" (or "images") parts.
func (h *UploadHandler) UploadImages(w http.ResponseWriter, r *http.Request) {
	limit := int64(service.MaxImagesPerUpload)*service.MaxImageSize + multipartOverhead
	if !parseMultipart(w, r, limit) {
		return
	}

	headers := r.MultipartForm.File["files"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["images"]
	}
	if len(headers) == 0 {
		HandleAPIError(w, r, domain.NewValidationError("files", "at least one file is required", service.ErrEmptyFile))
		return
	}
	if len(headers) > service.MaxImagesPerUpload {
		HandleAPIError(w, r, fmt.Errorf("%w: got %d, at most %d allowed",
			service.ErrTooManyFiles, len(headers), service.MaxImagesPerUpload))
		return
	}

	files := make([]service.FileUpload, 0, len(headers))
	for _, hdr := range headers {
		f, err := hdr.Open()
		if err != nil {
			HandleAPIError(w, r, fmt.Errorf("failed to open uploaded file: %w", err))
			return
		}
		defer f.Close()
		files = append(files, fileUpload(hdr, f, "", ""))
	}

	assets, err := h.uploads.UploadImages(r.Context(), principalFrom(r), files)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{
		Success: true,
		Data:    map[string]interface{}{"images": assets, "count": len(assets)},
	})
}

// Delete handles DELETE /upload/delete/{publicId}. The public ID contains a
// folder separator and must be URL-escaped.
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	publicID, ok := pathPublicID(w, r)
	if !ok {
		return
	}

	if err := h.uploads.Delete(r.Context(), principalFrom(r), publicID); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("media deleted",
		slog.String("public_id", publicID))
	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{Success: true, Message: "File deleted successfully"})
}

// Transform handles POST /upload/transform-image/{publicId} with a JSON
// {width, height} body. Zero dimensions take the default size.
func (h *UploadHandler) Transform(w http.ResponseWriter, r *http.Request) {
	publicID, ok := pathPublicID(w, r)
	if !ok {
		return
	}

	var req TransformRequest
	if r.ContentLength != 0 {
		if !decodeAndValidate(w, r, &req) {
			return
		}
	}
	size := service.DefaultTransformSize
	if req.Width > 0 {
		size.Width = req.Width
	}
	if req.Height > 0 {
		size.Height = req.Height
	}

	u, err := h.uploads.Transform(r.Context(), principalFrom(r), publicID, size)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, Envelope{
		Success: true,
		Data: map[string]interface{}{
			"url":      u,
			"publicId": publicID,
			"width":    size.Width,
			"height":   size.Height,
		},
	})
}

// parseMultipart bounds the body to limit bytes and parses it, writing an
// error response on failure.
func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) bool {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		HandleAPIError(w, r, fmt.Errorf("%w: request exceeds %d bytes", service.ErrFileTooLarge, limit))
	case errors.Is(err, http.ErrNotMultipart), errors.Is(err, http.ErrMissingBoundary):
		HandleAPIError(w, r, domain.NewValidationError("body", "must be multipart/form-data", nil))
	default:
		HandleAPIError(w, r, domain.NewValidationError("body", "is not a valid multipart form", nil))
	}
	return false
}

// formFile returns the first file part found under one of names.
func formFile(r *http.Request, names ...string) (service.FileUpload, func(), error) {
	for _, name := range names {
		f, hdr, err := r.FormFile(name)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			return service.FileUpload{}, nil, fmt.Errorf("failed to read uploaded file: %w", err)
		}
		upload := fileUpload(hdr, f, r.FormValue("caption"), r.FormValue("alt"))
		return upload, func() { _ = f.Close() }, nil
	}
	return service.FileUpload{}, nil, domain.NewValidationError(names[0], "is required", service.ErrEmptyFile)
}

func fileUpload(hdr *multipart.FileHeader, content io.Reader, caption, alt string) service.FileUpload {
	return service.FileUpload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Size:        hdr.Size,
		Content:     content,
		Caption:     strings.TrimSpace(caption),
		Alt:         strings.TrimSpace(alt),
	}
}

func pathPublicID(w http.ResponseWriter, r *http.Request) (string, bool) {
	publicID, err := url.PathUnescape(chi.URLParam(r, "publicId"))
	if err != nil || strings.TrimSpace(publicID) == "" {
		HandleAPIError(w, r, domain.NewValidationError("publicId", "is required", nil))
		return "", false
	}
	return publicID, true
}
