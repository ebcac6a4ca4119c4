package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
	"github.com/zahid-akhtar7979/wildlife-api/internal/mocks"
	"github.com/zahid-akhtar7979/wildlife-api/internal/service"
)

type formPart struct {
	field    string
	filename string
	content  []byte
}

func multipartRequest(t *testing.T, target string, parts []formPart, values map[string]string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		fw, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = fw.Write(p.content)
		require.NoError(t, err)
	}
	for k, v := range values {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return asPrincipal(req, contributorPrincipal)
}

func newUploadHandler() (*UploadHandler, *mocks.MockUploadService) {
	svc := &mocks.MockUploadService{}
	return NewUploadHandler(svc, nil), svc
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadHandler_UploadImage(t *testing.T) {
	t.Parallel()

	for _, field := range []string{"file", "image"} {
		t.Run("field "+field, func(t *testing.T) {
			h, svc := newUploadHandler()
			asset := &domain.ImageAsset{
				URL:      "https://media.wildlife.test/wildlife-images/wildlife_1_abc.png",
				PublicID: "wildlife-images/wildlife_1_abc",
				Caption:  "Lioness at dusk",
			}
			svc.On("UploadImage", mock.Anything, contributorPrincipal, "lioness.png").Return(asset, nil).Once()

			req := multipartRequest(t, "/api/upload/image",
				[]formPart{{field: field, filename: "lioness.png", content: pngHeader}},
				map[string]string{"caption": "Lioness at dusk"})
			rec := httptest.NewRecorder()
			h.UploadImage(rec, req)

			require.Equal(t, http.StatusOK, rec.Code)
			var got domain.ImageAsset
			decodeData(t, rec, &got)
			assert.Equal(t, asset.PublicID, got.PublicID)
			svc.AssertExpectations(t)
		})
	}
}

func TestUploadHandler_UploadImage_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file part", func(t *testing.T) {
		h, svc := newUploadHandler()
		req := multipartRequest(t, "/api/upload/image", nil, map[string]string{"caption": "nothing"})
		rec := httptest.NewRecorder()
		h.UploadImage(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UploadImage", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not multipart", func(t *testing.T) {
		h, _ := newUploadHandler()
		req := asPrincipal(newJSONRequest(t, http.MethodPost, "/api/upload/image", map[string]string{"a": "b"}), contributorPrincipal)
		rec := httptest.NewRecorder()
		h.UploadImage(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "multipart/form-data")
	})

	t.Run("unsupported type from service", func(t *testing.T) {
		h, svc := newUploadHandler()
		svc.On("UploadImage", mock.Anything, contributorPrincipal, "notes.txt").
			Return(nil, service.ErrUnsupportedMediaType).Once()

		req := multipartRequest(t, "/api/upload/image",
			[]formPart{{field: "file", filename: "notes.txt", content: []byte("plain text")}}, nil)
		rec := httptest.NewRecorder()
		h.UploadImage(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Unsupported file type", decodeError(t, rec).Error)
	})

	t.Run("upstream failure", func(t *testing.T) {
		h, svc := newUploadHandler()
		svc.On("UploadImage", mock.Anything, contributorPrincipal, "rhino.png").
			Return(nil, service.ErrUpstream).Once()

		req := multipartRequest(t, "/api/upload/image",
			[]formPart{{field: "file", filename: "rhino.png", content: pngHeader}}, nil)
		rec := httptest.NewRecorder()
		h.UploadImage(rec, req)

		assert.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("media not configured", func(t *testing.T) {
		h, svc := newUploadHandler()
		svc.On("UploadImage", mock.Anything, contributorPrincipal, "rhino.png").
			Return(nil, service.ErrMediaDisabled).Once()

		req := multipartRequest(t, "/api/upload/image",
			[]formPart{{field: "file", filename: "rhino.png", content: pngHeader}}, nil)
		rec := httptest.NewRecorder()
		h.UploadImage(rec, req)

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestUploadHandler_UploadVideo(t *testing.T) {
	t.Parallel()

	h, svc := newUploadHandler()
	svc.On("UploadVideo", mock.Anything, contributorPrincipal, "migration.mp4").
		Return(&domain.VideoAsset{URL: "https://media.wildlife.test/v.mp4", PublicID: "wildlife-videos/wildlife_video_1_x", Format: "mp4"}, nil).Once()

	req := multipartRequest(t, "/api/upload/video",
		[]formPart{{field: "video", filename: "migration.mp4", content: []byte("\x00\x00\x00\x18ftypmp42")}}, nil)
	rec := httptest.NewRecorder()
	h.UploadVideo(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestUploadHandler_UploadImages(t *testing.T) {
	t.Parallel()

	t.Run("batch", func(t *testing.T) {
		h, svc := newUploadHandler()
		svc.On("UploadImages", mock.Anything, contributorPrincipal, 2).Return([]domain.ImageAsset{
			{URL: "https://media.wildlife.test/1.png"}, {URL: "https://media.wildlife.test/2.png"},
		}, nil).Once()

		req := multipartRequest(t, "/api/upload/multiple-images", []formPart{
			{field: "files", filename: "a.png", content: pngHeader},
			{field: "files", filename: "b.png", content: pngHeader},
		}, nil)
		rec := httptest.NewRecorder()
		h.UploadImages(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var data struct {
			Images []domain.ImageAsset `json:"images"`
			Count  int                 `json:"count"`
		}
		decodeData(t, rec, &data)
		assert.Equal(t, 2, data.Count)
		assert.Len(t, data.Images, 2)
	})

	t.Run("too many files", func(t *testing.T) {
		h, svc := newUploadHandler()
		parts := make([]formPart, service.MaxImagesPerUpload+1)
		for i := range parts {
			parts[i] = formPart{field: "images", filename: "p.png", content: pngHeader}
		}

		rec := httptest.NewRecorder()
		h.UploadImages(rec, multipartRequest(t, "/api/upload/multiple-images", parts, nil))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Too many files", decodeError(t, rec).Error)
		svc.AssertNotCalled(t, "UploadImages", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no files", func(t *testing.T) {
		h, _ := newUploadHandler()
		rec := httptest.NewRecorder()
		h.UploadImages(rec, multipartRequest(t, "/api/upload/multiple-images", nil, map[string]string{"x": "y"}))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUploadHandler_Delete(t *testing.T) {
	t.Parallel()

	h, svc := newUploadHandler()
	svc.On("Delete", mock.Anything, contributorPrincipal, "wildlife-images/wildlife_1_abc").Return(nil).Once()

	req := httptest.NewRequest(http.MethodDelete, "/api/upload/delete/x", nil)
	req = withURLParam(asPrincipal(req, contributorPrincipal), "publicId", "wildlife-images%2Fwildlife_1_abc")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "File deleted successfully")
	svc.AssertExpectations(t)
}

func TestUploadHandler_Transform(t *testing.T) {
	t.Parallel()

	publicID := "wildlife-images/wildlife_1_abc"

	tests := []struct {
		name       string
		body       string
		wantSize   service.Size
		wantStatus int
	}{
		{name: "defaults without body", body: "", wantSize: service.DefaultTransformSize, wantStatus: http.StatusOK},
		{name: "explicit size", body: `{"width":300,"height":200}`, wantSize: service.Size{Width: 300, Height: 200}, wantStatus: http.StatusOK},
		{name: "width only", body: `{"width":1200}`, wantSize: service.Size{Width: 1200, Height: service.DefaultTransformSize.Height}, wantStatus: http.StatusOK},
		{name: "too wide", body: `{"width":9000}`, wantStatus: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h, svc := newUploadHandler()
			if tc.wantStatus == http.StatusOK {
				svc.On("Transform", mock.Anything, contributorPrincipal, publicID, tc.wantSize).
					Return("https://img.wildlife.test/derived.png", nil).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/upload/transform-image/x", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			req = withURLParam(asPrincipal(req, contributorPrincipal), "publicId", "wildlife-images%2Fwildlife_1_abc")
			rec := httptest.NewRecorder()
			h.Transform(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			if tc.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), "https://img.wildlife.test/derived.png")
			}
			svc.AssertExpectations(t)
		})
	}
}
