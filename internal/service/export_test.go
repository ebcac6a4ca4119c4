package service

import (
	"time"

	"github.com/zahid-akhtar7979/wildlife-api/internal/store"
)

// NewUploadServiceForTest exposes the clock and id source of the upload service.
func NewUploadServiceForTest(media store.MediaStore, timeFunc func() time.Time, rnd func() string) UploadService {
	return newUploadService(media, nil, timeFunc, rnd)
}
