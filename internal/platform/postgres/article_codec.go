package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
)

// Images and videos are stored as JSONB arrays and tags as text[], read
// back through array_to_json. The conversions live here so that the rest of
// the application only ever sees typed slices.

func encodeAssets[T any](assets []T) ([]byte, error) {
	if assets == nil {
		assets = []T{}
	}
	b, err := json.Marshal(assets)
	if err != nil {
		return nil, fmt.Errorf("failed to encode media assets: %w", err)
	}
	return b, nil
}

func decodeAssets[T any](raw []byte) ([]T, error) {
	out := []T{}
	if len(raw) == 0 || string(raw) == "null" {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode media assets: %w", err)
	}
	return out, nil
}

func decodeTags(raw []byte) ([]string, error) {
	return decodeAssets[string](raw)
}

func encodeImages(images []domain.ImageAsset) ([]byte, error) { return encodeAssets(images) }
func encodeVideos(videos []domain.VideoAsset) ([]byte, error) { return encodeAssets(videos) }

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}
