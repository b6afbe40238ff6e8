package metadata

import (
	"context"

	"github.com/ytget/yt-downloader-api/internal/model"
)

// Extractor is the metadata-only side of the extraction service
type Extractor interface {
	ExtractInfo(ctx context.Context, url string) (*model.MediaInfo, error)
}
