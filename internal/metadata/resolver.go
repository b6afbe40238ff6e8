package metadata

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/ytget/yt-downloader-api/internal/model"
)

// DefaultMaxFormats is the number of formats returned per query
const DefaultMaxFormats = 8

// Containers accepted per media kind
var (
	VideoContainers = []string{"mp4", "webm"}
	AudioContainers = []string{"m4a", "webm"}
)

// Label templates
const (
	VideoLabelFormat = "🎥 Video • %s %s"
	AudioLabelFormat = "🎵 Audio • %s kbps %s"
)

// Resolver implements the metadata query on top of an Extractor
type Resolver struct {
	extractor  Extractor
	maxFormats int
}

// NewResolver creates a resolver returning at most maxFormats formats.
// A non-positive maxFormats falls back to DefaultMaxFormats.
func NewResolver(extractor Extractor, maxFormats int) *Resolver {
	if maxFormats <= 0 {
		maxFormats = DefaultMaxFormats
	}
	return &Resolver{
		extractor:  extractor,
		maxFormats: maxFormats,
	}
}

// Resolve fetches metadata for url and returns its title, thumbnail and the
// curated format list. Extraction failures are returned as *model.ExtractionError.
func (r *Resolver) Resolve(ctx context.Context, url string) (*model.MediaMetadata, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("url is required: %w", model.ErrInvalidRequest)
	}

	info, err := r.extractor.ExtractInfo(ctx, url)
	if err != nil {
		var extractErr *model.ExtractionError
		if errors.As(err, &extractErr) {
			return nil, err
		}
		return nil, &model.ExtractionError{URL: url, Err: err}
	}

	return &model.MediaMetadata{
		Title:     info.Title,
		Thumbnail: info.Thumbnail,
		Formats:   CurateFormats(info.Renditions, r.maxFormats),
	}, nil
}

type dedupKey struct {
	kind    model.MediaKind
	quality string
	ext     string
}

// CurateFormats classifies, deduplicates and labels renditions, keeping the
// first occurrence of every (kind, quality, container) and at most limit entries.
// Input order is preserved.
func CurateFormats(renditions []model.Rendition, limit int) []model.Format {
	formats := make([]model.Format, 0, min(len(renditions), limit))
	seen := make(map[dedupKey]struct{})

	for _, r := range renditions {
		format, ok := classify(r)
		if !ok {
			continue
		}

		key := dedupKey{kind: format.Kind, quality: format.Quality, ext: format.Ext}
		if _, exists := seen[key]; exists {
			continue
		}
		seen[key] = struct{}{}

		format.Label = Label(format)
		formats = append(formats, format)
	}

	if len(formats) > limit {
		formats = formats[:limit]
	}
	return formats
}

// classify maps a rendition to a video or audio format, or rejects it
func classify(r model.Rendition) (model.Format, bool) {
	if r.FormatID == "" {
		return model.Format{}, false
	}

	if r.HasVideo() {
		if !slices.Contains(VideoContainers, r.Ext) {
			return model.Format{}, false
		}
		return model.Format{
			ID:      r.FormatID,
			Kind:    model.MediaKindVideo,
			Ext:     r.Ext,
			Quality: r.FormatNote,
		}, true
	}

	if !slices.Contains(AudioContainers, r.Ext) {
		return model.Format{}, false
	}
	return model.Format{
		ID:      r.FormatID,
		Kind:    model.MediaKindAudio,
		Ext:     r.Ext,
		Quality: formatBitrate(r.ABR),
	}, true
}

// Label returns the display label of a classified format
func Label(f model.Format) string {
	if f.Kind == model.MediaKindAudio {
		return fmt.Sprintf(AudioLabelFormat, f.Quality, strings.ToUpper(f.Ext))
	}
	return fmt.Sprintf(VideoLabelFormat, f.Quality, strings.ToUpper(f.Ext))
}

// formatBitrate renders an audio bitrate; unknown bitrates render empty
func formatBitrate(abr float64) string {
	if abr <= 0 {
		return ""
	}
	return strconv.FormatFloat(abr, 'f', -1, 64)
}
