package model

// MediaKind tells whether a format carries video or is audio only
type MediaKind string

const (
	MediaKindVideo MediaKind = "video"
	MediaKindAudio MediaKind = "audio"
)

// NoCodec is the codec value the extraction service reports for an absent stream
const NoCodec = "none"

// Rendition is one encoded version of a media source as reported by the
// extraction service. Fields the service did not report are left empty.
type Rendition struct {
	FormatID   string
	Ext        string
	VCodec     string
	ACodec     string
	FormatNote string
	ABR        float64 // average audio bitrate in kbps, 0 if unknown
}

// HasVideo reports whether the rendition carries a video stream.
// An unreported codec counts as video.
func (r Rendition) HasVideo() bool {
	return r.VCodec != NoCodec
}

// MediaInfo is the metadata-only extraction result for a URL
type MediaInfo struct {
	Title      string
	Thumbnail  string
	Renditions []Rendition
}

// Format is a curated, labeled rendition returned to clients
type Format struct {
	ID      string    `json:"id"`
	Label   string    `json:"label"`
	Kind    MediaKind `json:"-"`
	Ext     string    `json:"-"`
	Quality string    `json:"-"` // format note for video, bitrate for audio
}

// MediaMetadata is the resolved metadata for a URL
type MediaMetadata struct {
	Title     string   `json:"title"`
	Thumbnail string   `json:"thumbnail"`
	Formats   []Format `json:"formats"`
}
