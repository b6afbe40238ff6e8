package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lrstanley/go-ytdlp"

	"github.com/ytget/yt-downloader-api/internal/model"
)

// Timeout constants
const (
	DefaultInfoTimeout      = 60 * time.Second
	DefaultProgressInterval = 500 * time.Millisecond
)

// YTDLPService is the extraction service backed by the yt-dlp executable
type YTDLPService struct {
	executable       string
	timeout          time.Duration
	progressInterval time.Duration
}

// NewYTDLPService creates a new extraction service. An empty executable means
// yt-dlp is looked up by go-ytdlp (cache dir or PATH).
func NewYTDLPService(executable string) *YTDLPService {
	return &YTDLPService{
		executable:       executable,
		timeout:          DefaultInfoTimeout,
		progressInterval: DefaultProgressInterval,
	}
}

// SetTimeout sets the timeout for metadata-only extraction
func (y *YTDLPService) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// Install downloads a yt-dlp release into the go-ytdlp cache when none is available
func (y *YTDLPService) Install(ctx context.Context) error {
	resolved, err := ytdlp.Install(ctx, nil)
	if err != nil {
		return fmt.Errorf("install yt-dlp: %w", err)
	}
	slog.Info("yt-dlp available", "executable", resolved.Executable, "version", resolved.Version)
	return nil
}

func (y *YTDLPService) command() *ytdlp.Command {
	cmd := ytdlp.New().NoPlaylist().NoWarnings()
	if y.executable != "" {
		cmd = cmd.SetExecutable(y.executable)
	}
	return cmd
}

// ExtractInfo runs yt-dlp in metadata-only mode and returns the title,
// thumbnail and the available renditions in yt-dlp's order.
func (y *YTDLPService) ExtractInfo(ctx context.Context, url string) (*model.MediaInfo, error) {
	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	result, err := y.command().
		SkipDownload().
		DumpSingleJSON().
		Run(ctx, url)
	if err != nil {
		return nil, &model.ExtractionError{URL: url, Err: err}
	}

	info, err := parseInfoJSON([]byte(result.Stdout))
	if err != nil {
		return nil, &model.ExtractionError{URL: url, Err: err}
	}
	return info, nil
}

// Download runs extraction, download and merge for a single request. onProgress
// is invoked from yt-dlp's progress reports while the transfer is running.
func (y *YTDLPService) Download(ctx context.Context, req model.DownloadRequest, onProgress func(model.ProgressEvent)) error {
	cmd := y.command().
		Format(req.Selector).
		Output(req.OutputPath).
		ForceOverwrites()
	if req.MergeFormat != "" {
		cmd = cmd.MergeOutputFormat(req.MergeFormat)
	}

	if onProgress != nil {
		cmd = cmd.ProgressFunc(y.progressInterval, func(update ytdlp.ProgressUpdate) {
			onProgress(progressEvent(update))
		})
	}

	if _, err := cmd.Run(ctx, req.URL); err != nil {
		return fmt.Errorf("yt-dlp download %s: %w", req.URL, err)
	}
	return nil
}

// progressEvent converts a go-ytdlp update; go-ytdlp already folds the size
// estimate into TotalBytes when the exact size is unknown.
func progressEvent(update ytdlp.ProgressUpdate) model.ProgressEvent {
	return model.ProgressEvent{
		Status:          string(update.Status),
		DownloadedBytes: int64(update.DownloadedBytes),
		TotalBytes:      int64(update.TotalBytes),
	}
}

type infoJSON struct {
	Title     string       `json:"title"`
	Thumbnail string       `json:"thumbnail"`
	Formats   []formatJSON `json:"formats"`
}

type formatJSON struct {
	FormatID   string   `json:"format_id"`
	Ext        string   `json:"ext"`
	VCodec     *string  `json:"vcodec"`
	ACodec     *string  `json:"acodec"`
	FormatNote *string  `json:"format_note"`
	ABR        *float64 `json:"abr"`
}

// parseInfoJSON parses the single JSON document printed by --dump-single-json
func parseInfoJSON(data []byte) (*model.MediaInfo, error) {
	var raw infoJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse yt-dlp output: %w", err)
	}

	info := &model.MediaInfo{
		Title:      raw.Title,
		Thumbnail:  raw.Thumbnail,
		Renditions: make([]model.Rendition, 0, len(raw.Formats)),
	}
	for _, f := range raw.Formats {
		info.Renditions = append(info.Renditions, model.Rendition{
			FormatID:   f.FormatID,
			Ext:        f.Ext,
			VCodec:     deref(f.VCodec),
			ACodec:     deref(f.ACodec),
			FormatNote: deref(f.FormatNote),
			ABR:        derefFloat(f.ABR),
		})
	}
	return info, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
