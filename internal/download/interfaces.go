package download

import (
	"context"

	"github.com/ytget/yt-downloader-api/internal/model"
)

// Fetcher is the download side of the extraction service: it extracts,
// downloads and merges one rendition, reporting progress through onProgress.
type Fetcher interface {
	Download(ctx context.Context, req model.DownloadRequest, onProgress func(model.ProgressEvent)) error
}

// Observer is notified about job lifecycle transitions
type Observer interface {
	JobEnqueued(job model.Job)
	JobFinished(job model.Job)
}

// Downloader defines the interface for the download service.
type Downloader interface {
	// Enqueue registers a job and starts its background work, returning the job id immediately
	Enqueue(url, formatID string) (string, error)

	// Status returns the job, or the not_found sentinel for unknown ids
	Status(id string) model.Job

	// History returns the completed filenames in completion order
	History() []string

	// DownloadDirectory returns the directory output files are written to
	DownloadDirectory() string
}

type nopObserver struct{}

func (nopObserver) JobEnqueued(model.Job) {}
func (nopObserver) JobFinished(model.Job) {}
