package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ytget/yt-downloader-api/internal/model"
	"github.com/ytget/yt-downloader-api/internal/platform"
)

// Download defaults
const (
	DefaultContainer  = "mp4"
	BestAudioFallback = "+bestaudio/best"
)

// ErrServiceClosed is returned by Enqueue after Shutdown was called
var ErrServiceClosed = errors.New("download service closed")

// jobHandle lets the service wait for or cancel one background unit of work
type jobHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Service handles download jobs
type Service struct {
	registry    *Registry
	fetcher     Fetcher
	observer    Observer
	downloadDir string
	container   string
	newID       func() string

	ctx       context.Context
	cancelAll context.CancelFunc

	handlesMutex sync.Mutex
	handles      map[string]*jobHandle
	closed       bool
	wg           sync.WaitGroup
}

// NewService creates a new download service writing into downloadDir
func NewService(fetcher Fetcher, registry *Registry, downloadDir, container string) *Service {
	if container == "" {
		container = DefaultContainer
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		registry:    registry,
		fetcher:     fetcher,
		observer:    nopObserver{},
		downloadDir: downloadDir,
		container:   container,
		newID:       generateJobID,
		ctx:         ctx,
		cancelAll:   cancel,
		handles:     make(map[string]*jobHandle),
	}
}

// SetObserver sets the observer notified about job lifecycle transitions
func (s *Service) SetObserver(observer Observer) {
	if observer == nil {
		observer = nopObserver{}
	}
	s.observer = observer
}

// DownloadDirectory returns the directory output files are written to
func (s *Service) DownloadDirectory() string {
	return s.downloadDir
}

// Enqueue registers a new job as downloading with zero progress and starts
// its background work. It returns without waiting for the download.
func (s *Service) Enqueue(url, formatID string) (string, error) {
	if strings.TrimSpace(url) == "" || strings.TrimSpace(formatID) == "" {
		return "", fmt.Errorf("url and format_id are required: %w", model.ErrInvalidRequest)
	}

	s.handlesMutex.Lock()
	defer s.handlesMutex.Unlock()

	if s.closed {
		return "", ErrServiceClosed
	}

	job := model.NewJob(s.newID(), url, formatID)
	if err := s.registry.Add(job); err != nil {
		return "", err
	}
	snapshot := *job

	ctx, cancel := context.WithCancel(s.ctx)
	handle := &jobHandle{cancel: cancel, done: make(chan struct{})}
	s.handles[snapshot.ID] = handle
	s.wg.Add(1)

	s.observer.JobEnqueued(snapshot)
	slog.Info("download job enqueued", "job_id", snapshot.ID, "url", url, "format_id", formatID)

	go s.runJob(ctx, snapshot, handle)

	return snapshot.ID, nil
}

// Status returns the job, or the not_found sentinel for unknown ids
func (s *Service) Status(id string) model.Job {
	job, exists := s.registry.Get(id)
	if !exists {
		return model.NotFoundJob(id)
	}
	return job
}

// History returns the completed filenames in completion order
func (s *Service) History() []string {
	return s.registry.History()
}

// Wait blocks until the job's background work finished or ctx is done
func (s *Service) Wait(ctx context.Context, id string) error {
	s.handlesMutex.Lock()
	handle, running := s.handles[id]
	s.handlesMutex.Unlock()

	if !running {
		if _, exists := s.registry.Get(id); !exists {
			return fmt.Errorf("wait %s: %w", id, model.ErrJobNotFound)
		}
		return nil
	}

	select {
	case <-handle.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Running returns the number of jobs whose background work has not finished
func (s *Service) Running() int {
	s.handlesMutex.Lock()
	defer s.handlesMutex.Unlock()
	return len(s.handles)
}

// Shutdown stops accepting jobs and waits for running ones. When ctx expires
// first, the remaining jobs are cancelled and end up in the error state.
func (s *Service) Shutdown(ctx context.Context) error {
	s.handlesMutex.Lock()
	s.closed = true
	s.handlesMutex.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.cancelAll()
		return nil
	case <-ctx.Done():
		s.cancelAll()
		<-done
		return ctx.Err()
	}
}

// runJob is the background unit of work of a single job
func (s *Service) runJob(ctx context.Context, job model.Job, handle *jobHandle) {
	defer func() {
		handle.cancel()
		close(handle.done)

		s.handlesMutex.Lock()
		delete(s.handles, job.ID)
		s.handlesMutex.Unlock()

		s.wg.Done()
	}()

	filename := platform.OutputFilename(job.ID, s.container)
	outputPath := platform.DownloadPath(s.downloadDir, filename)

	req := model.DownloadRequest{
		URL:         job.URL,
		Selector:    job.FormatID + BestAudioFallback,
		OutputPath:  outputPath,
		MergeFormat: s.container,
	}

	err := s.download(ctx, req, job.ID)
	if err == nil {
		_, err = platform.CheckOutputFile(outputPath)
	}

	if err != nil {
		finished, failErr := s.registry.Fail(job.ID, err)
		if failErr != nil {
			slog.Error("failed to record job failure", "job_id", job.ID, "error", failErr)
			return
		}
		slog.Warn("download job failed", "job_id", job.ID, "url", job.URL, "error", finished.Result.Reason())
		s.observer.JobFinished(finished)
		return
	}

	finished, err := s.registry.Complete(job.ID, filename)
	if err != nil {
		slog.Error("failed to record job completion", "job_id", job.ID, "error", err)
		return
	}
	slog.Info("download job done", "job_id", job.ID, "file", filename, "elapsed", finished.Elapsed())
	s.observer.JobFinished(finished)
}

// download invokes the fetcher, converting a panic into an error so a
// misbehaving extraction run cannot take the process down.
func (s *Service) download(ctx context.Context, req model.DownloadRequest, jobID string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("download panicked: %v", r)
		}
	}()

	return s.fetcher.Download(ctx, req, func(event model.ProgressEvent) {
		if event.Status != model.ProgressStatusDownloading {
			return
		}
		s.registry.SetProgress(jobID, ProgressPercent(event))
	})
}

// generateJobID generates a unique job ID
func generateJobID() string {
	return uuid.NewString()
}
