package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/ytget/yt-downloader-api/internal/download"
	"github.com/ytget/yt-downloader-api/internal/model"
	"github.com/ytget/yt-downloader-api/internal/platform"
)

// Resolver resolves a media URL into metadata and curated formats
type Resolver interface {
	Resolve(ctx context.Context, url string) (*model.MediaMetadata, error)
}

// RequestObserver records served requests
type RequestObserver interface {
	ObserveRequest(route string, code int, seconds float64)
}

// Options configures optional parts of the server
type Options struct {
	// Metrics is mounted on GET /metrics when set
	Metrics http.Handler

	// Observer is notified about every served request when set
	Observer RequestObserver
}

// Server routes HTTP requests to the resolver and the download service
type Server struct {
	resolver  Resolver
	downloads download.Downloader
	observer  RequestObserver
	mux       *http.ServeMux
}

type infoMsg struct {
	Title     string         `json:"title"`
	Thumbnail string         `json:"thumbnail"`
	Formats   []model.Format `json:"formats"`
}

type jobScheduledMsg struct {
	JobID string `json:"job_id"`
}

type jobStatusMsg struct {
	Status   model.JobStatus `json:"status"`
	Progress *int            `json:"progress,omitempty"`
	File     string          `json:"file,omitempty"`
}

// New creates the server and registers its routes
func New(resolver Resolver, downloads download.Downloader, opts Options) *Server {
	s := &Server{
		resolver:  resolver,
		downloads: downloads,
		observer:  opts.Observer,
		mux:       http.NewServeMux(),
	}

	s.handle("GET /info", s.handleInfo)
	s.handle("POST /download", s.handleDownload)
	s.handle("GET /status/{job_id}", s.handleStatus)
	s.handle("GET /file/{filename}", s.handleFile)
	s.handle("GET /history", s.handleHistory)
	s.handle("GET /healthz", s.handleHealth)
	if opts.Metrics != nil {
		s.mux.Handle("GET /metrics", opts.Metrics)
	}

	return s
}

// Handler returns the root handler with CORS applied
func (s *Server) Handler() http.Handler {
	return cors.AllowAll().Handler(s.mux)
}

// handle registers fn on pattern with request logging and metrics
func (s *Server) handle(pattern string, fn http.HandlerFunc) {
	s.mux.Handle(pattern, s.instrument(pattern, fn))
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		slog.Info("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"route", route,
			"status", rec.status,
			"duration", elapsed,
		)
		if s.observer != nil {
			s.observer.ObserveRequest(route, rec.status, elapsed.Seconds())
		}
	})
}

// handleInfo resolves metadata for the url query parameter.
//
// e.g:
// curl "http://localhost:8000/info?url=https://www.youtube.com/watch?v=abc"
//
// Response:
//   - Success: {title: <title>, thumbnail: <url>, formats: [{id: <id>, label: <label>}]}
//   - Failure: {code: <code>, message: <message>}
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")

	meta, err := s.resolver.Resolve(r.Context(), url)
	if err != nil {
		slog.Warn("metadata request failed", "url", url, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, infoMsg{
		Title:     meta.Title,
		Thumbnail: meta.Thumbnail,
		Formats:   meta.Formats,
	}, http.StatusOK)
}

// handleDownload enqueues a download of format_id for url. Parameters are read
// from the query string or a form body.
//
// Response:
//   - Success: {job_id: <id>}
//   - Failure: {code: <code>, message: <message>}
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	url := r.FormValue("url")
	formatID := r.FormValue("format_id")

	id, err := s.downloads.Enqueue(url, formatID)
	if err != nil {
		slog.Warn("download request failed", "url", url, "format_id", formatID, "error", err)
		writeError(w, err)
		return
	}

	writeJSON(w, jobScheduledMsg{JobID: id}, http.StatusOK)
}

// handleStatus reports a job's status. Unknown ids are answered with
// {status: "not_found"} rather than an error status code.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	job := s.downloads.Status(r.PathValue("job_id"))

	if job.Status == model.JobStatusNotFound {
		writeJSON(w, jobStatusMsg{Status: job.Status}, http.StatusOK)
		return
	}

	progress := job.Progress
	msg := jobStatusMsg{
		Status:   job.Status,
		Progress: &progress,
	}
	if job.Status == model.JobStatusDone {
		msg.File = job.File
	}
	writeJSON(w, msg, http.StatusOK)
}

// handleFile streams a file from the download directory. Any existing entry
// is served; ownership by a completed job is not checked. Names that leave the
// directory or point at partial downloads answer 404 without touching the disk.
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")
	if !platform.IsServableName(name) {
		writeJSONError(w, CodeNotFound, model.ErrFileNotFound.Error()+": "+name, http.StatusNotFound)
		return
	}
	path := platform.DownloadPath(s.downloads.DownloadDirectory(), name)

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		writeJSONError(w, CodeNotFound, model.ErrFileNotFound.Error()+": "+name, http.StatusNotFound)
		return
	}

	http.ServeFile(w, r, path)
}

// handleHistory lists completed filenames in completion order
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.downloads.History(), http.StatusOK)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
