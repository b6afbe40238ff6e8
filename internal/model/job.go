package model

import (
	"time"
)

// Job represents a single asynchronous download request
type Job struct {
	ID         string
	URL        string
	FormatID   string
	Status     JobStatus
	Progress   int       // 0 to 100
	File       string    // output filename, set only when Status is done
	Result     JobResult // outcome of the background work, zero while downloading
	CreatedAt  time.Time // when the job was enqueued
	FinishedAt time.Time // when the job reached a terminal state
}

// JobResult is the typed outcome of a job's background work.
// Err is nil on success.
type JobResult struct {
	Err error
}

// Reason returns the failure cause as text, or "" on success
func (r JobResult) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// NewJob creates a freshly enqueued job in the downloading state with zero progress
func NewJob(id, url, formatID string) *Job {
	return &Job{
		ID:        id,
		URL:       url,
		FormatID:  formatID,
		Status:    JobStatusDownloading,
		Progress:  0,
		CreatedAt: time.Now(),
	}
}

// NotFoundJob returns the sentinel reported for unknown job identifiers
func NotFoundJob(id string) Job {
	return Job{ID: id, Status: JobStatusNotFound}
}

// Elapsed returns how long the job ran, or has been running so far
func (j *Job) Elapsed() time.Duration {
	if j.CreatedAt.IsZero() {
		return 0
	}
	if j.FinishedAt.IsZero() {
		return time.Since(j.CreatedAt)
	}
	return j.FinishedAt.Sub(j.CreatedAt)
}
