package download

import (
	"fmt"
	"sync"
	"time"

	"github.com/ytget/yt-downloader-api/internal/model"
)

// Registry is the in-memory job table plus the download history.
// Jobs are never removed; both the table and the history grow for the
// lifetime of the process.
type Registry struct {
	mu      sync.RWMutex
	jobs    map[string]*model.Job
	history []string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		jobs:    make(map[string]*model.Job),
		history: make([]string, 0),
	}
}

// Add registers a new job. Identifiers must be unique.
func (r *Registry) Add(job *model.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.jobs[job.ID]; exists {
		return fmt.Errorf("job already exists: %s", job.ID)
	}
	r.jobs[job.ID] = job
	return nil
}

// Get returns a copy of the job
func (r *Registry) Get(id string) (model.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, exists := r.jobs[id]
	if !exists {
		return model.Job{}, false
	}
	return *job, true
}

// SetProgress records a progress percentage for a downloading job.
// Lower values than the current one are ignored so polls never go backwards.
func (r *Registry) SetProgress(id string, percent int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[id]
	if !exists || !job.Status.IsActive() {
		return false
	}
	if percent <= job.Progress {
		return false
	}
	job.Progress = percent
	return true
}

// Complete marks the job done and appends its file to the history
func (r *Registry) Complete(id, file string) (model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[id]
	if !exists {
		return model.Job{}, fmt.Errorf("complete %s: %w", id, model.ErrJobNotFound)
	}
	job.Status = model.JobStatusDone
	job.Progress = 100
	job.File = file
	job.Result = model.JobResult{}
	job.FinishedAt = time.Now()
	r.history = append(r.history, file)
	return *job, nil
}

// Fail marks the job as failed and keeps the cause on the job
func (r *Registry) Fail(id string, cause error) (model.Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, exists := r.jobs[id]
	if !exists {
		return model.Job{}, fmt.Errorf("fail %s: %w", id, model.ErrJobNotFound)
	}
	job.Status = model.JobStatusError
	job.Result = model.JobResult{Err: cause}
	job.FinishedAt = time.Now()
	return *job, nil
}

// History returns a copy of the completed filenames in completion order
func (r *Registry) History() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	history := make([]string, len(r.history))
	copy(history, r.history)
	return history
}
