package download

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ytget/yt-downloader-api/internal/model"
)

func TestRegistry_AddAndGet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Add(model.NewJob("a", "https://youtube.com/watch?v=1", "18")); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	job, exists := registry.Get("a")
	if !exists {
		t.Fatal("Expected job to exist")
	}
	if job.Status != model.JobStatusDownloading || job.Progress != 0 {
		t.Errorf("Unexpected fresh job %+v", job)
	}

	if _, exists := registry.Get("missing"); exists {
		t.Error("Expected missing job to not exist")
	}

	if err := registry.Add(model.NewJob("a", "https://youtube.com/watch?v=2", "18")); err == nil {
		t.Error("Expected error for duplicate job id")
	}
}

func TestRegistry_GetReturnsCopy(t *testing.T) {
	registry := NewRegistry()
	registry.Add(model.NewJob("a", "u", "18"))

	job, _ := registry.Get("a")
	job.Progress = 77

	stored, _ := registry.Get("a")
	if stored.Progress != 0 {
		t.Errorf("Registry entry was mutated through a copy: %d", stored.Progress)
	}
}

func TestRegistry_SetProgressIsNonDecreasing(t *testing.T) {
	registry := NewRegistry()
	registry.Add(model.NewJob("a", "u", "18"))

	steps := []struct {
		percent  int
		expected int
	}{
		{10, 10},
		{40, 40},
		{5, 40},
		{40, 40},
		{90, 90},
	}

	for _, step := range steps {
		registry.SetProgress("a", step.percent)
		job, _ := registry.Get("a")
		if job.Progress != step.expected {
			t.Errorf("After SetProgress(%d) expected %d, got %d", step.percent, step.expected, job.Progress)
		}
	}

	if registry.SetProgress("missing", 50) {
		t.Error("SetProgress on missing job should report false")
	}
}

func TestRegistry_SetProgressIgnoredAfterFinish(t *testing.T) {
	registry := NewRegistry()
	registry.Add(model.NewJob("a", "u", "18"))
	registry.Fail("a", errors.New("boom"))

	if registry.SetProgress("a", 50) {
		t.Error("SetProgress should be ignored for finished jobs")
	}
}

func TestRegistry_Complete(t *testing.T) {
	registry := NewRegistry()
	registry.Add(model.NewJob("a", "u", "18"))

	job, err := registry.Complete("a", "a.mp4")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if job.Status != model.JobStatusDone || job.File != "a.mp4" || job.Progress != 100 {
		t.Errorf("Unexpected completed job %+v", job)
	}
	if job.FinishedAt.IsZero() {
		t.Error("FinishedAt should be set")
	}

	history := registry.History()
	if len(history) != 1 || history[0] != "a.mp4" {
		t.Errorf("Unexpected history %v", history)
	}

	if _, err := registry.Complete("missing", "x.mp4"); !errors.Is(err, model.ErrJobNotFound) {
		t.Errorf("Expected ErrJobNotFound, got %v", err)
	}
}

func TestRegistry_Fail(t *testing.T) {
	registry := NewRegistry()
	registry.Add(model.NewJob("a", "u", "18"))
	cause := errors.New("format unavailable")

	job, err := registry.Fail("a", cause)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if job.Status != model.JobStatusError || job.File != "" {
		t.Errorf("Unexpected failed job %+v", job)
	}
	if !errors.Is(job.Result.Err, cause) {
		t.Errorf("Expected cause to be retained, got %v", job.Result.Err)
	}
	if len(registry.History()) != 0 {
		t.Error("Failed jobs must not appear in history")
	}
}

func TestRegistry_ConcurrentCompletions(t *testing.T) {
	registry := NewRegistry()
	const n = 50

	for i := 0; i < n; i++ {
		registry.Add(model.NewJob(fmt.Sprintf("job-%d", i), "u", "18"))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("job-%d", i)
			registry.SetProgress(id, 50)
			registry.Get(id)
			registry.Complete(id, id+".mp4")
		}(i)
	}
	wg.Wait()

	history := registry.History()
	if len(history) != n {
		t.Fatalf("Expected %d history entries, got %d", n, len(history))
	}
	seen := make(map[string]bool)
	for _, file := range history {
		if seen[file] {
			t.Errorf("Duplicate history entry %s", file)
		}
		seen[file] = true
	}
}

func TestRegistry_HistoryReturnsCopy(t *testing.T) {
	registry := NewRegistry()
	registry.Add(model.NewJob("a", "u", "18"))
	registry.Complete("a", "a.mp4")

	history := registry.History()
	history[0] = "tampered"

	if registry.History()[0] != "a.mp4" {
		t.Error("History was mutated through a copy")
	}
}
