package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ytget/yt-downloader-api/internal/model"
)

func TestJobLifecycle(t *testing.T) {
	m := New("test")

	m.JobEnqueued(model.Job{ID: "a"})
	m.JobEnqueued(model.Job{ID: "b"})
	assert.Equal(t, 2.0, testutil.ToFloat64(m.jobsEnqueued))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.jobsInProgress))

	now := time.Now()
	m.JobFinished(model.Job{ID: "a", Status: model.JobStatusDone, CreatedAt: now.Add(-3 * time.Second), FinishedAt: now})
	m.JobFinished(model.Job{ID: "b", Status: model.JobStatusError, CreatedAt: now.Add(-time.Second), FinishedAt: now})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.jobsInProgress))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsFinished.WithLabelValues("done")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsFinished.WithLabelValues("error")))
}

func TestObserveRequest(t *testing.T) {
	m := New("test")

	m.ObserveRequest("/info", 200, 0.2)
	m.ObserveRequest("/info", 502, 0.1)
	m.ObserveRequest("/info", 200, 0.3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/info", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("/info", "502")))
}

func TestHandler(t *testing.T) {
	m := New("")
	m.JobEnqueued(model.Job{ID: "a"})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "yt_downloader_jobs_enqueued_total 1"), "enqueued counter should be exposed")
	assert.True(t, strings.Contains(body, "yt_downloader_jobs_in_progress 1"), "in progress gauge should be exposed")
}
