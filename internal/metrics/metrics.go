// Package metrics provides Prometheus collectors for download jobs and
// HTTP requests served by the API.
package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ytget/yt-downloader-api/internal/model"
)

// DefaultNamespace prefixes every metric name
const DefaultNamespace = "yt_downloader"

// Metrics holds the service collectors. It implements download.Observer.
type Metrics struct {
	registry *prometheus.Registry

	jobsEnqueued    prometheus.Counter
	jobsFinished    *prometheus.CounterVec
	jobsInProgress  prometheus.Gauge
	jobDuration     *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a dedicated registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{
		registry: prometheus.NewRegistry(),
	}

	m.jobsEnqueued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: fmt.Sprintf("%s_jobs_enqueued_total", namespace),
		Help: "Total download jobs enqueued",
	})

	m.jobsFinished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_jobs_finished_total", namespace),
			Help: "Total download jobs finished by status",
		},
		[]string{"status"},
	)

	m.jobsInProgress = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: fmt.Sprintf("%s_jobs_in_progress", namespace),
		Help: "Download jobs whose background work is running",
	})

	// Buckets: 1s .. ~17min
	m.jobDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_job_duration_seconds", namespace),
			Help:    "Download job duration by final status",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11),
		},
		[]string{"status"},
	)

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: fmt.Sprintf("%s_http_requests_total", namespace),
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)

	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    fmt.Sprintf("%s_http_request_duration_seconds", namespace),
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	m.registry.MustRegister(
		m.jobsEnqueued,
		m.jobsFinished,
		m.jobsInProgress,
		m.jobDuration,
		m.requestsTotal,
		m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// JobEnqueued records a new job
func (m *Metrics) JobEnqueued(job model.Job) {
	m.jobsEnqueued.Inc()
	m.jobsInProgress.Inc()
}

// JobFinished records a job reaching done or error
func (m *Metrics) JobFinished(job model.Job) {
	status := job.Status.String()
	m.jobsInProgress.Dec()
	m.jobsFinished.WithLabelValues(status).Inc()
	m.jobDuration.WithLabelValues(status).Observe(job.Elapsed().Seconds())
}

// ObserveRequest records one served HTTP request
func (m *Metrics) ObserveRequest(route string, code int, seconds float64) {
	m.requestsTotal.WithLabelValues(route, fmt.Sprint(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(seconds)
}

// Handler returns the exposition endpoint for the registry
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
