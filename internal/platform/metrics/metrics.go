// Package metrics exposes Prometheus collectors for the writer, the stats
// cache, committed events and HTTP traffic.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/scry-srs/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "scry"

// Metrics holds the application's collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	WriterJobs        *prometheus.CounterVec
	WriterJobDuration *prometheus.HistogramVec
	CacheLookups      *prometheus.CounterVec
	Events            *prometheus.CounterVec
	Reviews           *prometheus.CounterVec
	HTTPRequests      *prometheus.CounterVec
	HTTPDuration      *prometheus.HistogramVec
}

// New creates the collectors and registers them, together with the Go and
// process collectors, on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		WriterJobs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "writer_jobs_total",
			Help:      "Writer jobs executed, by job name and outcome.",
		}, []string{"job", "outcome"}),

		WriterJobDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "writer_job_duration_seconds",
			Help:      "Time spent executing writer jobs.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"job"}),

		CacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stats_cache_lookups_total",
			Help:      "Deck statistics cache lookups, by result.",
		}, []string{"result"}),

		Events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Committed mutation events, by type.",
		}, []string{"type"}),

		Reviews: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reviews_total",
			Help:      "Committed reviews, by mode and rating label.",
		}, []string{"mode", "rating"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, by method, route and status code.",
		}, []string{"method", "route", "status"}),

		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveJob implements task.JobObserver.
func (m *Metrics) ObserveJob(name string, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.WriterJobs.WithLabelValues(name, outcome).Inc()
	m.WriterJobDuration.WithLabelValues(name).Observe(duration.Seconds())
}

// ObserveCacheLookup counts a stats cache hit or miss.
func (m *Metrics) ObserveCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route string, status int, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// HandleEvent implements events.EventHandler.
func (m *Metrics) HandleEvent(_ context.Context, event *events.Event) error {
	m.Events.WithLabelValues(event.Type).Inc()
	if event.Type != events.TypeReviewCommitted {
		return nil
	}
	var payload events.ReviewCommitted
	if err := event.UnmarshalPayload(&payload); err != nil {
		return err
	}
	m.Reviews.WithLabelValues(payload.Mode, payload.RatingLabel).Inc()
	return nil
}
