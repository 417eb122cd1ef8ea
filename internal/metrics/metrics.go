// Package metrics exposes Prometheus counters for directory activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "staffdir"

// Metrics owns a private registry so tests and multiple servers never collide.
type Metrics struct {
	registry *prometheus.Registry

	tagsAdded       *prometheus.CounterVec
	tagsRemoved     *prometheus.CounterVec
	praiseSubmitted *prometheus.CounterVec
	tagFilters      prometheus.Histogram
	requestDuration *prometheus.HistogramVec
	activeRequests  prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		tagsAdded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tags_added_total",
			Help:      "New tag associations created, by category.",
		}, []string{"category"}),
		tagsRemoved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tags_removed_total",
			Help:      "Tag associations removed, by category.",
		}, []string{"category"}),
		praiseSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "thanks_submitted_total",
			Help:      "Thanks notes recorded, by value.",
		}, []string{"value"}),
		tagFilters: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tag_filter_selected_tags",
			Help:      "Number of resolved tags per filter request.",
			Buckets:   []float64{1, 2, 3, 4, 5, 8},
		}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Time spent serving HTTP requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Requests currently being served.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.tagsAdded,
		m.tagsRemoved,
		m.praiseSubmitted,
		m.tagFilters,
		m.requestDuration,
		m.activeRequests,
	)
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// TagAdded counts a new association.
func (m *Metrics) TagAdded(category string) { m.tagsAdded.WithLabelValues(category).Inc() }

// TagRemoved counts a removed association.
func (m *Metrics) TagRemoved(category string) { m.tagsRemoved.WithLabelValues(category).Inc() }

// PraiseSubmitted counts a recorded thanks note.
func (m *Metrics) PraiseSubmitted(value string) { m.praiseSubmitted.WithLabelValues(value).Inc() }

// TagFilterServed records how many tags a filter resolved.
func (m *Metrics) TagFilterServed(selected int) { m.tagFilters.Observe(float64(selected)) }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Middleware records request latency labelled by chi route pattern, so
// /people/{stub} is one series rather than one per person.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.activeRequests.Inc()
		defer m.activeRequests.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.requestDuration.
			WithLabelValues(r.Method, route, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
