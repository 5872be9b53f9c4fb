// Package metrics provides Prometheus metrics for the conference
// judging API.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the service's Prometheus collectors.
type Manager struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	evaluationsSubmitted prometheus.Counter
	evaluationDrafts     prometheus.Counter
	presentationUploads  prometheus.Counter
	reportExports        *prometheus.CounterVec
}

// NewManager creates a manager with its own registry so tests can run
// several instances side by side.
func NewManager() *Manager {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Manager{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "confjudge",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, path and status.",
		}, []string{"method", "path", "status"}),
		httpRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "confjudge",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and path.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path"}),
		evaluationsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "confjudge",
			Subsystem: "judging",
			Name:      "evaluations_submitted_total",
			Help:      "Completed evaluations submitted by judges.",
		}),
		evaluationDrafts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "confjudge",
			Subsystem: "judging",
			Name:      "evaluation_drafts_total",
			Help:      "Evaluation drafts saved by judges.",
		}),
		presentationUploads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "confjudge",
			Subsystem: "files",
			Name:      "presentation_uploads_total",
			Help:      "Presentation files uploaded by students.",
		}),
		reportExports: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "confjudge",
			Subsystem: "reports",
			Name:      "exports_total",
			Help:      "Report exports by format.",
		}, []string{"format"}),
	}
}

// Middleware records request counts and latency. The route template is
// used as the path label to keep cardinality bounded.
func (m *Manager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequests.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpRequestDuration.WithLabelValues(
			c.Request.Method, path,
		).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the /metrics endpoint.
func (m *Manager) Handler() gin.HandlerFunc {
	h := promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

// RecordEvaluation counts an evaluation write.
func (m *Manager) RecordEvaluation(complete bool) {
	if complete {
		m.evaluationsSubmitted.Inc()
	} else {
		m.evaluationDrafts.Inc()
	}
}

// RecordUpload counts a presentation upload.
func (m *Manager) RecordUpload() {
	m.presentationUploads.Inc()
}

// RecordExport counts a report export.
func (m *Manager) RecordExport(format string) {
	m.reportExports.WithLabelValues(format).Inc()
}
