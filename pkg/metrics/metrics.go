// Package metrics holds the Prometheus collectors shared by both services.
// Every method is safe on a nil *AppMetrics so components can run without
// metrics in tests and tools.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Email outcomes recorded by RecordEmail.
const (
	EmailSent    = "sent"
	EmailSkipped = "skipped"
	EmailFailed  = "failed"
)

type AppMetrics struct {
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	userOperations  *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	emails          *prometheus.CounterVec
	rateLimitHits   *prometheus.CounterVec
}

func NewAppMetrics(registry prometheus.Registerer) *AppMetrics {
	m := &AppMetrics{
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),
		requestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		userOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_operations_total",
				Help: "Total number of user operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		eventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "user_events_published_total",
				Help: "Total number of user events handed to a delivery sink",
			},
			[]string{"sink", "outcome"},
		),
		emails: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notification_emails_total",
				Help: "Total number of notification emails by outcome",
			},
			[]string{"outcome"},
		),
		rateLimitHits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_limit_hits_total",
				Help: "Total number of requests rejected by the rate limiter",
			},
			[]string{"path"},
		),
	}

	registry.MustRegister(
		m.requestDuration,
		m.requestTotal,
		m.userOperations,
		m.eventsPublished,
		m.emails,
		m.rateLimitHits,
	)
	return m
}

func (m *AppMetrics) RecordRequest(method, path, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.requestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, status).Inc()
}

func (m *AppMetrics) RecordUserOperation(operation string, err error) {
	if m == nil {
		return
	}
	m.userOperations.WithLabelValues(operation, outcome(err)).Inc()
}

func (m *AppMetrics) RecordEventPublished(sink string, err error) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(sink, outcome(err)).Inc()
}

func (m *AppMetrics) RecordEmail(result string) {
	if m == nil {
		return
	}
	m.emails.WithLabelValues(result).Inc()
}

func (m *AppMetrics) RecordRateLimitHit(path string) {
	if m == nil {
		return
	}
	m.rateLimitHits.WithLabelValues(path).Inc()
}

// Middleware records duration and count of every request by route template.
func (m *AppMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.RecordRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
