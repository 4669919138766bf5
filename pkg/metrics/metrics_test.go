package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestAppMetrics_Counters(t *testing.T) {
	m := NewAppMetrics(prometheus.NewRegistry())

	m.RecordEmail(EmailSent)
	m.RecordEmail(EmailSent)
	m.RecordEmail(EmailFailed)
	m.RecordUserOperation("create", nil)
	m.RecordEventPublished("rabbitmq", errors.New("closed"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.emails.WithLabelValues(EmailSent)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.emails.WithLabelValues(EmailFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.userOperations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublished.WithLabelValues("rabbitmq", "error")))
}

func TestAppMetrics_NilIsNoop(t *testing.T) {
	var m *AppMetrics
	assert.NotPanics(t, func() {
		m.RecordEmail(EmailSkipped)
		m.RecordUserOperation("delete", nil)
		m.RecordRateLimitHit("/x")
	})
}

func TestMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewAppMetrics(prometheus.NewRegistry())
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users/7", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/users/:id", "204")))
}
