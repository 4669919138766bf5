package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("keeps a valid incoming id", func(t *testing.T) {
		incoming := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, incoming)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, incoming, w.Body.String())
	})

	t.Run("replaces a malformed incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "<script>")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.NotEqual(t, "<script>", w.Body.String())
	})
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare wins", map[string]string{"CF-Connecting-IP": "1.2.3.4", "X-Forwarded-For": "5.6.7.8"}, "1.2.3.4"},
		{"left-most forwarded", map[string]string{"X-Forwarded-For": "5.6.7.8, 10.0.0.1"}, "5.6.7.8"},
		{"real ip header", map[string]string{"X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
		{"bad forwarded skips to real ip", map[string]string{"X-Forwarded-For": "junk, 1.1.1.1", "X-Real-IP": "9.9.9.9"}, "9.9.9.9"},
		{"garbage falls back", map[string]string{"CF-Connecting-IP": "nope"}, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	for ip, want := range map[string]bool{
		"127.0.0.1":   true,
		"10.1.2.3":    true,
		"192.168.1.5": true,
		"172.16.0.9":  true,
		"8.8.8.8":     false,
		"unknown":     false,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		assert.Equal(t, want, allow(c), ip)
	}
}

func TestRateLimit_WithoutRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(nil, 1, time.Minute, KeyByIP(), nil, nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitKeys(t *testing.T) {
	r := gin.New()
	var byIP, byPath string
	r.Use(RealIP())
	r.GET("/api/v1/users/:id", func(c *gin.Context) {
		byIP = KeyByIP()(c)
		byPath = KeyByIPAndPath()(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/7", nil)
	req.Header.Set("X-Forwarded-For", "5.6.7.8")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "rl:ip:5.6.7.8", byIP)
	assert.Equal(t, "rl:path:/api/v1/users/:id:ip:5.6.7.8", byPath)
}

func TestRemaining(t *testing.T) {
	assert.Equal(t, 9, remaining(10, 1))
	assert.Equal(t, 0, remaining(10, 10))
	assert.Equal(t, 0, remaining(10, 11))
}

func TestParseWindow(t *testing.T) {
	w, err := parseWindow([]any{int64(3), int64(1500)})
	require.NoError(t, err)
	assert.Equal(t, 3, w.count)
	assert.Equal(t, 1500*time.Millisecond, w.reset)

	w, err = parseWindow([]any{int64(1), int64(-1)})
	require.NoError(t, err)
	assert.Zero(t, w.reset)

	_, err = parseWindow(int64(3))
	assert.Error(t, err)
	_, err = parseWindow([]any{"3", int64(10)})
	assert.Error(t, err)
}
