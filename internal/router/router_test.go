package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-notification/config"
	"github.com/oksasatya/go-user-notification/internal/container"
	"github.com/oksasatya/go-user-notification/internal/infrastructure/memory"
	"github.com/oksasatya/go-user-notification/internal/interface/middleware"
	"github.com/oksasatya/go-user-notification/pkg/metrics"
)

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	registry := prometheus.NewRegistry()

	container.SetConfig(&config.Config{
		UserRepository: config.RepositoryMemory,
		ESUsersIndex:   "users",
		MetricsEnabled: true,
	})
	container.SetLogger(logger)
	container.SetUserRepository(memory.NewUserRepository())
	container.SetMetrics(metrics.NewAppMetrics(registry))
	t.Cleanup(func() {
		container.SetUserRepository(nil)
		container.SetMetrics(nil)
	})

	r := gin.New()
	reg := NewRegistry(r)
	reg.Use(middleware.RequestIDMiddleware(), container.GetMetrics().Middleware())
	InitModules(reg, registry)
	reg.RegisterAll()
	return r
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUserRoutes_Lifecycle(t *testing.T) {
	r := newTestEngine(t)

	w := serve(r, http.MethodPost, "/api/v1/users", `{"name":"John Doe","email":"john@example.com","age":30}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = serve(r, http.MethodPost, "/api/v1/users", `{"name":"Other","email":"john@example.com"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/users/1", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"john@example.com"`)

	w = serve(r, http.MethodPut, "/api/v1/users/1", `{"id":1,"name":"Johnny","email":"johnny@example.com","age":31}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/users/email/johnny@example.com", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/users/search?q=johnny", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(r, http.MethodDelete, "/api/v1/users/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = serve(r, http.MethodDelete, "/api/v1/users/1", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(r, http.MethodGet, "/api/v1/users", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDebugRoutes_ExposeMetrics(t *testing.T) {
	r := newTestEngine(t)
	serve(r, http.MethodGet, "/api/v1/users", "")

	w := serve(r, http.MethodGet, "/api/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")
	assert.Contains(t, w.Body.String(), `operation="list"`)
}

func TestRegistry_RegisterAllOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reg := NewRegistry(r)

	calls := 0
	reg.Add(ModuleFunc(func(rg *gin.RouterGroup) {
		calls++
		rg.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	}))
	reg.RegisterAll()
	reg.RegisterAll()

	assert.Equal(t, 1, calls)
	w := serve(r, http.MethodGet, "/api/ping", "")
	assert.Equal(t, "pong", w.Body.String())
}
