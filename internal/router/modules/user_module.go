package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-notification/internal/container"
	handlers "github.com/oksasatya/go-user-notification/internal/interface/http"
	"github.com/oksasatya/go-user-notification/internal/interface/middleware"
)

// Module wires the user HTTP handlers into routes under /api/v1/users:
// POST /, GET /, GET /search, GET /email/:email, GET /:id, PUT /:id, DELETE /:id
type Module struct {
	Handler *handlers.UserHandler
	// PerMinute is the per-IP request budget; zero disables limiting.
	PerMinute int
}

func New(h *handlers.UserHandler, perMinute int) *Module {
	return &Module{Handler: h, PerMinute: perMinute}
}

func (m *Module) Register(rg *gin.RouterGroup) {
	users := rg.Group("/v1/users")
	users.Use(middleware.RateLimit(container.GetRedis(), m.PerMinute, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP(), container.GetMetrics()))
	{
		users.POST("", m.Handler.Create)
		users.GET("", m.Handler.List)
		users.GET("/search", m.Handler.SearchUsers)
		users.GET("/email/:email", m.Handler.GetByEmail)
		users.GET("/:id", m.Handler.GetByID)
		users.PUT("/:id", m.Handler.Update)
		users.DELETE("/:id", m.Handler.Delete)
	}
}
