package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-user-notification/internal/container"
	handlers "github.com/oksasatya/go-user-notification/internal/interface/http"
	"github.com/oksasatya/go-user-notification/internal/interface/middleware"
)

// EmailModule exposes the notification service under /api/email.
type EmailModule struct {
	Handler   *handlers.EmailHandler
	PerMinute int
}

func NewEmailModule(h *handlers.EmailHandler, perMinute int) *EmailModule {
	return &EmailModule{Handler: h, PerMinute: perMinute}
}

func (m *EmailModule) Register(rg *gin.RouterGroup) {
	email := rg.Group("/email")
	email.GET("/health", m.Handler.Health)
	email.GET("/supported-languages", m.Handler.SupportedLanguages)

	// sending endpoints are limited per IP and path; internal callers bypass
	send := email.Group("")
	send.Use(middleware.RateLimit(container.GetRedis(), m.PerMinute, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP(), container.GetMetrics()))
	{
		send.POST("/user-event", m.Handler.UserEvent)
		send.POST("/send", m.Handler.Send)
		send.POST("/welcome", m.Handler.Welcome)
		send.POST("/account-deleted", m.Handler.AccountDeleted)
		send.POST("/direct", m.Handler.Direct)
	}
}
