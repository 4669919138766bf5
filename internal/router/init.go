package router

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/oksasatya/go-user-notification/internal/application"
	"github.com/oksasatya/go-user-notification/internal/container"
	"github.com/oksasatya/go-user-notification/internal/infrastructure/notification"
	"github.com/oksasatya/go-user-notification/internal/infrastructure/search"
	handlers "github.com/oksasatya/go-user-notification/internal/interface/http"
	"github.com/oksasatya/go-user-notification/internal/router/modules"
)

type UserModuleDeps struct {
	Service  *application.Service
	Notifier *application.Notifier
	Index    *search.UserIndex
	Handler  *handlers.UserHandler
}

// buildUserDeps wires the user facade over the repository chosen at startup
// and the event sinks enabled in config.
func buildUserDeps() UserModuleDeps {
	cfg := container.GetConfig()
	logger := container.GetLogger()

	service := application.NewService(container.GetUserRepository())

	index := search.NewUserIndex(container.GetES(), cfg.ESUsersIndex, logger)

	var publishers []application.EventPublisher
	if cfg.NotificationQueueEnabled && container.GetRabbitPub() != nil {
		publishers = append(publishers, notification.NewQueuePublisher(container.GetRabbitPub()))
	}
	if cfg.NotificationRESTEnabled && cfg.NotificationBaseURL != "" {
		publishers = append(publishers, notification.NewRESTClient(cfg.NotificationBaseURL, cfg.NotificationTimeout))
	}
	notifier := application.NewNotifier(logger, container.GetMetrics(), index, publishers...)

	handler := handlers.NewUserHandler(service, notifier, index, logger, container.GetMetrics())

	return UserModuleDeps{
		Service:  service,
		Notifier: notifier,
		Index:    index,
		Handler:  handler,
	}
}

// InitModules initializes the user service modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules.
// The returned deps let the caller drain pending notifications on shutdown.
func InitModules(r *Registry, gatherer prometheus.Gatherer) UserModuleDeps {
	userDeps := buildUserDeps()
	r.Add(modules.New(userDeps.Handler, container.GetConfig().RateLimitPerMinute))
	if container.GetConfig().MetricsEnabled {
		r.Add(modules.NewDebugModule(gatherer))
	}
	return userDeps
}

// InitEmailModules registers the notification service modules.
func InitEmailModules(r *Registry, h *handlers.EmailHandler, gatherer prometheus.Gatherer) {
	r.Add(modules.NewEmailModule(h, container.GetConfig().RateLimitPerMinute))
	if container.GetConfig().MetricsEnabled {
		r.Add(modules.NewDebugModule(gatherer))
	}
}

// ShutdownTimeout bounds graceful shutdown of both HTTP servers.
const ShutdownTimeout = 10 * time.Second
