package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/config"
	"github.com/oksasatya/go-user-notification/internal/application/notification"
	"github.com/oksasatya/go-user-notification/internal/container"
	handlers "github.com/oksasatya/go-user-notification/internal/interface/http"
	"github.com/oksasatya/go-user-notification/internal/interface/messaging"
	"github.com/oksasatya/go-user-notification/internal/interface/middleware"
	"github.com/oksasatya/go-user-notification/internal/router"
	"github.com/oksasatya/go-user-notification/pkg/helpers"
	"github.com/oksasatya/go-user-notification/pkg/i18n"
	"github.com/oksasatya/go-user-notification/pkg/mailer"
	"github.com/oksasatya/go-user-notification/pkg/metrics"
	"github.com/oksasatya/go-user-notification/pkg/validation"
)

// prefetch bounds unacknowledged deliveries for fair dispatch
const prefetch = 16

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger("notification-service", cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	catalog, err := i18n.NewCatalog(logger)
	if err != nil {
		log.Fatalf("load messages: %v", err)
	}

	var sender mailer.Sender = mailer.NewLogSender(logger)
	if cfg.MailgunConfigured() {
		sender = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		logger.Warn("mailgun not configured; emails are logged only")
	}

	appMetrics := metrics.NewAppMetrics(prometheus.DefaultRegisterer)
	emails := notification.NewEmailService(notification.Config{
		Enabled:         cfg.MailSendEnabled,
		TestMode:        cfg.MailTestMode,
		DefaultLocale:   cfg.MailDefaultLocale,
		FromAddress:     cfg.MailFromAddress,
		CompanyName:     cfg.MailCompanyName,
		MaxAttempts:     cfg.MailRetryMaxAttempts,
		InitialInterval: cfg.MailRetryInitialDelay,
		Multiplier:      cfg.MailRetryMultiplier,
	}, catalog, sender, logger, appMetrics)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup

	// Queue consumer
	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQUserEventsQueue, prefetch)
	if err != nil {
		helpers.LogError(logger, "rabbitmq unavailable; only the REST endpoints are served", err,
			logrus.Fields{"queue": cfg.RabbitMQUserEventsQueue})
	} else {
		defer consumer.Close()
		deliveries, err := consumer.Deliveries()
		if err != nil {
			log.Fatalf("consume: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			messaging.NewUserEventsConsumer(emails, logger).Run(ctx, deliveries)
		}()
		helpers.LogInfo(logger, "email worker listening", logrus.Fields{"queue": cfg.RabbitMQUserEventsQueue})
	}

	// REST endpoints under /api/email
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetMetrics(appMetrics)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}
	if cfg.MetricsEnabled {
		r.Use(appMetrics.Middleware())
	}

	reg := router.NewRegistry(r)
	router.InitEmailModules(reg, handlers.NewEmailHandler(emails, catalog, logger), prometheus.DefaultGatherer)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.NotificationPort, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		helpers.LogInfo(logger, "notification server starting", logrus.Fields{"port": cfg.NotificationPort})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), router.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		logger.Warn("consumer did not stop in time")
	}
}
