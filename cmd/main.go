package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/config"
	"github.com/oksasatya/go-user-notification/internal/container"
	"github.com/oksasatya/go-user-notification/internal/infrastructure"
	"github.com/oksasatya/go-user-notification/internal/interface/middleware"
	"github.com/oksasatya/go-user-notification/internal/router"
	"github.com/oksasatya/go-user-notification/pkg/helpers"
	"github.com/oksasatya/go-user-notification/pkg/metrics"
	"github.com/oksasatya/go-user-notification/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// User repository (postgres, sql or memory); migrations run for database backends
	store, err := infrastructure.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open user repository: %v", err)
	}
	defer store.Close()

	// Redis backs the rate limiter; an unreachable redis fails open
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.WithError(err).Warn("redis unavailable; rate limiting disabled until it recovers")
	}
	cancel()

	appMetrics := metrics.NewAppMetrics(prometheus.DefaultRegisterer)

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetUserRepository(store.Users)
	container.SetRedis(rdb)
	container.SetMetrics(appMetrics)

	if cfg.NotificationQueueEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQUserEventsQueue)
		if err != nil {
			helpers.LogError(logger, "rabbitmq unavailable; queue notifications disabled", err, logrus.Fields{"queue": cfg.RabbitMQUserEventsQueue})
		} else {
			defer pub.Close()
			container.SetRabbitPub(pub)
		}
	}

	if cfg.ElasticsearchEnabled {
		es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err == nil {
			esCtx, esCancel := context.WithTimeout(ctx, 3*time.Second)
			err = helpers.PingES(esCtx, es)
			esCancel()
		}
		if err != nil {
			helpers.LogError(logger, "elasticsearch unavailable; user search disabled", err, nil)
		} else {
			container.SetES(es)
		}
	}

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	// CORS
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Accept-Language", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	if cfg.MetricsEnabled {
		r.Use(appMetrics.Middleware())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	userDeps := router.InitModules(reg, prometheus.DefaultGatherer)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		helpers.LogInfo(logger, "server starting", logrus.Fields{"port": cfg.Port, "repository": cfg.UserRepository})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), router.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}

	drained := make(chan struct{})
	go func() {
		userDeps.Notifier.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctxShutdown.Done():
		logger.Warn("pending user notifications dropped at shutdown")
	}
	logger.Info("server exited properly")
}
