package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-notification/config"
	"github.com/oksasatya/go-user-notification/internal/application"
	"github.com/oksasatya/go-user-notification/internal/infrastructure"
	"github.com/oksasatya/go-user-notification/internal/interface/console"
	"github.com/oksasatya/go-user-notification/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	// the menu owns stdout; logs go to stderr
	logger := helpers.NewLogger(cfg.AppName+"-console", cfg.Env, cfg.LogLevel)
	logger.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := infrastructure.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open user repository: %v", err)
	}
	defer store.Close()

	c := console.New(application.NewService(store.Users), os.Stdin, os.Stdout)
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("console stopped")
	}
}
