package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-user-notification/config"
	"github.com/oksasatya/go-user-notification/internal/application"
	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/infrastructure"
	"github.com/oksasatya/go-user-notification/pkg/helpers"
)

func age(v int) *int { return &v }

var demoUsers = []dto.CreateUserRequest{
	{Name: "John Doe", Email: "john.doe@example.com", Age: age(30)},
	{Name: "Jane Smith", Email: "jane.smith@example.com", Age: age(25)},
	{Name: "Ivan Petrov", Email: "ivan.petrov@example.com", Age: age(41)},
	{Name: "Lucia Garcia", Email: "lucia.garcia@example.com"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env, cfg.LogLevel)

	ctx := context.Background()
	store, err := infrastructure.OpenStore(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open user repository: %v", err)
	}
	defer store.Close()

	svc := application.NewService(store.Users)
	for _, req := range demoUsers {
		u, err := svc.CreateUser(ctx, req)
		switch {
		case errors.Is(err, entity.ErrDuplicateEmail):
			fmt.Printf("skipped existing user: email=%s\n", req.Email)
		case err != nil:
			log.Fatalf("failed to seed user %s: %v", req.Email, err)
		default:
			fmt.Printf("seeded user: id=%d email=%s name=%s\n", u.ID, u.Email, u.Name)
		}
	}
}
