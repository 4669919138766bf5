package usecase

import (
	"context"
	"strings"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

type GetUserByEmail struct {
	repo repository.UserRepository
}

func NewGetUserByEmail(repo repository.UserRepository) *GetUserByEmail {
	return &GetUserByEmail{repo: repo}
}

// Execute rejects a blank email before it reaches the Email constructor.
func (uc *GetUserByEmail) Execute(ctx context.Context, raw string) (dto.UserResponse, bool, error) {
	if strings.TrimSpace(raw) == "" {
		return dto.UserResponse{}, false, entity.NewError(entity.KindInvalidArgument, "Email cannot be empty")
	}
	email, err := entity.NewEmail(raw)
	if err != nil {
		return dto.UserResponse{}, false, err
	}
	u, found, err := uc.repo.FindByEmail(ctx, email)
	if err != nil || !found {
		return dto.UserResponse{}, false, err
	}
	return dto.FromUser(u), true, nil
}
