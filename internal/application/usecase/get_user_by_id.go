package usecase

import (
	"context"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

type GetUserByID struct {
	repo repository.UserRepository
}

func NewGetUserByID(repo repository.UserRepository) *GetUserByID {
	return &GetUserByID{repo: repo}
}

// Execute returns found=false when no user has the id.
func (uc *GetUserByID) Execute(ctx context.Context, id int64) (dto.UserResponse, bool, error) {
	if err := validateID(id); err != nil {
		return dto.UserResponse{}, false, err
	}
	u, found, err := uc.repo.FindByID(ctx, id)
	if err != nil || !found {
		return dto.UserResponse{}, false, err
	}
	return dto.FromUser(u), true, nil
}
