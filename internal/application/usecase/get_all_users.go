package usecase

import (
	"context"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

type GetAllUsers struct {
	repo repository.UserRepository
}

func NewGetAllUsers(repo repository.UserRepository) *GetAllUsers {
	return &GetAllUsers{repo: repo}
}

// Execute keeps the repository order and never returns a nil slice.
func (uc *GetAllUsers) Execute(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return dto.FromUsers(users), nil
}
