package usecase

import (
	"context"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

type CreateUser struct {
	repo repository.UserRepository
}

func NewCreateUser(repo repository.UserRepository) *CreateUser {
	return &CreateUser{repo: repo}
}

// Execute registers a new user. Nothing is written when validation or the
// uniqueness check fails.
func (uc *CreateUser) Execute(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
	email, err := entity.NewEmail(req.Email)
	if err != nil {
		return dto.UserResponse{}, err
	}

	exists, err := uc.repo.ExistsByEmail(ctx, email)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if exists {
		return dto.UserResponse{}, entity.NewError(entity.KindDuplicateEmail, "User with this email already exists")
	}

	user, err := entity.NewUser(req.Name, email, req.Age)
	if err != nil {
		return dto.UserResponse{}, err
	}

	saved, err := uc.repo.Save(ctx, user)
	if err != nil {
		return dto.UserResponse{}, err
	}
	return dto.FromUser(saved), nil
}
