package usecase

import (
	"context"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

type UpdateUser struct {
	repo repository.UserRepository
}

func NewUpdateUser(repo repository.UserRepository) *UpdateUser {
	return &UpdateUser{repo: repo}
}

// Execute replaces name, email and age of an existing user.
//
// The uniqueness check only runs when the submitted email differs from the
// stored one; resubmitting the same email never queries ExistsByEmail.
func (uc *UpdateUser) Execute(ctx context.Context, req dto.UpdateUserRequest) (dto.UserResponse, error) {
	if err := validateID(req.ID); err != nil {
		return dto.UserResponse{}, err
	}

	existing, found, err := uc.repo.FindByID(ctx, req.ID)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if !found {
		return dto.UserResponse{}, entity.NewError(entity.KindNotFound, "User not found with ID: %d", req.ID)
	}

	email, err := entity.NewEmail(req.Email)
	if err != nil {
		return dto.UserResponse{}, err
	}

	if !existing.Email().Equals(email) {
		taken, err := uc.repo.ExistsByEmail(ctx, email)
		if err != nil {
			return dto.UserResponse{}, err
		}
		if taken {
			return dto.UserResponse{}, entity.NewError(entity.KindDuplicateEmail, "User with email %s already exists", email)
		}
	}

	updated, err := existing.Update(req.Name, email, req.Age)
	if err != nil {
		return dto.UserResponse{}, err
	}
	if err := uc.repo.Update(ctx, updated); err != nil {
		return dto.UserResponse{}, err
	}
	return dto.FromUser(updated), nil
}
