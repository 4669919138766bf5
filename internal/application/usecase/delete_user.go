package usecase

import (
	"context"

	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

type DeleteUser struct {
	repo repository.UserRepository
}

func NewDeleteUser(repo repository.UserRepository) *DeleteUser {
	return &DeleteUser{repo: repo}
}

// Execute reports false, not an error, when the user does not exist.
func (uc *DeleteUser) Execute(ctx context.Context, id int64) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}
	_, found, err := uc.repo.FindByID(ctx, id)
	if err != nil || !found {
		return false, err
	}
	if err := uc.repo.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}
