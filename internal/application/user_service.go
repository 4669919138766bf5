package application

import (
	"context"

	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/application/usecase"
	repo "github.com/oksasatya/go-user-notification/internal/domain/repository"
)

// Service is the single entry point front-ends use for user operations. It
// delegates to one use case per method and adds no behavior of its own.
type Service struct {
	create     *usecase.CreateUser
	getByID    *usecase.GetUserByID
	getByEmail *usecase.GetUserByEmail
	getAll     *usecase.GetAllUsers
	update     *usecase.UpdateUser
	delete     *usecase.DeleteUser
}

func NewService(r repo.UserRepository) *Service {
	return &Service{
		create:     usecase.NewCreateUser(r),
		getByID:    usecase.NewGetUserByID(r),
		getByEmail: usecase.NewGetUserByEmail(r),
		getAll:     usecase.NewGetAllUsers(r),
		update:     usecase.NewUpdateUser(r),
		delete:     usecase.NewDeleteUser(r),
	}
}

func (s *Service) CreateUser(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error) {
	return s.create.Execute(ctx, req)
}

func (s *Service) GetUserByID(ctx context.Context, id int64) (dto.UserResponse, bool, error) {
	return s.getByID.Execute(ctx, id)
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (dto.UserResponse, bool, error) {
	return s.getByEmail.Execute(ctx, email)
}

func (s *Service) GetAllUsers(ctx context.Context) ([]dto.UserResponse, error) {
	return s.getAll.Execute(ctx)
}

func (s *Service) UpdateUser(ctx context.Context, req dto.UpdateUserRequest) (dto.UserResponse, error) {
	return s.update.Execute(ctx, req)
}

// DeleteUser reports whether a user was removed.
func (s *Service) DeleteUser(ctx context.Context, id int64) (bool, error) {
	return s.delete.Execute(ctx, id)
}
