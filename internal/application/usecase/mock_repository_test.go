package usecase_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/go-user-notification/internal/domain/entity"
)

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (entity.User, bool, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.User), args.Bool(1), args.Error(2)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]entity.User)
	return users, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email entity.Email) (entity.User, bool, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(entity.User), args.Bool(1), args.Error(2)
}

func (m *mockUserRepository) Save(ctx context.Context, u entity.User) (entity.User, error) {
	args := m.Called(ctx, u)
	return args.Get(0).(entity.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, u entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) ExistsByEmail(ctx context.Context, email entity.Email) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
