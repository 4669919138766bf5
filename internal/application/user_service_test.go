package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-user-notification/internal/application"
	"github.com/oksasatya/go-user-notification/internal/application/dto"
	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/infrastructure/memory"
)

func intPtr(v int) *int { return &v }

func TestService_Lifecycle(t *testing.T) {
	svc := application.NewService(memory.NewUserRepository())
	ctx := context.Background()

	created, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "John Doe", Email: "john@example.com", Age: intPtr(30)})
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.NotNil(t, created.CreatedAt)

	got, found, err := svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created.Email, got.Email)
	assert.Equal(t, 30, *got.Age)

	byEmail, found, err := svc.GetUserByEmail(ctx, "john@example.com")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, created.ID, byEmail.ID)

	_, err = svc.CreateUser(ctx, dto.CreateUserRequest{Name: "Other", Email: "john@example.com"})
	assert.True(t, errors.Is(err, entity.ErrDuplicateEmail))

	updated, err := svc.UpdateUser(ctx, dto.UpdateUserRequest{ID: created.ID, Name: "John", Email: "john.doe@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "john.doe@example.com", updated.Email)
	assert.Nil(t, updated.Age)
	assert.Equal(t, *created.CreatedAt, *updated.CreatedAt)

	all, err := svc.GetAllUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	deleted, err := svc.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = svc.DeleteUser(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, deleted)

	_, found, err = svc.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestService_UpdateToOtherUsersEmail(t *testing.T) {
	svc := application.NewService(memory.NewUserRepository())
	ctx := context.Background()

	_, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "A", Email: "a@example.com"})
	require.NoError(t, err)
	b, err := svc.CreateUser(ctx, dto.CreateUserRequest{Name: "B", Email: "b@example.com"})
	require.NoError(t, err)

	_, err = svc.UpdateUser(ctx, dto.UpdateUserRequest{ID: b.ID, Name: "B", Email: "a@example.com"})
	assert.True(t, errors.Is(err, entity.ErrDuplicateEmail))
}
