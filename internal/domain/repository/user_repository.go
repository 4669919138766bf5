package repository

import (
	"context"

	"github.com/oksasatya/go-user-notification/internal/domain/entity"
)

// UserRepository defines the storage capability the user use cases depend on.
// Absence is reported through the bool result, never as an error.
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (entity.User, bool, error)
	FindAll(ctx context.Context) ([]entity.User, error)
	FindByEmail(ctx context.Context, email entity.Email) (entity.User, bool, error)

	// Save persists a transient user and returns it with id and creation time assigned.
	Save(ctx context.Context, u entity.User) (entity.User, error)

	// Update replaces the stored user with the same id. It fails with
	// entity.ErrNotFound when no such user exists.
	Update(ctx context.Context, u entity.User) error

	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email entity.Email) (bool, error)
}
