// Package dto holds the transport-facing request and response shapes of the
// user service. They carry no behavior beyond the projection from the entity.
package dto

import (
	"time"

	"github.com/oksasatya/go-user-notification/internal/domain/entity"
)

type CreateUserRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Age   *int   `json:"age" binding:"omitempty,gte=0"`
}

type UpdateUserRequest struct {
	ID    int64  `json:"id"`
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
	Age   *int   `json:"age" binding:"omitempty,gte=0"`
}

type UserResponse struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Age       *int       `json:"age,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// FromUser projects an entity to its response shape. A transient user has no
// creation time and the field is left out.
func FromUser(u entity.User) UserResponse {
	resp := UserResponse{
		ID:    u.ID(),
		Name:  u.Name(),
		Email: u.Email().String(),
		Age:   u.Age(),
	}
	if created := u.CreatedAt(); !created.IsZero() {
		resp.CreatedAt = &created
	}
	return resp
}

// FromUsers never returns nil.
func FromUsers(users []entity.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, FromUser(u))
	}
	return out
}
