// Package memory implements the user repository in process memory. It backs
// the console front-end, local development and tests.
package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

// UserRepository stores users in a map keyed by id. Ids come from a
// monotonically increasing sequence and are never reused.
type UserRepository struct {
	mu    sync.RWMutex
	seq   int64
	users map[int64]entity.User
	now   func() time.Time
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[int64]entity.User),
		now:   time.Now,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (entity.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	return u, ok, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]entity.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b entity.User) int {
		switch {
		case a.ID() < b.ID():
			return -1
		case a.ID() > b.ID():
			return 1
		}
		return 0
	})
	return out, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email entity.Email) (entity.User, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email().Equals(email) {
			return u, true, nil
		}
	}
	return entity.User{}, false, nil
}

// Save assigns an id and creation time to a transient user. A user that
// already has an id is stored under it as is.
func (r *UserRepository) Save(ctx context.Context, u entity.User) (entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.emailTakenLocked(u.Email(), u.ID()) {
		return entity.User{}, entity.NewError(entity.KindDuplicateEmail, "User with this email already exists")
	}

	if !u.IsTransient() {
		r.users[u.ID()] = u
		if u.ID() > r.seq {
			r.seq = u.ID()
		}
		return u, nil
	}

	r.seq++
	saved, err := entity.Reconstitute(r.seq, u.Name(), u.Email(), u.Age(), r.now().UTC())
	if err != nil {
		return entity.User{}, err
	}
	r.users[saved.ID()] = saved
	return saved, nil
}

func (r *UserRepository) Update(ctx context.Context, u entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.ID()]; !ok {
		return entity.NewError(entity.KindNotFound, "User not found with ID: %d", u.ID())
	}
	if r.emailTakenLocked(u.Email(), u.ID()) {
		return entity.NewError(entity.KindDuplicateEmail, "User with email %s already exists", u.Email())
	}
	r.users[u.ID()] = u
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email entity.Email) (bool, error) {
	_, found, err := r.FindByEmail(ctx, email)
	return found, err
}

// emailTakenLocked reports whether a user other than owner holds email.
func (r *UserRepository) emailTakenLocked(email entity.Email, owner int64) bool {
	for id, u := range r.users {
		if id != owner && u.Email().Equals(email) {
			return true
		}
	}
	return false
}

var _ repository.UserRepository = (*UserRepository)(nil)
