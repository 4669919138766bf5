package entity

import (
	"fmt"
	"strings"
	"time"
)

// AdultAge is the age from which IsAdult reports true.
const AdultAge = 18

// User is the aggregate root for the user domain.
//
// A User is an immutable value: every change goes through Update and yields a
// new User that keeps the original id and creation time. Two users are the same
// logical user when their emails are equal, whatever their ids.
type User struct {
	id        int64
	name      string
	email     Email
	age       *int
	createdAt time.Time
}

// NewUser creates a transient user with no id and no creation time. The
// repository assigns both on Save.
func NewUser(name string, email Email, age *int) (User, error) {
	return Reconstitute(0, name, email, age, time.Time{})
}

// Reconstitute rebuilds a user from stored data, enforcing the same invariants
// as NewUser.
func Reconstitute(id int64, name string, email Email, age *int, createdAt time.Time) (User, error) {
	if strings.TrimSpace(name) == "" {
		return User{}, NewError(KindInvalidArgument, "Name cannot be empty")
	}
	if email.IsZero() {
		return User{}, NewError(KindInvalidArgument, "Email cannot be null")
	}
	if age != nil && *age < 0 {
		return User{}, NewError(KindInvalidArgument, "Age cannot be negative")
	}
	return User{
		id:        id,
		name:      name,
		email:     email,
		age:       copyAge(age),
		createdAt: createdAt,
	}, nil
}

func (u User) ID() int64            { return u.id }
func (u User) Name() string         { return u.name }
func (u User) Email() Email         { return u.email }
func (u User) CreatedAt() time.Time { return u.createdAt }

// Age returns a copy of the optional age.
func (u User) Age() *int { return copyAge(u.age) }

// IsTransient reports whether the user has not been persisted yet.
func (u User) IsTransient() bool { return u.id == 0 }

// IsAdult is false when the age is unknown.
func (u User) IsAdult() bool {
	return u.age != nil && *u.age >= AdultAge
}

// Update returns a new user with the given attributes and the same identity
// and creation time. The new values are validated again.
func (u User) Update(name string, email Email, age *int) (User, error) {
	return Reconstitute(u.id, name, email, age, u.createdAt)
}

// Equals compares users by email only.
func (u User) Equals(other User) bool {
	return u.email.Equals(other.email)
}

// Key is the hash key consistent with Equals.
func (u User) Key() Email { return u.email }

func (u User) String() string {
	age := "null"
	if u.age != nil {
		age = fmt.Sprintf("%d", *u.age)
	}
	return fmt.Sprintf("User{id=%d, name='%s', email='%s', age=%s, createdAt=%s}",
		u.id, u.name, u.email.value, age, u.createdAt.Format(time.RFC3339))
}

func copyAge(age *int) *int {
	if age == nil {
		return nil
	}
	v := *age
	return &v
}
