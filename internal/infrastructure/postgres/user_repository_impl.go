package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

const uniqueViolation = "23505"

const selectUser = `SELECT id, name, email, age, created_at FROM users`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

type userRow struct {
	ID        int64
	Name      string
	Email     string
	Age       *int32
	CreatedAt time.Time
}

func (r userRow) toDomain() (entity.User, error) {
	email, err := entity.NewEmail(r.Email)
	if err != nil {
		return entity.User{}, fmt.Errorf("stored user %d: %w", r.ID, err)
	}
	var age *int
	if r.Age != nil {
		v := int(*r.Age)
		age = &v
	}
	return entity.Reconstitute(r.ID, r.Name, email, age, r.CreatedAt)
}

func scanUser(row pgx.Row) (entity.User, error) {
	var u userRow
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Age, &u.CreatedAt); err != nil {
		return entity.User{}, err
	}
	return u.toDomain()
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (entity.User, bool, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, false, nil
		}
		return entity.User{}, false, err
	}
	return u, true, nil
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	rows, err := r.pool.Query(ctx, selectUser+` ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) FindByEmail(ctx context.Context, email entity.Email) (entity.User, bool, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, selectUser+` WHERE email = $1`, email.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return entity.User{}, false, nil
		}
		return entity.User{}, false, err
	}
	return u, true, nil
}

func (r *UserRepository) Save(ctx context.Context, u entity.User) (entity.User, error) {
	var (
		id      int64
		created time.Time
	)
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, age)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, u.Name(), u.Email().String(), u.Age())
	if err := row.Scan(&id, &created); err != nil {
		return entity.User{}, translate(err, "User with this email already exists")
	}
	return entity.Reconstitute(id, u.Name(), u.Email(), u.Age(), created)
}

func (r *UserRepository) Update(ctx context.Context, u entity.User) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET name = $1, email = $2, age = $3
		WHERE id = $4
	`, u.Name(), u.Email().String(), u.Age(), u.ID())
	if err != nil {
		return translate(err, "User with email %s already exists", u.Email().String())
	}
	if res.RowsAffected() == 0 {
		return entity.NewError(entity.KindNotFound, "User not found with ID: %d", u.ID())
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	return err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email entity.Email) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email.String()).Scan(&exists)
	return exists, err
}

// translate maps a unique index violation on email to the domain error,
// worded by the caller.
func translate(err error, format string, args ...any) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return entity.NewError(entity.KindDuplicateEmail, format, args...)
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
