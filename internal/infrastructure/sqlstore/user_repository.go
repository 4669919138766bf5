// Package sqlstore implements the user repository over database/sql with
// queries built by squirrel. It runs against PostgreSQL through the pgx
// stdlib driver and against SQLite in tests.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/oksasatya/go-user-notification/internal/domain/entity"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
)

const table = "users"

var columns = []string{"id", "name", "email", "age", "created_at"}

type UserRepository struct {
	db *sql.DB
	qb sq.StatementBuilderType
	// now stamps created_at on insert so both dialects behave the same.
	now func() time.Time
}

// NewUserRepository builds a repository using placeholder for bind
// parameters; sq.Dollar works for both PostgreSQL and SQLite.
func NewUserRepository(db *sql.DB, placeholder sq.PlaceholderFormat) *UserRepository {
	return &UserRepository{
		db:  db,
		qb:  sq.StatementBuilder.PlaceholderFormat(placeholder),
		now: time.Now,
	}
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (entity.User, bool, error) {
	return r.findOne(ctx, sq.Eq{"id": id})
}

func (r *UserRepository) FindAll(ctx context.Context) ([]entity.User, error) {
	query, args, err := r.qb.Select(columns...).From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]entity.User, 0)
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) FindByEmail(ctx context.Context, email entity.Email) (entity.User, bool, error) {
	return r.findOne(ctx, sq.Eq{"email": email.String()})
}

func (r *UserRepository) Save(ctx context.Context, u entity.User) (entity.User, error) {
	created := r.now().UTC()
	query, args, err := r.qb.Insert(table).
		Columns("name", "email", "age", "created_at").
		Values(u.Name(), u.Email().String(), nullAge(u.Age()), created).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return entity.User{}, err
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return entity.User{}, translate(err, "User with this email already exists")
	}
	return entity.Reconstitute(id, u.Name(), u.Email(), u.Age(), created)
}

func (r *UserRepository) Update(ctx context.Context, u entity.User) error {
	query, args, err := r.qb.Update(table).
		Set("name", u.Name()).
		Set("email", u.Email().String()).
		Set("age", nullAge(u.Age())).
		Where(sq.Eq{"id": u.ID()}).
		ToSql()
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translate(err, "User with email %s already exists", u.Email().String())
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.NewError(entity.KindNotFound, "User not found with ID: %d", u.ID())
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id int64) error {
	query, args, err := r.qb.Delete(table).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email entity.Email) (bool, error) {
	query, args, err := r.qb.Select("COUNT(1)").From(table).Where(sq.Eq{"email": email.String()}).ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *UserRepository) findOne(ctx context.Context, where sq.Eq) (entity.User, bool, error) {
	query, args, err := r.qb.Select(columns...).From(table).Where(where).Limit(1).ToSql()
	if err != nil {
		return entity.User{}, false, err
	}

	u, err := scan(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, false, nil
		}
		return entity.User{}, false, err
	}
	return u, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (entity.User, error) {
	var (
		id      int64
		name    string
		raw     string
		age     sql.NullInt64
		created time.Time
	)
	if err := s.Scan(&id, &name, &raw, &age, &created); err != nil {
		return entity.User{}, err
	}
	email, err := entity.NewEmail(raw)
	if err != nil {
		return entity.User{}, fmt.Errorf("stored user %d: %w", id, err)
	}
	var agePtr *int
	if age.Valid {
		v := int(age.Int64)
		agePtr = &v
	}
	return entity.Reconstitute(id, name, email, agePtr, created)
}

func nullAge(age *int) sql.NullInt64 {
	if age == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*age), Valid: true}
}

// translate maps unique index violations from either driver to the domain
// error. Both drivers only expose them through their own error types, so the
// message is matched instead of importing each driver here.
func translate(err error, format string, args ...any) error {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique") || strings.Contains(msg, "23505") {
		return entity.NewError(entity.KindDuplicateEmail, format, args...)
	}
	return err
}

var _ repository.UserRepository = (*UserRepository)(nil)
