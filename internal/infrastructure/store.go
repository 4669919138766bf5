// Package infrastructure selects and opens the user repository backend named
// by USER_REPOSITORY.
package infrastructure

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-notification/config"
	"github.com/oksasatya/go-user-notification/internal/domain/repository"
	"github.com/oksasatya/go-user-notification/internal/infrastructure/memory"
	pginfra "github.com/oksasatya/go-user-notification/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-notification/internal/infrastructure/sqlstore"
)

// Store is an opened user repository. Pool is set for the postgres backend only.
type Store struct {
	Users repository.UserRepository
	Pool  *pgxpool.Pool
	close func()
}

func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// OpenStore opens the configured backend. Database backends run pending
// migrations first.
func OpenStore(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Store, error) {
	switch cfg.UserRepository {
	case config.RepositoryMemory:
		logger.Info("using in-memory user repository")
		return &Store{Users: memory.NewUserRepository()}, nil

	case config.RepositoryPostgres, "":
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		logger.Info("using postgres user repository")
		return &Store{Users: pginfra.NewUserRepository(pool), Pool: pool, close: pool.Close}, nil

	case config.RepositorySQL:
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		db, err := pginfra.OpenSQL(cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("open sql: %w", err)
		}
		if err := db.PingContext(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping sql: %w", err)
		}
		db.SetMaxOpenConns(int(cfg.DBMaxConns))
		db.SetConnMaxLifetime(cfg.DBMaxConnLife)
		logger.Info("using database/sql user repository")
		return &Store{Users: sqlstore.NewUserRepository(db, sq.Dollar), close: func() { _ = db.Close() }}, nil

	default:
		return nil, fmt.Errorf("unknown USER_REPOSITORY %q (want %s, %s or %s)",
			cfg.UserRepository, config.RepositoryPostgres, config.RepositorySQL, config.RepositoryMemory)
	}
}
