package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// MigrateFunc applies the schema to the database behind the URI before the
// pool is handed out.
type MigrateFunc func(databaseURI string) error

type Storage struct {
	pool *pgxpool.Pool
}

// New migrates the default store and opens its pool.
func New(ctx context.Context, databaseURI string, migrate MigrateFunc) (*Storage, error) {
	if migrate != nil {
		if err := migrate(databaseURI); err != nil {
			return nil, fmt.Errorf("migration error: %w", err)
		}
	}

	pool, err := pgxpool.New(ctx, databaseURI)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Storage{pool: pool}, nil
}

func (s *Storage) Close() error {
	s.pool.Close()
	return nil
}

func (s *Storage) Pool() *pgxpool.Pool {
	return s.pool
}
