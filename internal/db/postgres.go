package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"io.winapps.traveljournal/internal/config"
)

// InitPostgres initializes and returns a PostgreSQL connection pool
func InitPostgres(cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = cfg.MinConns
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = time.Minute * 30
	poolConfig.HealthCheckPeriod = time.Minute * 5

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

// CreateTables creates all required tables if they don't exist
func CreateTables(ctx context.Context, pool *pgxpool.Pool) error {
	// Journals table - one row per travel entry
	journalsTable := `
		CREATE TABLE IF NOT EXISTS journals (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			user_id VARCHAR(255) NOT NULL,
			title VARCHAR(500) NOT NULL CHECK (title <> ''),
			location TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			cover_image TEXT NULL,
			gallery TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	// Uploads table - ledger of stored objects, used to sweep orphans
	uploadsTable := `
		CREATE TABLE IF NOT EXISTS uploads (
			object_key TEXT PRIMARY KEY,
			url TEXT NOT NULL,
			user_id VARCHAR(255) NOT NULL,
			content_type VARCHAR(100),
			file_size BIGINT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_journals_user_id ON journals(user_id);`,
		`CREATE INDEX IF NOT EXISTS idx_journals_created_at ON journals(created_at DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_journals_gallery ON journals USING GIN (gallery);`,
		`CREATE INDEX IF NOT EXISTS idx_uploads_created_at ON uploads(created_at);`,
		`CREATE INDEX IF NOT EXISTS idx_uploads_url ON uploads(url);`,
	}

	for _, table := range []string{journalsTable, uploadsTable} {
		if _, err := pool.Exec(ctx, table); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, index := range indexes {
		if _, err := pool.Exec(ctx, index); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}
