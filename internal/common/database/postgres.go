package database

import (
	"context"
	"database/sql"
	"fmt"

	"wisefido-sedentary/internal/common/config"

	_ "github.com/lib/pq"
)

// NewPostgresDB opens the PostgreSQL pool and verifies the connection.
func NewPostgresDB(ctx context.Context, cfg *config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	}
	if cfg.MaxIdle > 0 {
		db.SetMaxIdleConns(cfg.MaxIdle)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// Close closes the pool; nil is allowed.
func Close(db *sql.DB) error {
	if db != nil {
		return db.Close()
	}
	return nil
}
