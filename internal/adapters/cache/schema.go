package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the route cache table if it does not exist.
// The statements are valid for both SQLite and Postgres.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createRouteCacheQuery := `
	CREATE TABLE IF NOT EXISTS route_cache (
        route_key TEXT PRIMARY KEY,
        distance_miles DOUBLE PRECISION NOT NULL,
        duration_hours DOUBLE PRECISION NOT NULL,
        path_json TEXT
    );
	`

	statements := []string{
		createRouteCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// Purge removes every cached route.
func Purge(ctx context.Context, db *sql.DB) (int64, error) {
	if db == nil {
		return 0, errors.New("purge route cache: DB is nil")
	}

	res, err := db.ExecContext(ctx, `DELETE FROM route_cache;`)
	if err != nil {
		return 0, fmt.Errorf("purge route cache: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purge route cache: rows affected: %w", err)
	}
	return n, nil
}
