package database

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
)

//go:embed migrations/auth_001_initial.up.sql
var authMigrationSQL string

//go:embed migrations/tasks_001_initial.up.sql
var tasksMigrationSQL string

// EnsureAuthSchema creates the users table for the auth service.
func (db *DB) EnsureAuthSchema(ctx context.Context) error {
	return db.ensureSchema(ctx, "users", authMigrationSQL)
}

// EnsureTasksSchema creates the tasks table for the tasks service.
func (db *DB) EnsureTasksSchema(ctx context.Context) error {
	return db.ensureSchema(ctx, "tasks", tasksMigrationSQL)
}

func (db *DB) ensureSchema(ctx context.Context, table string, migrationSQL string) error {
	if db == nil || db.Pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}

	exists, err := db.hasTable(ctx, table)
	if err != nil {
		return fmt.Errorf("check %s table: %w", table, err)
	}

	if !exists {
		slog.Info("database schema missing table; applying migration", "table", table)
		if _, err := db.Pool.Exec(ctx, migrationSQL); err != nil {
			return fmt.Errorf("apply %s migration: %w", table, err)
		}

		exists, err = db.hasTable(ctx, table)
		if err != nil {
			return fmt.Errorf("re-check %s table after migration: %w", table, err)
		}
		if !exists {
			return fmt.Errorf("schema initialization incomplete: %s table is still missing", table)
		}
	}

	slog.Info("database schema ensured", "table", table)
	return nil
}

func (db *DB) hasTable(ctx context.Context, table string) (bool, error) {
	var exists bool
	err := db.Pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)
	`, table).Scan(&exists)
	if err != nil {
		return false, err
	}

	return exists, nil
}
