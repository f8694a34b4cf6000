package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// Migrations returns the migration set matching the dialect of db.
func Migrations(db *bun.DB) (*migrate.Migrations, error) {
	dir := "migrations/postgres"
	if db.Dialect().Name() == dialect.SQLite {
		dir = "migrations/sqlite"
	}

	sub, err := fs.Sub(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("open migrations dir: %w", err)
	}

	migrations := migrate.NewMigrations()
	if err := migrations.Discover(sub); err != nil {
		return nil, fmt.Errorf("discover migrations: %w", err)
	}

	return migrations, nil
}

// Migrate applies all pending migrations and returns the names of the
// migrations it ran.
func Migrate(ctx context.Context, db *bun.DB) ([]string, error) {
	migrations, err := Migrations(db)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	if group.IsZero() {
		return nil, nil
	}

	applied := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		applied = append(applied, m.Name)
	}

	return applied, nil
}

// Rollback reverts the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB) ([]string, error) {
	migrations, err := Migrations(db)
	if err != nil {
		return nil, err
	}

	migrator := migrate.NewMigrator(db, migrations)
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("init migrator: %w", err)
	}

	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("rollback migrations: %w", err)
	}

	if group.IsZero() {
		return nil, nil
	}

	reverted := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		reverted = append(reverted, m.Name)
	}

	return reverted, nil
}
