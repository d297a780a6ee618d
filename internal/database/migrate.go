package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

// MigrateUp applies every *.up.sql file in name order. Statements are idempotent.
func MigrateUp(ctx context.Context, pool *pgxpool.Pool) error {
	return runMigrations(ctx, pool, "migrations/*.up.sql", false)
}

// MigrateDown applies every *.down.sql file in reverse name order.
func MigrateDown(ctx context.Context, pool *pgxpool.Pool) error {
	return runMigrations(ctx, pool, "migrations/*.down.sql", true)
}

func runMigrations(ctx context.Context, pool *pgxpool.Pool, pattern string, reverse bool) error {
	files, err := fs.Glob(migrations, pattern)
	if err != nil {
		return fmt.Errorf("failed to read migration files: %w", err)
	}
	sort.Strings(files)
	if reverse {
		sort.Sort(sort.Reverse(sort.StringSlice(files)))
	}

	for _, file := range files {
		sqlBytes, err := migrations.ReadFile(file)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file, err)
		}
		if _, err := pool.Exec(ctx, string(sqlBytes)); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", file, err)
		}
	}
	return nil
}
