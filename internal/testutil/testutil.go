// Package testutil connects tests to the test Postgres and Redis instances.
package testutil

import (
	"context"
	"fmt"
	"log"

	"go-gin-event-registration/config"
	"go-gin-event-registration/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// Setup connects to the test database and redis and applies the migrations.
func Setup() (*pgxpool.Pool, *redis.Client, func(), error) {
	cfg := config.LoadTestConfig()

	testDB, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize test database: %w", err)
	}
	log.Println("Test database connected successfully")

	if err := database.MigrateUp(context.Background(), testDB); err != nil {
		testDB.Close()
		return nil, nil, nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	testRdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		testDB.Close()
		return nil, nil, nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	log.Println("Test redis connected successfully")

	cleanup := func() {
		testDB.Close()
		log.Println("Test database closed")

		testRdb.Close()
		log.Println("Test redis closed")
	}

	return testDB, testRdb, cleanup, nil
}

// Reset empties every table and the redis test database.
func Reset(ctx context.Context, pool *pgxpool.Pool, rdb *redis.Client) error {
	if _, err := pool.Exec(ctx, "TRUNCATE registrations, visitors, events RESTART IDENTITY CASCADE"); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	if err := rdb.FlushDB(ctx).Err(); err != nil {
		return fmt.Errorf("failed to flush redis: %w", err)
	}
	return nil
}
