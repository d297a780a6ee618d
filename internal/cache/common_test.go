package cache

import (
	"context"
	"log"
	"os"
	"testing"

	"go-gin-event-registration/config"
	"go-gin-event-registration/internal/database"

	"github.com/redis/go-redis/v9"
)

var testRdb *redis.Client

func TestMain(m *testing.M) {
	cfg := config.LoadTestConfig()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Printf("Test redis unavailable, redis tests will be skipped: %v", err)
	} else {
		testRdb = rdb
		log.Println("Test redis connected successfully")
	}

	code := m.Run()
	if testRdb != nil {
		testRdb.Close()
	}
	os.Exit(code)
}

func getTestRdb(t *testing.T) *redis.Client {
	t.Helper()
	if testRdb == nil {
		t.Skip("test redis is not available")
	}
	return testRdb
}

func clearRedis(ctx context.Context) {
	if err := testRdb.FlushDB(ctx).Err(); err != nil {
		panic(err)
	}
}
