package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go-gin-event-registration/internal/model"
	apperrors "go-gin-event-registration/pkg/app_errors"

	"github.com/redis/go-redis/v9"
)

type EventIncomeCache interface {
	// Get returns the cached income or ErrIncomeNotCached.
	Get(ctx context.Context, eventID int) (model.EventIncome, error)
	// Version returns the invalidation counter of an event. Read it before
	// loading the income that is passed to Set.
	Version(ctx context.Context, eventID int) (int64, error)
	// Set stores the income unless the event was invalidated after version was read.
	Set(ctx context.Context, eventID int, version int64, income model.EventIncome) error
	// Invalidate drops the cached income of the given events.
	Invalidate(ctx context.Context, eventIDs ...int) error
}

type RedisEventIncomeCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisEventIncomeCache(client *redis.Client, ttl time.Duration) EventIncomeCache {
	return &RedisEventIncomeCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *RedisEventIncomeCache) getKey(eventID int) string {
	return fmt.Sprintf("event:%d:income", eventID)
}

func (c *RedisEventIncomeCache) getVersionKey(eventID int) string {
	return fmt.Sprintf("event:%d:income:version", eventID)
}

func (c *RedisEventIncomeCache) Get(ctx context.Context, eventID int) (model.EventIncome, error) {
	result, err := c.client.HGetAll(ctx, c.getKey(eventID)).Result()
	if err != nil {
		return model.EventIncome{}, err
	}

	if len(result) == 0 {
		return model.EventIncome{}, apperrors.ErrIncomeNotCached
	}

	total, err := strconv.Atoi(result["total"])
	if err != nil {
		return model.EventIncome{}, fmt.Errorf("invalid total income: %v", err)
	}

	expected, err := strconv.Atoi(result["expected"])
	if err != nil {
		return model.EventIncome{}, fmt.Errorf("invalid expected income: %v", err)
	}

	return model.EventIncome{
		TotalIncome:    total,
		ExpectedIncome: expected,
	}, nil
}

func (c *RedisEventIncomeCache) Version(ctx context.Context, eventID int) (int64, error) {
	version, err := c.client.Get(ctx, c.getVersionKey(eventID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return version, err
}

func (c *RedisEventIncomeCache) Set(ctx context.Context, eventID int, version int64, income model.EventIncome) error {
	key := c.getKey(eventID)
	versionKey := c.getVersionKey(eventID)

	err := c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, versionKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != version {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, map[string]interface{}{
				"total":    income.TotalIncome,
				"expected": income.ExpectedIncome,
			})
			pipe.Expire(ctx, key, c.ttl)
			return nil
		})
		return err
	}, versionKey)

	// an invalidation raced the write, the stale income is dropped
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	return err
}

func (c *RedisEventIncomeCache) Invalidate(ctx context.Context, eventIDs ...int) error {
	if len(eventIDs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(eventIDs))
	pipe := c.client.TxPipeline()
	for _, id := range eventIDs {
		keys = append(keys, c.getKey(id))
		pipe.Incr(ctx, c.getVersionKey(id))
	}
	pipe.Del(ctx, keys...)
	_, err := pipe.Exec(ctx)
	return err
}
