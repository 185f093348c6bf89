package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/minhle2104/shopcore-api/internal/usecase"
)

// RedisStatusCache mirrors order status for cheap polling reads. Misses fall
// through to the database; writes are best-effort.
type RedisStatusCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatusCache(rdb *redis.Client, ttl time.Duration) *RedisStatusCache {
	return &RedisStatusCache{rdb: rdb, ttl: ttl}
}

func (c *RedisStatusCache) SetStatus(ctx context.Context, orderID string, status string) error {
	return c.rdb.Set(ctx, "order:status:"+orderID, status, c.ttl).Err()
}

func (c *RedisStatusCache) GetStatus(ctx context.Context, orderID string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, "order:status:"+orderID).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

var _ usecase.OrderStatusCache = (*RedisStatusCache)(nil)
