package pricing

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/2492dfd/stockLog-final/logger"
)

const redisKeyPrefix = "stocklog:price:"

// RedisCache shares quotes between server instances. Redis errors are logged
// and the lookup falls through to the wrapped provider.
type RedisCache struct {
	next   Provider
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(next Provider, client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{next: next, client: client, ttl: ttl}
}

func (c *RedisCache) Name() string { return c.next.Name() }

func (c *RedisCache) Quote(ctx context.Context, ticker string) (Quote, error) {
	key := redisKeyPrefix + ticker

	val, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var q Quote
		if jsonErr := json.Unmarshal([]byte(val), &q); jsonErr == nil {
			return q, nil
		}
		logger.Warn(ctx, "Discarding corrupt cached quote", "key", key)
	case !errors.Is(err, redis.Nil):
		logger.Warn(ctx, "Redis Get failed", "key", key, "error", err)
	}

	q, err := c.next.Quote(ctx, ticker)
	if err != nil {
		return Quote{}, err
	}

	data, err := json.Marshal(q)
	if err == nil {
		err = c.client.Set(ctx, key, data, c.ttl).Err()
	}
	if err != nil {
		logger.Warn(ctx, "Redis Set failed", "key", key, "error", err)
	}
	return q, nil
}
