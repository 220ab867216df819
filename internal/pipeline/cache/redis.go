// Package cache provides the Redis-backed statistics cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"jobguinee_backend/internal/pipeline/domain"
)

const statsKey = "b2b:pipeline:stats"

// RedisStatsCache caches the dashboard aggregate as a JSON blob under a
// single key with a TTL.
type RedisStatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStatsCache(client *redis.Client, ttl time.Duration) *RedisStatsCache {
	return &RedisStatsCache{client: client, ttl: ttl}
}

func (c *RedisStatsCache) Get(ctx context.Context) (domain.Statistics, bool, error) {
	raw, err := c.client.Get(ctx, statsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Statistics{}, false, nil
	}
	if err != nil {
		return domain.Statistics{}, false, err
	}
	var stats domain.Statistics
	if err := json.Unmarshal(raw, &stats); err != nil {
		// A corrupt blob is treated as a miss so it gets rewritten.
		return domain.Statistics{}, false, nil
	}
	return stats, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, stats domain.Statistics) error {
	raw, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, statsKey, raw, c.ttl).Err()
}

// Invalidate drops the cached aggregate so the next read recomputes it.
// Wired to pipeline status change events.
func (c *RedisStatsCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, statsKey).Err()
}
