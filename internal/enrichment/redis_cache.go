package enrichment

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"chatbuff.app/backend/internal/model"
)

const redisKeyPrefix = "chatbuff:news:"

// RedisCache shares the news cache across process replicas. Values are
// JSON-encoded item lists with the TTL enforced by Redis expiry, so the
// check+populate pair needs no extra coordination.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]model.NewsItem, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.WarnContext(ctx, "redis news cache read failed", "error", err)
		}
		return nil, false
	}

	var items []model.NewsItem
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.WarnContext(ctx, "redis news cache entry corrupt, discarding", "key", key, "error", err)
		return nil, false
	}
	return items, true
}

func (c *RedisCache) Set(ctx context.Context, key string, items []model.NewsItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+key, raw, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "redis news cache write failed", "error", err)
	}
}
