package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/AhemdNada/alx-company/internal/metrics"
)

const redisKeyPrefix = "content_cache:"

// Redis is a Store backed by a shared Redis instance, for deployments that
// run more than one backend replica. Every Redis failure degrades to a cache
// miss; the database remains the source of truth.
type Redis struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

// NewRedis creates a Redis-backed Store with the given TTL.
func NewRedis(rdb goredis.Cmdable, ttl time.Duration) *Redis {
	return &Redis{rdb: rdb, ttl: ttl}
}

// Get returns the cached snapshot, treating any Redis error as a miss.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	data, err := r.rdb.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			slog.Warn("Redis cache GET failed, treating as miss", "key", key, "error", err)
		}
		metrics.CacheMissesTotal.Inc()
		return nil, false
	}
	metrics.CacheHitsTotal.Inc()
	return data, true
}

// Set stores the snapshot best-effort; failures are logged, never surfaced.
func (r *Redis) Set(ctx context.Context, key string, value []byte) {
	if err := r.rdb.Set(ctx, redisKeyPrefix+key, value, r.ttl).Err(); err != nil {
		slog.Warn("Failed to populate Redis cache", "key", key, "error", err)
	}
}

// Delete removes the snapshot best-effort. A failed delete leaves a stale
// entry that self-corrects after the TTL.
func (r *Redis) Delete(ctx context.Context, key string) {
	if err := r.rdb.Del(ctx, redisKeyPrefix+key).Err(); err != nil {
		slog.Warn("Failed to invalidate Redis cache", "key", key, "error", err)
	}
}
