// Package cache provides a Redis-backed response cache for the read API.
// The worker runs fine without it; callers treat a nil cache or a failed
// connection as a permanent miss.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"spoilerfree/ingestion/internal/metrics"
)

// KeyRecentGames caches the recent-games listing; invalidated after every
// successful analysis run
const KeyRecentGames = "spoilerfree:games:recent"

// Config holds Redis connection configuration
type Config struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// RedisCache wraps a Redis client for response caching
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to Redis and verifies the connection
func NewRedisCache(ctx context.Context, cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("port", cfg.Port).
		Msg("Connected to Redis")

	return &RedisCache{client: client}, nil
}

// Get retrieves a cached value; the second return reports a hit
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.Warn().Err(err).Str("key", key).Msg("Cache read failed")
			metrics.RecordError("cache", "read_failed")
		}
		metrics.RecordCacheMiss()
		return nil, false
	}

	metrics.RecordCacheHit()
	return val, true
}

// Set stores a value with a TTL. Failures are logged and absorbed; the
// cache is an optimization, never a dependency.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if c == nil {
		return
	}

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache write failed")
		metrics.RecordError("cache", "write_failed")
	}
}

// Delete removes a key
func (c *RedisCache) Delete(ctx context.Context, key string) {
	if c == nil {
		return
	}

	if err := c.client.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("Cache delete failed")
		metrics.RecordError("cache", "delete_failed")
	}
}

// Health checks the Redis connection
func (c *RedisCache) Health(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("cache not configured")
	}
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection
func (c *RedisCache) Close() {
	if c != nil {
		if err := c.client.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis connection")
		}
	}
}
