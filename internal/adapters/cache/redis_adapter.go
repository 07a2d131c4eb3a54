package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/medatlas/directory-api/internal/domain/providers"
	"github.com/medatlas/directory-api/pkg/config"
)

// keyPrefix namespaces every directory cache key so the API can share a
// Redis instance with other tenants.
const keyPrefix = "directory:"

const connectTimeout = 5 * time.Second

// RedisAdapter implements CacheProvider over a Redis instance. Used for the
// HTTP response cache and the inquiry throttle when Redis is configured.
type RedisAdapter struct {
	client *redis.Client
}

// NewRedisAdapter connects to the configured Redis instance and verifies
// the connection before returning the adapter.
func NewRedisAdapter(cfg *config.RedisConfig) (*RedisAdapter, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr(),
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: connectTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisAdapter{client: client}, nil
}

var _ providers.CacheProvider = (*RedisAdapter)(nil)

// Get retrieves a value from cache
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := a.client.Get(ctx, keyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, fmt.Errorf("key not found: %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from cache: %w", err)
	}
	return result, nil
}

// Set stores a value in cache with expiration
func (a *RedisAdapter) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	expiration := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Set(ctx, keyPrefix+key, value, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set in cache: %w", err)
	}
	return nil
}

// Delete removes a value from cache
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("failed to delete from cache: %w", err)
	}
	return nil
}

// Exists checks if a key exists in cache
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	result, err := a.client.Exists(ctx, keyPrefix+key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existence in cache: %w", err)
	}
	return result > 0, nil
}

// Increment atomically bumps a counter. The expiry is set only when the
// key is created, so the counting window is fixed from the first hit and
// later increments never extend it.
func (a *RedisAdapter) Increment(ctx context.Context, key string, expirationSeconds int) (int64, error) {
	expiration := time.Duration(expirationSeconds) * time.Second

	pipe := a.client.TxPipeline()
	incr := pipe.Incr(ctx, keyPrefix+key)
	pipe.ExpireNX(ctx, keyPrefix+key, expiration)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to increment counter: %w", err)
	}
	return incr.Val(), nil
}

// Close releases the underlying Redis connection.
func (a *RedisAdapter) Close() error {
	return a.client.Close()
}
