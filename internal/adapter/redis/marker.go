// Package redis keeps short-lived "already done" markers in Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/go-redis/redis/v8"

	"github.com/heartmarshall/gratitude-backend/internal/config"
	"github.com/heartmarshall/gratitude-backend/internal/domain"
)

// MarkerStore sets once-only markers with SETNX.
type MarkerStore struct {
	client *goredis.Client
	prefix string
}

// New connects to Redis and pings it.
func New(ctx context.Context, cfg config.RedisConfig) (*MarkerStore, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w: %v", cfg.Addr, domain.ErrBackendUnavailable, err)
	}
	return &MarkerStore{client: client, prefix: "gratitude:"}, nil
}

// Mark sets key for ttl and reports whether this call set it. A false
// result means the marker already existed.
func (m *MarkerStore) Mark(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := m.client.SetNX(ctx, m.prefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	return ok, nil
}

// Unmark removes key so the work can be retried.
func (m *MarkerStore) Unmark(ctx context.Context, key string) error {
	if err := m.client.Del(ctx, m.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Ping checks that Redis still answers.
func (m *MarkerStore) Ping(ctx context.Context) error {
	return m.client.Ping(ctx).Err()
}

// Close releases the connection pool.
func (m *MarkerStore) Close() error {
	return m.client.Close()
}
