package cache

import (
	"context"
	"fmt"

	"wingmate/internal/config"

	"github.com/redis/go-redis/v9"
)

// NewRedis creates a redis client and verifies connectivity.
func NewRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return client, nil
}
