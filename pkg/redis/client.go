// Package redis initializes the optional Redis connection.
package redis

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/Proton-105/egeshop-bot/pkg/config"
)

// New creates a Redis client from cfg and verifies the connection with Ping.
// The returned client carries a metrics hook for Prometheus instrumentation.
func New(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	rdb.AddHook(newMetricsHook())

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}
