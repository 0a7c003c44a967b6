package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return client
}

func TestRedisLimiter_AllowsWithinLimit(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisLimiter(client, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "user:42", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, result.Allowed, "request %d should be allowed", i+1)
	}
}

func TestRedisLimiter_BlocksWhenExceeded(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisLimiter(client, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		result, err := limiter.Check(ctx, "user:42", 3, time.Minute)
		require.NoError(t, err)
		require.True(t, result.Allowed)
	}

	result, err := limiter.Check(ctx, "user:42", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, result.Allowed)
	assert.Zero(t, result.Remaining)
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	client := setupTestRedis(t)
	limiter := NewRedisLimiter(client, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := limiter.Check(ctx, "user:1", 3, time.Minute)
		require.NoError(t, err)
	}

	result, err := limiter.Check(ctx, "user:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
}

func TestRedisLimiter_NilClient(t *testing.T) {
	limiter := NewRedisLimiter(nil, nil)

	_, err := limiter.Check(context.Background(), "user:1", 3, time.Minute)
	assert.Error(t, err)
}
