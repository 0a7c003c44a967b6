package idempotency

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisStore(t *testing.T) Store {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisStore(client, nil)
}

func TestManager_ExecutesOnce(t *testing.T) {
	stores := map[string]Store{
		"redis":  setupRedisStore(t),
		"memory": NewMemoryStore(),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			mgr := NewManager(store, nil)
			calls := 0
			fn := func(ctx context.Context) (interface{}, error) {
				calls++
				return "ok", nil
			}

			first, err := mgr.Execute(context.Background(), "cb-1", time.Minute, fn)
			require.NoError(t, err)
			assert.False(t, first.FromCache)

			second, err := mgr.Execute(context.Background(), "cb-1", time.Minute, fn)
			require.NoError(t, err)
			assert.True(t, second.FromCache)
			assert.Equal(t, "ok", second.Response)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestManager_DistinctKeysRunIndependently(t *testing.T) {
	mgr := NewManager(NewMemoryStore(), nil)
	calls := 0
	fn := func(ctx context.Context) (interface{}, error) {
		calls++
		return calls, nil
	}

	_, err := mgr.Execute(context.Background(), "cb-1", time.Minute, fn)
	require.NoError(t, err)
	_, err = mgr.Execute(context.Background(), "cb-2", time.Minute, fn)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestManager_FailedOperationIsNotCached(t *testing.T) {
	mgr := NewManager(NewMemoryStore(), nil)
	calls := 0
	fn := func(ctx context.Context) (interface{}, error) {
		calls++
		if calls == 1 {
			return nil, assert.AnError
		}
		return "ok", nil
	}

	_, err := mgr.Execute(context.Background(), "cb-1", time.Minute, fn)
	require.Error(t, err)

	result, err := mgr.Execute(context.Background(), "cb-1", time.Minute, fn)
	require.NoError(t, err)
	assert.False(t, result.FromCache)
	assert.Equal(t, 2, calls)
}

func TestGenerateKey_Deterministic(t *testing.T) {
	a := GenerateKey(int64(42), "broadcast_confirm", "cbq-17")
	b := GenerateKey(int64(42), "broadcast_confirm", "cbq-17")
	c := GenerateKey(int64(42), "broadcast_confirm", "cbq-18")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore().(*MemoryStore)

	err := store.Set(context.Background(), "k", &Record{Status: StatusCompleted}, time.Millisecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	store.Sweep()

	record, err := store.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Nil(t, record)
}
