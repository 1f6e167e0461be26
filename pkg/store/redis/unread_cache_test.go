package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*UnreadCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewUnreadCache(client), mr
}

// TestUnreadCache_SetGet tests the round trip through Redis.
func TestUnreadCache_SetGet(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	// Miss before any write
	_, ok := cache.Get(ctx, 1)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, 1, 7))

	count, ok := cache.Get(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, int64(7), count)

	// Counts are per user
	_, ok = cache.Get(ctx, 2)
	assert.False(t, ok)
}

// TestUnreadCache_Invalidate tests that invalidation forces a miss.
func TestUnreadCache_Invalidate(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 42, 3))
	require.NoError(t, cache.Invalidate(ctx, 42))

	_, ok := cache.Get(ctx, 42)
	assert.False(t, ok)
}

// TestUnreadCache_RedisDown tests graceful degradation when Redis is gone.
func TestUnreadCache_RedisDown(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, 1, 5))
	mr.Close()

	// Get degrades to a miss, never an error the caller must handle
	_, ok := cache.Get(ctx, 1)
	assert.False(t, ok)

	// Writes surface the error so callers can log it
	assert.Error(t, cache.Set(ctx, 1, 6))
}
