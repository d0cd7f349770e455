package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func newRedisCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client, "test:"), mr
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("set and get", func(t *testing.T) {
		c, mr := newRedisCache(t)
		require.NoError(t, c.Set(ctx, "k", payload{Name: "a", Count: 2}, time.Minute))

		var got payload
		require.NoError(t, c.Get(ctx, "k", &got))
		assert.Equal(t, payload{Name: "a", Count: 2}, got)
		assert.True(t, mr.Exists("test:k"))
	})

	t.Run("miss", func(t *testing.T) {
		c, _ := newRedisCache(t)
		var got payload
		assert.ErrorIs(t, c.Get(ctx, "absent", &got), ErrCacheMiss)
	})

	t.Run("expired", func(t *testing.T) {
		c, mr := newRedisCache(t)
		require.NoError(t, c.Set(ctx, "k", payload{}, time.Second))
		mr.FastForward(2 * time.Second)

		exists, err := c.Exists(ctx, "k")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("delete several keys", func(t *testing.T) {
		c, mr := newRedisCache(t)
		for _, k := range []string{"stats", "record:1", "record:2"} {
			require.NoError(t, c.Set(ctx, k, payload{}, time.Minute))
		}

		require.NoError(t, c.Delete(ctx, "stats", "record:1"))

		assert.False(t, mr.Exists("test:stats"))
		assert.False(t, mr.Exists("test:record:1"))
		assert.True(t, mr.Exists("test:record:2"))
	})
}

func TestMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "list:1", payload{Name: "x"}, time.Minute))
	require.NoError(t, c.Set(ctx, "stats", payload{Count: 9}, time.Minute))

	var got payload
	require.NoError(t, c.Get(ctx, "stats", &got))
	assert.Equal(t, 9, got.Count)

	require.NoError(t, c.Delete(ctx, "list:1"))
	exists, _ := c.Exists(ctx, "list:1")
	assert.False(t, exists)

	require.NoError(t, c.Set(ctx, "short", payload{}, -time.Second))
	assert.ErrorIs(t, c.Get(ctx, "short", &got), ErrCacheMiss)
}
