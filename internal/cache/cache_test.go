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

func TestKey(t *testing.T) {
	assert.Equal(t, "atlas:v1:highlight:abc", Key("highlight", "abc"))
	assert.Equal(t, "atlas:v1:", Key())
}

func exercise(t *testing.T, c Cache) {
	ctx := context.Background()
	_, ok := c.Get(ctx, Key("missing"))
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, Key("a"), []byte("1"), time.Minute))
	v, ok := c.Get(ctx, Key("a"))
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)

	require.NoError(t, c.Delete(ctx, Key("a")))
	_, ok = c.Get(ctx, Key("a"))
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, Key("b"), []byte("2"), time.Minute))
	require.NoError(t, c.Clear(ctx))
	_, ok = c.Get(ctx, Key("b"))
	assert.False(t, ok)
}

func TestMemoryCache(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	exercise(t, c)
	assert.Equal(t, 0, c.Len())
}

func TestRedisCache(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	exercise(t, NewRedisCache(rdb))
}

func TestRedisCache_ClearKeepsForeignKeys(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	c := NewRedisCache(rdb)
	require.NoError(t, rdb.Set(ctx, "health:global:req_total", "3", 0).Err())
	require.NoError(t, c.Set(ctx, Key("x"), []byte("y"), 0))
	require.NoError(t, c.Clear(ctx))

	assert.True(t, mr.Exists("health:global:req_total"))
	assert.False(t, mr.Exists(Key("x")))
}

func TestRedisCache_TTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	c := NewRedisCache(rdb)
	require.NoError(t, c.Set(ctx, Key("ttl"), []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)
	_, ok := c.Get(ctx, Key("ttl"))
	assert.False(t, ok)
}
