package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecc24clmk/clmk-site/internal/config"
)

type payload struct {
	Name  string            `json:"name"`
	Items map[string]string `json:"items"`
}

func exercise(t *testing.T, c Cache) {
	t.Helper()

	ctx := context.Background()

	var got payload

	found, err := c.Get(ctx, "shared_settings", &got)
	require.NoError(t, err)
	assert.False(t, found)

	want := payload{Name: "CLMK", Items: map[string]string{"site_name": "CLMK"}}
	require.NoError(t, c.Set(ctx, "shared_settings", want, time.Minute))
	require.NoError(t, c.Set(ctx, "homepage_settings", want, time.Minute))

	found, err = c.Get(ctx, "shared_settings", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, want, got)

	require.NoError(t, c.Delete(ctx, "shared_settings", "homepage_settings", "missing"))

	found, err = c.Get(ctx, "homepage_settings", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStorageCache(t *testing.T) {
	exercise(t, NewStorage(memory.New()))
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Ping(context.Background()))
	exercise(t, c)

	ctx := context.Background()
	require.NoError(t, c.Set(ctx, "ttl", "v", time.Second))
	assert.True(t, mr.Exists(KeyPrefix+"ttl"), "keys are namespaced")

	mr.FastForward(2 * time.Second)

	var s string

	found, err := c.Get(ctx, "ttl", &s)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, mr.Set(KeyPrefix+"broken", "{not json"))
	_, err = c.Get(ctx, "broken", &s)
	require.Error(t, err)
}

func TestNoop(t *testing.T) {
	ctx := context.Background()
	c := Noop{}

	require.NoError(t, c.Set(ctx, "k", 1, time.Minute))

	var v int

	found, err := c.Get(ctx, "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
	require.NoError(t, c.Delete(ctx, "k"))
}

func TestNew(t *testing.T) {
	c, err := New(config.Cache{Driver: config.CacheDriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Storage{}, c)

	c, err = New(config.Cache{Driver: config.CacheDriverNone})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, c)

	c, err = New(config.Cache{Driver: config.CacheDriverRedis, Redis: config.Redis{Addr: "127.0.0.1:0"}})
	require.NoError(t, err)
	assert.IsType(t, &Redis{}, c)

	_, err = New(config.Cache{Driver: "memcached"})
	require.ErrorIs(t, err, config.ErrUnknownCacheDriver)
}
