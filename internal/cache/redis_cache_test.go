package cache

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	ID        string   `json:"id"`
	Tolerance *float64 `json:"tolerance,omitempty"`
	Points    []string `json:"points"`
}

func newTestCache(t *testing.T) (CacheService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client, slog.New(slog.NewTextHandler(io.Discard, nil))), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	tol := 0.01

	in := []entry{{ID: "Q1", Points: []string{"chain rule"}}, {ID: "Q2", Tolerance: &tol, Points: []string{}}}
	require.NoError(t, c.Set(ctx, "snapshot:v1", in, time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("snapshot:v1"))

	var out []entry
	require.NoError(t, c.Get(ctx, "snapshot:v1", &out))
	assert.Equal(t, in, out)
}

func TestRedisCache_Misses(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	t.Run("absent key", func(t *testing.T) {
		var out []entry
		assert.ErrorIs(t, c.Get(ctx, "snapshot:none", &out), ErrCacheMiss)
	})

	t.Run("expired key", func(t *testing.T) {
		require.NoError(t, c.Set(ctx, "snapshot:short", []entry{{ID: "Q1"}}, time.Minute))
		mr.FastForward(2 * time.Minute)

		var out []entry
		assert.ErrorIs(t, c.Get(ctx, "snapshot:short", &out), ErrCacheMiss)
	})

	t.Run("undecodable entry is dropped", func(t *testing.T) {
		require.NoError(t, mr.Set("snapshot:bad", "{not json"))

		var out []entry
		assert.ErrorIs(t, c.Get(ctx, "snapshot:bad", &out), ErrCacheMiss)
		assert.False(t, mr.Exists("snapshot:bad"))
	})
}

func TestRedisCache_DeletePattern(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	// More keys than one SCAN page.
	for i := range 250 {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("snapshot:%03d", i), entry{ID: "Q"}, time.Hour))
	}
	require.NoError(t, c.Set(ctx, "paper:1", entry{ID: "P"}, time.Hour))

	require.NoError(t, c.DeletePattern(ctx, "snapshot:*"))
	assert.Equal(t, []string{"paper:1"}, mr.Keys())

	require.NoError(t, c.DeletePattern(ctx, "snapshot:*"))
	require.NoError(t, c.Delete(ctx, "paper:1"))
	assert.Empty(t, mr.Keys())
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", entry{ID: "Q1"}, time.Hour))
	var out entry
	assert.ErrorIs(t, c.Get(ctx, "k", &out), ErrCacheMiss)
	assert.NoError(t, c.Delete(ctx, "k"))
	assert.NoError(t, c.DeletePattern(ctx, "*"))
}
