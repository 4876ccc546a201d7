package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestClient_SetGetDelete(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestClient_JSON(t *testing.T) {
	c, _ := newTestClient(t)
	ctx := context.Background()

	type payload struct {
		Area string `json:"area"`
	}
	c.SetJSON(ctx, "feed", payload{Area: "Jari Mari"}, time.Minute)

	var out payload
	assert.True(t, c.GetJSON(ctx, "feed", &out))
	assert.Equal(t, "Jari Mari", out.Area)

	assert.False(t, c.GetJSON(ctx, "missing", &out))
}

func TestClient_FailSafeWhenRedisDown(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	mr.Close()

	assert.Error(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestClient_NilIsEmptyCache(t *testing.T) {
	var c *Client
	ctx := context.Background()

	assert.NoError(t, c.Ping(ctx))
	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
	var out map[string]string
	assert.False(t, c.GetJSON(ctx, "k", &out))
	c.SetJSON(ctx, "k", out, time.Minute)
}

func TestClient_StrictOperations(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()

	got, err := c.Lookup(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Store(ctx, "k", []byte("v"), time.Minute))
	got, err = c.Lookup(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	require.NoError(t, c.Remove(ctx, "k"))
	assert.False(t, mr.Exists("k"))
}

func TestClient_StrictOperationsReportOutage(t *testing.T) {
	c, mr := newTestClient(t)
	ctx := context.Background()
	mr.Close()

	_, err := c.Lookup(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, c.Store(ctx, "k", []byte("v"), time.Minute))
	assert.Error(t, c.Remove(ctx, "k"))

	// The lenient operations still behave like an empty cache.
	got, err := c.Get(ctx, "k")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_StrictOperationsWithoutRedis(t *testing.T) {
	var c *Client
	ctx := context.Background()

	_, err := c.Lookup(ctx, "k")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.ErrorIs(t, c.Store(ctx, "k", nil, time.Minute), ErrNotConfigured)
	assert.ErrorIs(t, c.Remove(ctx, "k"), ErrNotConfigured)
}
