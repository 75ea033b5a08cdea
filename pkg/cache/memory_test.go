package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute))

	var got map[string]int
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 1, got["a"])

	found, err = c.Get(ctx, "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))
	now = now.Add(2 * time.Second)

	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryCacheIncrementAndPattern(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	n, err := c.Increment(ctx, "lock:a")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	n, err = c.Increment(ctx, "lock:a")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, c.Set(ctx, "catalog:items", 1, 0))
	require.NoError(t, c.DeletePattern(ctx, "catalog:*"))

	exists, _ := c.Exists(ctx, "catalog:items")
	assert.False(t, exists)
	exists, _ = c.Exists(ctx, "lock:a")
	assert.True(t, exists)
}
