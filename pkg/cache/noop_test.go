package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCache_AlwaysMisses(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()
	key := TableSchema(strp("test"), "users")

	_, ok, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, []byte("d"), nil))

	deleted, err := c.Delete(ctx, key)
	require.NoError(t, err)
	assert.False(t, deleted)

	exists, err := c.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	n, err := c.DeleteByPrefix(ctx, "tbl_schema")
	require.NoError(t, err)
	assert.Zero(t, n)

	meta, err := c.Metadata(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, meta)

	require.NoError(t, c.Clear(ctx))
	require.NoError(t, c.HealthCheck(ctx))
}

func TestNoopCache_TracksMisses(t *testing.T) {
	c := NewNoopCache()
	ctx := context.Background()
	key := TableSchema(strp("test"), "users")

	for i := 0; i < 3; i++ {
		_, _, _ = c.Get(ctx, key)
	}

	stats := c.Stats()
	assert.EqualValues(t, 3, stats.Misses)
	assert.Zero(t, stats.Hits)
}
