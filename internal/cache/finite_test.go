package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiniteCache_StoreRetrieveRemove(t *testing.T) {
	t.Run("store rejects over capacity", func(t *testing.T) {
		c := NewFiniteCache(10, nil)
		item := NewCacheItem("A", 20)

		err := c.Store("A", item)

		var capErr *NotEnoughCapacityError
		require.ErrorAs(t, err, &capErr)
		assert.False(t, c.Has("A"))
	})

	t.Run("store is a no-op when already present", func(t *testing.T) {
		c := NewFiniteCache(100, nil)
		item := NewCacheItem("A", 10)
		require.NoError(t, c.Store("A", item))
		require.NoError(t, c.Store("A", item))

		assert.Equal(t, int64(10), c.CapacityUsed())
		assert.Equal(t, int64(1), c.MetricsSnapshot().NoItems)
	})

	t.Run("retrieve stamps last accessed and tracks nothing else", func(t *testing.T) {
		c := NewFiniteCache(100, nil)
		item := NewCacheItem("A", 10)
		require.NoError(t, c.Store("A", item))
		before := c.MetricsSnapshot()

		got := c.Retrieve("A", 42)
		require.NotNil(t, got)
		assert.Equal(t, int64(42), got.LastAccessed)
		assert.Equal(t, before, c.MetricsSnapshot())
	})

	t.Run("retrieve no metrics does not stamp last accessed", func(t *testing.T) {
		c := NewFiniteCache(100, nil)
		item := NewCacheItem("A", 10)
		require.NoError(t, c.Store("A", item))

		got := c.RetrieveNoMetrics("A")
		require.NotNil(t, got)
		assert.Equal(t, int64(-1), got.LastAccessed)
	})

	t.Run("remove of missing key is a non-fatal no-op", func(t *testing.T) {
		c := NewFiniteCache(100, nil)
		assert.NotPanics(t, func() { c.Remove("missing") })
	})

	t.Run("bytes used mirrors stored items", func(t *testing.T) {
		c := NewFiniteCache(100, nil)
		require.NoError(t, c.Store("A", NewCacheItem("A", 10)))
		require.NoError(t, c.Store("B", NewCacheItem("B", 15)))
		assert.Equal(t, int64(25), c.CapacityUsed())

		c.Remove("A")
		assert.Equal(t, int64(15), c.CapacityUsed())
	})
}
