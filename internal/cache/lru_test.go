package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRUCache_AdmissionFilter(t *testing.T) {
	t.Run("admits only after min_req_count requests", func(t *testing.T) {
		// Arrange
		c := NewLRUCache(100, 3, nil)
		a := NewCacheItem("A", 40)
		b := NewCacheItem("B", 40)
		cc := NewCacheItem("C", 40)

		// Act — S1: capacity=100, min_req_count=3, A B C requested 3x each
		for ts, id := range []string{"A", "B", "C", "A", "B", "C", "A", "B", "C"} {
			item := map[string]*CacheItem{"A": a, "B": b, "C": cc}[id]
			if c.Retrieve(id, int64(ts)) == nil {
				// The cache leaves hit/miss accounting to its strategy;
				// count the miss here the way LRUStrategy does.
				c.Metrics().TrackMiss()
				require.NoError(t, c.Store(id, item, int64(ts)))
			}
		}

		// Assert — A is evicted (least recent) when C is admitted on its third request
		assert.False(t, c.Has("A"))
		assert.True(t, c.Has("B"))
		assert.True(t, c.Has("C"))
		assert.Equal(t, int64(0), c.Metrics().Hits)
		assert.Equal(t, int64(9), c.Metrics().Misses)
	})

	t.Run("rejects oversized items silently", func(t *testing.T) {
		c := NewLRUCache(10, 1, nil)
		item := NewCacheItem("big", 20)

		for i := 0; i < 5; i++ {
			require.NoError(t, c.Store("big", item, int64(i)))
		}

		assert.False(t, c.Has("big"))
	})

	t.Run("below threshold never admits and never clears counter", func(t *testing.T) {
		c := NewLRUCache(100, 3, nil)
		item := NewCacheItem("A", 10)

		require.NoError(t, c.Store("A", item, 0))
		require.NoError(t, c.Store("A", item, 1))

		assert.False(t, c.Has("A"))
		assert.Equal(t, 2, c.reqCount["A"])
	})
}

func TestLRUCache_Recency(t *testing.T) {
	t.Run("S6: touching keeps an item out of eviction order", func(t *testing.T) {
		c := NewLRUCache(120, 1, nil)
		a, b, cc, d := NewCacheItem("A", 40), NewCacheItem("B", 40), NewCacheItem("C", 40), NewCacheItem("D", 40)

		require.NoError(t, c.Store("A", a, 0))
		require.NoError(t, c.Store("B", b, 1))
		require.NoError(t, c.Store("C", cc, 2))
		require.NotNil(t, c.Retrieve("A", 3)) // A B C A -> tail is B

		ids := c.RecencyIds()
		require.NotEmpty(t, ids)
		assert.Equal(t, "B", ids[len(ids)-1])

		// Inserting D forces one eviction: B (the tail) goes.
		require.NoError(t, c.Store("D", d, 4))
		assert.False(t, c.Has("B"))
		assert.True(t, c.Has("A"))
		assert.True(t, c.Has("C"))
		assert.True(t, c.Has("D"))
	})

	t.Run("recency list stays in sync with cache contents", func(t *testing.T) {
		c := NewLRUCache(50, 1, nil)
		item := NewCacheItem("A", 10)
		require.NoError(t, c.Store("A", item, 0))
		c.Remove("A")

		assert.Empty(t, c.RecencyIds())
		assert.False(t, c.Has("A"))
	})
}

func TestLRUCache_Idempotence(t *testing.T) {
	c := NewLRUCache(100, 1, nil)
	item := NewCacheItem("A", 10)

	require.NoError(t, c.Store("A", item, 0))
	before := c.MetricsSnapshot()

	require.NoError(t, c.Store("A", item, 1))
	after := c.MetricsSnapshot()

	assert.Equal(t, before, after)
}

func TestCooperativeLRUCache_HintLifecycle(t *testing.T) {
	c := NewCooperativeLRUCache(100, 1, nil)
	assert.Empty(t, c.ContentNeighbour)

	c.ContentNeighbour["X"] = "cdn1"
	assert.Equal(t, "cdn1", c.ContentNeighbour["X"])

	delete(c.ContentNeighbour, "X")
	_, ok := c.ContentNeighbour["X"]
	assert.False(t, ok)
}
