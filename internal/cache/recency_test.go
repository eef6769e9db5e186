package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecencyList(t *testing.T) {
	t.Run("touch is a no-op when already head", func(t *testing.T) {
		r := NewRecencyList()
		r.Touch("A")
		r.Touch("A")
		assert.Equal(t, 1, r.Len())
		assert.Equal(t, []string{"A"}, r.Ids())
	})

	t.Run("touch reorders to front", func(t *testing.T) {
		r := NewRecencyList()
		r.Touch("A")
		r.Touch("B")
		r.Touch("C")
		r.Touch("A")

		assert.Equal(t, []string{"A", "C", "B"}, r.Ids())
	})

	t.Run("pop tail removes the least recent", func(t *testing.T) {
		r := NewRecencyList()
		r.Touch("A")
		r.Touch("B")

		id, ok := r.PopTail()
		assert.True(t, ok)
		assert.Equal(t, "A", id)
		assert.False(t, r.Contains("A"))
	})

	t.Run("pop tail on empty list reports empty", func(t *testing.T) {
		r := NewRecencyList()
		_, ok := r.PopTail()
		assert.False(t, ok)
	})

	t.Run("head nil iff tail nil iff index empty", func(t *testing.T) {
		r := NewRecencyList()
		r.Touch("A")
		r.PopTail()
		assert.Equal(t, 0, r.Len())
		assert.Empty(t, r.Ids())
	})
}
