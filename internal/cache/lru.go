package cache

import "go.uber.org/zap"

// DefaultMinReqCount is the admission threshold used when a strategy
// does not configure one explicitly.
const DefaultMinReqCount = 3

// LRUCache wraps a FiniteCache with a recency list and a per-item
// admission counter: an item is only admitted once it has been
// requested min_req_count times, which discards one-hit-wonders on
// Zipfian workloads.
type LRUCache struct {
	*FiniteCache
	recency     *RecencyList
	reqCount    map[string]int
	minReqCount int
}

func NewLRUCache(capacity int64, minReqCount int, logger *zap.Logger) *LRUCache {
	if minReqCount <= 0 {
		minReqCount = DefaultMinReqCount
	}
	return &LRUCache{
		FiniteCache: NewFiniteCache(capacity, logger),
		recency:     NewRecencyList(),
		reqCount:    make(map[string]int),
		minReqCount: minReqCount,
	}
}

// Retrieve touches the recency list on every hit.
func (c *LRUCache) Retrieve(identifier string, atTimestamp int64) *CacheItem {
	item := c.FiniteCache.Retrieve(identifier, atTimestamp)
	if item != nil {
		c.recency.Touch(identifier)
	}
	return item
}

// Store applies the admission filter before evicting and storing.
// Oversized items are rejected silently; items below the admission
// threshold are counted but not stored.
func (c *LRUCache) Store(identifier string, item *CacheItem, atTimestamp int64) error {
	if item.ByteSize > c.Capacity() {
		return nil
	}

	c.reqCount[identifier]++
	if c.reqCount[identifier] < c.minReqCount {
		return nil
	}
	delete(c.reqCount, identifier)

	if !c.ContentFits(item) {
		if err := c.evict(item.ByteSize); err != nil {
			return err
		}
	}

	if err := c.FiniteCache.Store(identifier, item); err != nil {
		return err
	}
	c.recency.Touch(identifier)
	return nil
}

// Remove keeps the recency list in sync with the underlying cache.
func (c *LRUCache) Remove(identifier string) {
	c.FiniteCache.Remove(identifier)
	c.recency.Remove(identifier)
}

// evict pops tail identifiers until `need` bytes are free. Requesting
// more than the total capacity is a logic error further up the stack
// and is reported loudly rather than looped on forever.
func (c *LRUCache) evict(need int64) error {
	if need > c.Capacity() {
		return ErrNotEnoughCapacity("", need, c.Capacity())
	}
	freed := c.CapacityAvailable()
	for freed < need {
		id, ok := c.recency.PopTail()
		if !ok {
			return ErrNotEnoughCapacity("", need, freed)
		}
		var size int64
		if item := c.RetrieveNoMetrics(id); item != nil {
			size = item.ByteSize
		}
		c.Remove(id)
		freed += size
	}
	return nil
}

// RecencyIds returns identifiers most-recent-first, for tests that
// assert the recency-list invariant.
func (c *LRUCache) RecencyIds() []string {
	return c.recency.Ids()
}

// CooperativeLRUCache adds a remembered peer hint on top of an
// LRUCache, used by cooperative strategies to skip the neighbour
// search on repeat misses for the same identifier.
type CooperativeLRUCache struct {
	*LRUCache
	ContentNeighbour map[string]string
}

func NewCooperativeLRUCache(capacity int64, minReqCount int, logger *zap.Logger) *CooperativeLRUCache {
	return &CooperativeLRUCache{
		LRUCache:         NewLRUCache(capacity, minReqCount, logger),
		ContentNeighbour: make(map[string]string),
	}
}
