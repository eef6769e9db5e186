package cache

import "go.uber.org/zap"

// FiniteCache is the shared capacity-accounting base used by every
// cache variant in this package. Store/Retrieve/Remove are the only
// primitives it needs; eviction policy lives one layer up.
type FiniteCache struct {
	capacity     int64
	capacityUsed int64
	content      map[string]*CacheItem
	metrics      CacheMetrics
	logger       *zap.Logger
}

func NewFiniteCache(capacity int64, logger *zap.Logger) *FiniteCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FiniteCache{
		capacity: capacity,
		content:  make(map[string]*CacheItem),
		logger:   logger,
	}
}

func (c *FiniteCache) Capacity() int64          { return c.capacity }
func (c *FiniteCache) CapacityUsed() int64      { return c.capacityUsed }
func (c *FiniteCache) CapacityAvailable() int64 { return c.capacity - c.capacityUsed }
func (c *FiniteCache) Len() int                 { return len(c.content) }

func (c *FiniteCache) ContentFits(item *CacheItem) bool {
	return c.CapacityAvailable() >= item.ByteSize
}

func (c *FiniteCache) Has(identifier string) bool {
	_, ok := c.content[identifier]
	return ok
}

// Metrics exposes the live counters for direct mutation by strategies,
// which are responsible for updating the metrics of every node they
// touch.
func (c *FiniteCache) Metrics() *CacheMetrics {
	return &c.metrics
}

// MetricsSnapshot returns a copy, safe to retain across iterations.
func (c *FiniteCache) MetricsSnapshot() CacheMetrics {
	return c.metrics
}

// Store admits an item, no-op if already present, failing if capacity
// would be exceeded.
func (c *FiniteCache) Store(identifier string, item *CacheItem) error {
	if _, ok := c.content[identifier]; ok {
		return nil
	}
	if !c.ContentFits(item) {
		return ErrNotEnoughCapacity(identifier, item.ByteSize, c.CapacityAvailable())
	}
	c.capacityUsed += item.ByteSize
	c.content[identifier] = item
	c.metrics.TrackItemStored(item.ByteSize)
	return nil
}

// Retrieve is the metric-affecting read path: on a hit it stamps
// LastAccessed and returns the item.
func (c *FiniteCache) Retrieve(identifier string, atTimestamp int64) *CacheItem {
	item, ok := c.content[identifier]
	if !ok {
		return nil
	}
	item.LastAccessed = atTimestamp
	return item
}

// RetrieveNoMetrics peeks at an item without touching recency or
// timestamps. Used by cooperative strategies probing a peer cache.
func (c *FiniteCache) RetrieveNoMetrics(identifier string) *CacheItem {
	return c.content[identifier]
}

// Remove evicts an entry, logging (never failing) if it was already
// absent.
func (c *FiniteCache) Remove(identifier string) {
	item, ok := c.content[identifier]
	if !ok {
		c.logger.Debug("remove of missing key", zap.String("identifier", identifier))
		return
	}
	c.capacityUsed -= item.ByteSize
	delete(c.content, identifier)
	c.metrics.TrackItemRemoved(item.ByteSize)
}
