package strategy

import (
	"github.com/edgecache/simcache/internal/cache"
	"go.uber.org/zap"
)

// LRUStrategy treats every node as an independent LRU cache with no
// cooperation between peers.
type LRUStrategy struct {
	Base
	nodeIDs []string
	nodes   map[string]*cache.LRUCache
}

// NewLRUStrategy builds one LRUCache per configured node, in the order
// nodes are given.
func NewLRUStrategy(nodes []NodeConfig, minReqCount int, logger *zap.Logger) *LRUStrategy {
	s := &LRUStrategy{
		Base:  newBase(),
		nodes: make(map[string]*cache.LRUCache, len(nodes)),
	}
	for _, n := range nodes {
		s.nodeIDs = append(s.nodeIDs, n.ID)
		s.nodes[n.ID] = cache.NewLRUCache(n.CapacityBytes, minReqCount, logger)
	}
	return s
}

func (s *LRUStrategy) OnRequest(userID, nodeID, identifier string, size int64, ts int64) {
	node, ok := s.nodes[nodeID]
	if !ok {
		return
	}
	item := cache.NewCacheItem(identifier, size)

	if got := node.Retrieve(identifier, ts); got != nil {
		node.Metrics().TrackHit(size)
		return
	}
	node.Metrics().TrackMiss()
	node.Metrics().TrackRequestOrigin()
	_ = node.Store(identifier, item, ts)
	node.Metrics().TrackBytesOrigin(size)
}

func (s *LRUStrategy) SnapshotMetrics() map[string]cache.CacheMetrics {
	return snapshotMetrics(s.nodeIDs, func(id string) cache.CacheMetrics {
		return s.nodes[id].MetricsSnapshot()
	})
}
