package strategy

import (
	"github.com/cespare/xxhash/v2"
	"github.com/edgecache/simcache/internal/cache"
	"go.uber.org/zap"
)

// FederatedStrategy shards identifiers across nodes by a stable hash,
// so every identifier has exactly one owning node regardless of which
// node a user is connected to.
type FederatedStrategy struct {
	Base
	nodeIDs []string
	nodes   map[string]*cache.LRUCache
}

func NewFederatedStrategy(nodes []NodeConfig, minReqCount int, logger *zap.Logger) *FederatedStrategy {
	s := &FederatedStrategy{
		Base:  newBase(),
		nodes: make(map[string]*cache.LRUCache, len(nodes)),
	}
	for _, n := range nodes {
		s.nodeIDs = append(s.nodeIDs, n.ID)
		s.nodes[n.ID] = cache.NewLRUCache(n.CapacityBytes, minReqCount, logger)
	}
	return s
}

// nodeForIdentifier hashes identifier with a stable 64-bit hash and
// selects the corresponding node from the insertion-ordered node list.
func (s *FederatedStrategy) nodeForIdentifier(identifier string) string {
	h := xxhash.Sum64String(identifier)
	idx := h % uint64(len(s.nodeIDs))
	return s.nodeIDs[idx]
}

func (s *FederatedStrategy) OnRequest(userID, nodeID, identifier string, size int64, ts int64) {
	requesting := s.nodes[nodeID]
	targetID := s.nodeForIdentifier(identifier)
	target := s.nodes[targetID]
	item := cache.NewCacheItem(identifier, size)

	if got := target.Retrieve(identifier, ts); got != nil {
		target.Metrics().TrackHit(size)
	} else {
		target.Metrics().TrackMiss()
		target.Metrics().TrackRequestOrigin()
		_ = target.Store(identifier, item, ts)
		target.Metrics().TrackBytesOrigin(size)
	}

	if targetID != nodeID && requesting != nil {
		requesting.Metrics().TrackRequestNeighbour()
		requesting.Metrics().TrackRequestNeighbourSuccess(size)
	}
}

func (s *FederatedStrategy) SnapshotMetrics() map[string]cache.CacheMetrics {
	return snapshotMetrics(s.nodeIDs, func(id string) cache.CacheMetrics {
		return s.nodes[id].MetricsSnapshot()
	})
}
