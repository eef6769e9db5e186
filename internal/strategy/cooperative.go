package strategy

import (
	"github.com/edgecache/simcache/internal/cache"
	"go.uber.org/zap"
)

// findLatestNodesFunc computes the ordered candidate-neighbour list for
// a cooperative lookup. It is the one axis CooperativeLRUStrategy and
// NeighbouringLRUStrategy differ on, so both share the struct below and
// are distinguished only by which closure they install.
type findLatestNodesFunc func(userID, nodeID string, hint *string) []string

// CooperativeLRUStrategy probes a bounded trail of recently-visited
// nodes on a miss before falling back to origin, remembering which peer
// answered so repeat misses skip straight to it.
type CooperativeLRUStrategy struct {
	Base
	nodeIDs          []string
	nodes            map[string]*cache.CooperativeLRUCache
	trailLength      int
	outsourceContent bool
	findLatestNodes  findLatestNodesFunc
}

// NewCooperativeLRUStrategy builds the base cooperative variant, whose
// candidate neighbours come from the user's recent connect trail.
func NewCooperativeLRUStrategy(nodes []NodeConfig, minReqCount int, trailLength int, outsourceResources bool, logger *zap.Logger) *CooperativeLRUStrategy {
	s := newCooperativeLRUStrategy(nodes, minReqCount, trailLength, outsourceResources, logger)
	s.findLatestNodes = s.trailNeighbours
	return s
}

func newCooperativeLRUStrategy(nodes []NodeConfig, minReqCount int, trailLength int, outsourceResources bool, logger *zap.Logger) *CooperativeLRUStrategy {
	s := &CooperativeLRUStrategy{
		Base:             newBase(),
		nodes:            make(map[string]*cache.CooperativeLRUCache, len(nodes)),
		trailLength:      trailLength,
		outsourceContent: outsourceResources,
	}
	for _, n := range nodes {
		s.nodeIDs = append(s.nodeIDs, n.ID)
		s.nodes[n.ID] = cache.NewCooperativeLRUCache(n.CapacityBytes, minReqCount, logger)
	}
	return s
}

// trailNeighbours takes the last trailLength+1 entries of the user's
// connect history, drops the most recent (the node currently being
// served from), deduplicates, and probes nearest-visited-first: the
// most recently visited candidate node comes first. The serving node
// and the cached hint are excluded.
func (s *CooperativeLRUStrategy) trailNeighbours(userID, nodeID string, hint *string) []string {
	trail := s.UserNodeMap[userID]
	window := s.trailLength + 1
	if window > len(trail) {
		window = len(trail)
	}
	recent := trail[len(trail)-window:]
	if len(recent) > 0 {
		recent = recent[:len(recent)-1]
	}

	reversed := make([]string, len(recent))
	for i, id := range recent {
		reversed[len(recent)-1-i] = id
	}

	deduped := dedupStable(reversed)
	out := make([]string, 0, len(deduped))
	for _, id := range deduped {
		if id == nodeID {
			continue
		}
		if hint != nil && id == *hint {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (s *CooperativeLRUStrategy) OnRequest(userID, nodeID, identifier string, size int64, ts int64) {
	node, ok := s.nodes[nodeID]
	if !ok {
		return
	}

	if got := node.Retrieve(identifier, ts); got != nil {
		node.Metrics().TrackHit(size)
		return
	}

	var hint *string
	if h, ok := node.ContentNeighbour[identifier]; ok {
		hint = &h
		node.Metrics().TrackRequestNeighbour()
		if s.nodes[h].RetrieveNoMetrics(identifier) != nil {
			node.Metrics().TrackRequestNeighbourSuccess(size)
			node.Metrics().TrackHit(size)
			if !s.outsourceContent {
				_ = node.Store(identifier, cache.NewCacheItem(identifier, size), ts)
			}
			return
		}
		delete(node.ContentNeighbour, identifier)
		hint = nil
	}

	for _, neighbourID := range s.findLatestNodes(userID, nodeID, hint) {
		neighbour, ok := s.nodes[neighbourID]
		if !ok {
			continue
		}
		node.Metrics().TrackRequestNeighbour()
		if neighbour.RetrieveNoMetrics(identifier) != nil {
			node.ContentNeighbour[identifier] = neighbourID
			node.Metrics().TrackRequestNeighbourSuccess(size)
			node.Metrics().TrackHit(size)
			if !s.outsourceContent {
				_ = node.Store(identifier, cache.NewCacheItem(identifier, size), ts)
			}
			return
		}
	}

	node.Metrics().TrackMiss()
	node.Metrics().TrackRequestOrigin()
	_ = node.Store(identifier, cache.NewCacheItem(identifier, size), ts)
	node.Metrics().TrackBytesOrigin(size)
}

func (s *CooperativeLRUStrategy) SnapshotMetrics() map[string]cache.CacheMetrics {
	return snapshotMetrics(s.nodeIDs, func(id string) cache.CacheMetrics {
		return s.nodes[id].MetricsSnapshot()
	})
}

// NeighbouringLRUStrategy is the CooperativeLRUStrategy with a static
// adjacency list in place of the recent-connect-trail heuristic: the
// candidate neighbours of a node never change and the trail length is
// irrelevant.
type NeighbouringLRUStrategy struct {
	*CooperativeLRUStrategy
	nodeMap map[string][]string
}

// NewNeighbouringLRUStrategy builds a cooperative strategy whose
// findLatestNodes always returns nodeMap[node] minus the node itself and
// the current hint.
func NewNeighbouringLRUStrategy(nodes []NodeConfig, minReqCount int, nodeMap map[string][]string, outsourceResources bool, logger *zap.Logger) *NeighbouringLRUStrategy {
	base := newCooperativeLRUStrategy(nodes, minReqCount, 0, outsourceResources, logger)
	n := &NeighbouringLRUStrategy{CooperativeLRUStrategy: base, nodeMap: nodeMap}
	base.findLatestNodes = n.adjacentNeighbours
	return n
}

func (n *NeighbouringLRUStrategy) adjacentNeighbours(userID, nodeID string, hint *string) []string {
	candidates := n.nodeMap[nodeID]
	out := make([]string, 0, len(candidates))
	for _, id := range candidates {
		if id == nodeID {
			continue
		}
		if hint != nil && id == *hint {
			continue
		}
		out = append(out, id)
	}
	return out
}
