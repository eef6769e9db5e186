// Package strategy implements the placement/eviction policies that sit
// between the instruction runner and a set of per-node caches.
package strategy

import (
	"github.com/edgecache/simcache/internal/cache"
)

// NodeConfig describes one node's capacity. A slice, not a map, so that
// node iteration order is stable across runs.
type NodeConfig struct {
	ID            string
	CapacityBytes int64
}

// Strategy is the contract every placement policy satisfies. Belady-MIN
// is deliberately excluded: its offline, future-looking request model
// does not fit the OnRequest(ts) signature.
type Strategy interface {
	OnConnect(userID, nodeID string)
	OnDisconnect(userID, nodeID string)
	OnIteration(iteration int64)
	OnRequest(userID, nodeID, identifier string, size int64, ts int64)
	SnapshotMetrics() map[string]cache.CacheMetrics
}

// Base carries the state every strategy shares: the append-only connect
// history per user, keyed so the currently-connected node is always the
// last entry.
type Base struct {
	UserNodeMap map[string][]string
}

func newBase() Base {
	return Base{UserNodeMap: make(map[string][]string)}
}

// OnConnect appends nodeID to the user's connect history. Connects are
// recorded even when the node is unchanged: the history doubles as a
// recent-neighbourhood trail for cooperative strategies.
func (b *Base) OnConnect(userID, nodeID string) {
	b.UserNodeMap[userID] = append(b.UserNodeMap[userID], nodeID)
}

// OnDisconnect is the default no-op; specializations override it.
func (b *Base) OnDisconnect(userID, nodeID string) {}

// OnIteration is the default no-op; ProfilesStrategy overrides it.
func (b *Base) OnIteration(iteration int64) {}

// snapshotMetrics deep-copies each node's CacheMetrics out of an ordered
// node-id -> metrics-getter mapping. Shared by every strategy's
// SnapshotMetrics implementation.
func snapshotMetrics(nodeIDs []string, metricsOf func(nodeID string) cache.CacheMetrics) map[string]cache.CacheMetrics {
	out := make(map[string]cache.CacheMetrics, len(nodeIDs))
	for _, id := range nodeIDs {
		out[id] = metricsOf(id)
	}
	return out
}

// dedupStable removes duplicates while preserving first-seen order,
// replacing the Python source's reliance on set() iteration order (which
// is not guaranteed stable across runs and conflicts with deterministic
// replay).
func dedupStable(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
