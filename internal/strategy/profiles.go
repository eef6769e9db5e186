package strategy

import (
	"github.com/edgecache/simcache/internal/cache"
	"go.uber.org/zap"
)

// DefaultProfileSize bounds a UserProfile's resource history when a
// strategy config leaves it unset.
const DefaultProfileSize = 1000

// DefaultRankingTimeout is how many iterations elapse between ranking
// refreshes when a strategy config leaves it unset.
const DefaultRankingTimeout = 5

// ProfilesStrategy tracks each user's recently-visited resources and
// uses the resulting popularity ranking, rather than a fixed trail
// length, to choose cooperative peers.
type ProfilesStrategy struct {
	Base
	nodeIDs        []string
	nodes          map[string]*cache.ProfileLRUCache
	profiles       map[string]*cache.UserProfile
	profileSize    int
	rankingTimeout int64
	iteration      int64
}

func NewProfilesStrategy(nodes []NodeConfig, rankingTimeout int64, profileSize int, logger *zap.Logger) *ProfilesStrategy {
	if rankingTimeout <= 0 {
		rankingTimeout = DefaultRankingTimeout
	}
	if profileSize <= 0 {
		profileSize = DefaultProfileSize
	}
	s := &ProfilesStrategy{
		Base:           newBase(),
		nodes:          make(map[string]*cache.ProfileLRUCache, len(nodes)),
		profiles:       make(map[string]*cache.UserProfile),
		profileSize:    profileSize,
		rankingTimeout: rankingTimeout,
	}
	for _, n := range nodes {
		s.nodeIDs = append(s.nodeIDs, n.ID)
		s.nodes[n.ID] = cache.NewProfileLRUCache(n.CapacityBytes, logger)
	}
	return s
}

func (s *ProfilesStrategy) profileFor(userID string) *cache.UserProfile {
	p, ok := s.profiles[userID]
	if !ok {
		p = cache.NewUserProfile(s.profileSize)
		s.profiles[userID] = p
	}
	return p
}

// OnConnect records the connect in the shared history, then marks the
// user as connected to this node's profile set.
func (s *ProfilesStrategy) OnConnect(userID, nodeID string) {
	s.Base.OnConnect(userID, nodeID)
	if node, ok := s.nodes[nodeID]; ok {
		node.ConnectedProfiles[userID] = struct{}{}
	}
}

// OnDisconnect remembers the node the user was last connected to (so a
// later ranking lookup can route back to them) and drops them from the
// node's connected-profile set.
func (s *ProfilesStrategy) OnDisconnect(userID, nodeID string) {
	node := nodeID
	s.profileFor(userID).LastConnectedNode = &node
	if n, ok := s.nodes[nodeID]; ok {
		delete(n.ConnectedProfiles, userID)
	}
}

// OnIteration refreshes every node's popularity ranking every
// rankingTimeout iterations, scoped to the profiles of currently
// connected users.
func (s *ProfilesStrategy) OnIteration(iteration int64) {
	s.iteration = iteration
	if s.iteration%s.rankingTimeout != 0 {
		return
	}
	for _, node := range s.nodes {
		connected := make(map[string]*cache.UserProfile, len(node.ConnectedProfiles))
		for user := range node.ConnectedProfiles {
			connected[user] = s.profileFor(user)
		}
		node.UpdateRanking(connected)
	}
}

func (s *ProfilesStrategy) OnRequest(userID, nodeID, identifier string, size int64, ts int64) {
	s.profileFor(userID).Track(identifier)

	node, ok := s.nodes[nodeID]
	if !ok {
		return
	}

	if got := node.Retrieve(identifier, ts); got != nil {
		node.Metrics().TrackHit(size)
		return
	}

	if hint, ok := node.ContentNeighbour[identifier]; ok {
		node.Metrics().TrackRequestNeighbour()
		if peer, ok := s.nodes[hint]; ok && peer.RetrieveNoMetrics(identifier) != nil {
			node.Metrics().TrackRequestNeighbourSuccess(size)
			node.Metrics().TrackHit(size)
			_ = node.Store(identifier, cache.NewCacheItem(identifier, size))
			return
		}
		delete(node.ContentNeighbour, identifier)
	}

	if rank, ok := node.Ranking(identifier); ok {
		for _, user := range rank.SortedUsers() {
			profile := s.profileFor(user)
			if profile.LastConnectedNode == nil || *profile.LastConnectedNode == nodeID {
				continue
			}
			peerID := *profile.LastConnectedNode
			peer, ok := s.nodes[peerID]
			if !ok {
				continue
			}
			node.Metrics().TrackRequestNeighbour()
			if peer.RetrieveNoMetrics(identifier) != nil {
				node.ContentNeighbour[identifier] = peerID
				node.Metrics().TrackRequestNeighbourSuccess(size)
				node.Metrics().TrackHit(size)
				_ = node.Store(identifier, cache.NewCacheItem(identifier, size))
				return
			}
		}
	}

	node.Metrics().TrackMiss()
	node.Metrics().TrackRequestOrigin()
	_ = node.Store(identifier, cache.NewCacheItem(identifier, size))
	node.Metrics().TrackBytesOrigin(size)
}

func (s *ProfilesStrategy) SnapshotMetrics() map[string]cache.CacheMetrics {
	return snapshotMetrics(s.nodeIDs, func(id string) cache.CacheMetrics {
		return s.nodes[id].MetricsSnapshot()
	})
}
