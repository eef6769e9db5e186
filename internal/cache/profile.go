package cache

import (
	"sort"

	"go.uber.org/zap"
)

// ProfileRanking is the popularity a node's ranking assigns to one
// identifier, plus the set of users whose profile contributed to it.
type ProfileRanking struct {
	Popularity int64
	ByUsers    map[string]struct{}
}

// SortedUsers returns ByUsers in a deterministic order, since map
// iteration order is not stable across runs.
func (r *ProfileRanking) SortedUsers() []string {
	users := make([]string, 0, len(r.ByUsers))
	for u := range r.ByUsers {
		users = append(users, u)
	}
	sort.Strings(users)
	return users
}

// UserProfile is a bounded FIFO of the resources a user has recently
// visited, plus the node they were last connected to.
type UserProfile struct {
	MaxSize           int
	Resources         []string
	LastConnectedNode *string
}

func NewUserProfile(maxSize int) *UserProfile {
	return &UserProfile{MaxSize: maxSize}
}

// Track appends an identifier, dropping the oldest entry once the
// profile exceeds MaxSize. Only one entry is dropped per call.
func (p *UserProfile) Track(identifier string) {
	p.Resources = append(p.Resources, identifier)
	if len(p.Resources) > p.MaxSize {
		p.Resources = p.Resources[1:]
	}
}

type rankedID struct {
	id         string
	popularity int64
}

// ProfileLRUCache evicts by an externally supplied popularity ranking
// instead of recency: the owning strategy rebuilds the ranking from
// connected users' profiles and the cache prefers to evict identifiers
// less popular than the one being admitted.
type ProfileLRUCache struct {
	*FiniteCache
	ConnectedProfiles map[string]struct{}
	ContentNeighbour  map[string]string

	ranking  []rankedID
	rankByID map[string]*ProfileRanking
}

func NewProfileLRUCache(capacity int64, logger *zap.Logger) *ProfileLRUCache {
	return &ProfileLRUCache{
		FiniteCache:       NewFiniteCache(capacity, logger),
		ConnectedProfiles: make(map[string]struct{}),
		ContentNeighbour:  make(map[string]string),
		rankByID:          make(map[string]*ProfileRanking),
	}
}

// Ranking looks up the current popularity ranking for an identifier.
func (c *ProfileLRUCache) Ranking(identifier string) (ProfileRanking, bool) {
	r, ok := c.rankByID[identifier]
	if !ok {
		return ProfileRanking{}, false
	}
	return *r, true
}

// Store admits the item directly if it fits; otherwise it tries to
// evict identifiers no more popular than the incoming one. The store
// is silently abandoned if there isn't enough evictable space.
func (c *ProfileLRUCache) Store(identifier string, item *CacheItem) error {
	if c.ContentFits(item) {
		return c.FiniteCache.Store(identifier, item)
	}

	popularity := int64(0)
	if r, ok := c.rankByID[identifier]; ok {
		popularity = r.Popularity
	}

	ok, err := c.evictBelow(item.ByteSize, popularity)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return c.FiniteCache.Store(identifier, item)
}

// evictBelow frees `need` bytes by removing unranked items first, then
// stored items with popularity <= threshold in ascending order. It
// aborts without evicting anything if the eligible candidates don't
// add up to `need` bytes.
func (c *ProfileLRUCache) evictBelow(need, threshold int64) (bool, error) {
	var candidates []string

	for id := range c.content {
		if _, ranked := c.rankByID[id]; !ranked {
			candidates = append(candidates, id)
		}
	}
	for _, r := range c.ranking {
		if r.popularity > threshold {
			break
		}
		if _, ok := c.content[r.id]; ok {
			candidates = append(candidates, r.id)
		}
	}

	available := c.CapacityAvailable()
	var candidateBytes int64
	for _, id := range candidates {
		if item, ok := c.content[id]; ok {
			candidateBytes += item.ByteSize
		}
	}
	if available+candidateBytes < need {
		return false, nil
	}

	freed := available
	i := 0
	for freed < need && i < len(candidates) {
		id := candidates[i]
		i++
		item, ok := c.content[id]
		if !ok {
			continue
		}
		c.Remove(id)
		freed += item.ByteSize
	}
	return true, nil
}

// UpdateRanking rebuilds the ranking from scratch by scanning every
// supplied profile's resource history, counting occurrences and
// tracking which users referenced each identifier. The previous
// ranking is replaced atomically.
func (c *ProfileLRUCache) UpdateRanking(profiles map[string]*UserProfile) {
	byID := make(map[string]*ProfileRanking)

	for user, profile := range profiles {
		for _, identifier := range profile.Resources {
			r, ok := byID[identifier]
			if !ok {
				r = &ProfileRanking{ByUsers: make(map[string]struct{})}
				byID[identifier] = r
			}
			r.Popularity++
			r.ByUsers[user] = struct{}{}
		}
	}

	sorted := make([]rankedID, 0, len(byID))
	for id, r := range byID {
		sorted = append(sorted, rankedID{id: id, popularity: r.Popularity})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].popularity != sorted[j].popularity {
			return sorted[i].popularity < sorted[j].popularity
		}
		return sorted[i].id < sorted[j].id
	})

	c.rankByID = byID
	c.ranking = sorted
}
