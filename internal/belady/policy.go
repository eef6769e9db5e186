package belady

import "sort"

// Outcome tags what happened to a single Belady-MIN request.
type Outcome int

const (
	Hit Outcome = iota
	Miss
	Pass
)

// storedItem pairs an identifier with the next index it will be
// requested at, as of the last time it was admitted or refreshed.
type storedItem struct {
	identifier string
	nextAccess int64
}

// Policy is the capacity-bounded admission/eviction half of Belady-MIN:
// given an Oracle's perfect foresight, it evicts whichever stored item
// is needed furthest in the future.
type Policy struct {
	capacity   int64
	used       int64
	stored     map[string]int64
	oracle     *Oracle
	sizeOf     func(identifier string) int64
	noRequests int64
}

// NewPolicy builds a Belady-MIN policy bounded by capacity bytes. sizeOf
// resolves an identifier's byte size, falling back to some caller-chosen
// average for identifiers outside the known size map.
func NewPolicy(capacity int64, oracle *Oracle, sizeOf func(identifier string) int64) *Policy {
	return &Policy{
		capacity: capacity,
		stored:   make(map[string]int64),
		oracle:   oracle,
		sizeOf:   sizeOf,
	}
}

func (p *Policy) available() int64 {
	return p.capacity - p.used
}

// rankByNextAccess returns stored identifiers whose recorded next
// access is at least as late as minIndex (the incoming item's own next
// access), sorted ascending by that next access (soonest-needed first)
// so the caller can pop from the tail to evict the furthest-future item
// first. An item tied with the incoming one is still a valid evictee:
// caching neither changes when either is next needed.
func (p *Policy) rankByNextAccess(minIndex int64) []string {
	type ranked struct {
		id   string
		next int64
	}
	var candidates []ranked
	for id, next := range p.stored {
		if next >= minIndex {
			candidates = append(candidates, ranked{id, next})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].next != candidates[j].next {
			return candidates[i].next < candidates[j].next
		}
		return candidates[i].id < candidates[j].id
	})
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.id
	}
	return out
}

// makeWeightAvailable evicts furthest-future items until `need` bytes
// are free, refusing to evict anything needed sooner than minIndex (the
// incoming item's own next access). Returns nil, false if the eligible
// candidates can't free enough space.
func (p *Policy) makeWeightAvailable(need, minIndex int64) ([]string, bool) {
	if p.available() >= need {
		return nil, true
	}

	candidates := p.rankByNextAccess(minIndex)
	var total int64
	for _, id := range candidates {
		total += p.sizeOf(id)
	}
	if p.available()+total < need {
		return nil, false
	}

	var evicted []string
	for p.available() < need {
		// Pop from the tail: the candidate with the furthest-future
		// next access is evicted first.
		id := candidates[len(candidates)-1]
		candidates = candidates[:len(candidates)-1]
		p.used -= p.sizeOf(id)
		delete(p.stored, id)
		evicted = append(evicted, id)
	}
	return evicted, true
}

// HandleRequest processes one request for identifier, whose next access
// (relative to the policy's internal request counter) is resolved
// through the oracle.
func (p *Policy) HandleRequest(identifier string) (Outcome, []string) {
	currentIndex := p.noRequests

	if _, ok := p.stored[identifier]; ok {
		p.stored[identifier] = p.oracle.NextAccess(identifier, currentIndex)
		p.noRequests++
		return Hit, nil
	}

	weight := p.sizeOf(identifier)
	nextAccess := p.oracle.NextAccess(identifier, currentIndex)

	evicted, ok := p.makeWeightAvailable(weight, nextAccess)
	if !ok {
		p.noRequests++
		return Pass, nil
	}

	p.stored[identifier] = nextAccess
	p.used += weight
	p.noRequests++
	return Miss, evicted
}
