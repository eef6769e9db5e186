// Package belady implements the offline Belady-MIN benchmark: a policy
// that always evicts the item needed furthest in the future, used as an
// upper bound against the online strategies in package strategy.
package belady

import (
	"math"
	"sort"
)

// Oracle answers "when is this identifier requested next?" from a flat,
// pre-built index of future accesses. It is built once from the
// complete trace for a node and never mutated afterwards.
type Oracle struct {
	accessIndexes map[string][]int64
}

// NewOracle flattens an ordered list of per-request identifiers into a
// per-identifier, ascending list of the request indexes at which each
// one occurs.
func NewOracle(orderedRequests []string) *Oracle {
	byID := make(map[string][]int64)
	for i, id := range orderedRequests {
		byID[id] = append(byID[id], int64(i))
	}
	return &Oracle{accessIndexes: byID}
}

// NextAccess returns the smallest recorded index strictly greater than
// after, or math.MaxInt64 if identifier is never requested again.
func (o *Oracle) NextAccess(identifier string, after int64) int64 {
	indexes := o.accessIndexes[identifier]
	if len(indexes) == 0 {
		return math.MaxInt64
	}
	i := sort.Search(len(indexes), func(i int) bool { return indexes[i] > after })
	if i == len(indexes) {
		return math.MaxInt64
	}
	return indexes[i]
}
