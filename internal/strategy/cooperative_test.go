package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCooperativeLRUStrategy_HintLifecycle(t *testing.T) {
	// S3: trail=2, user visits cdn1, cdn2, cdn3, requesting X at each.
	// outsourceResources=true keeps cdn3 relying on the remembered hint
	// instead of admitting X locally on the first cooperative hit.
	s := NewCooperativeLRUStrategy([]NodeConfig{
		{ID: "cdn1", CapacityBytes: 100},
		{ID: "cdn2", CapacityBytes: 100},
		{ID: "cdn3", CapacityBytes: 100},
	}, 1, 2, true, nil)

	s.OnConnect("u", "cdn1")
	s.OnRequest("u", "cdn1", "X", 10, 0) // miss, admitted at cdn1 (minReqCount=1)

	s.OnConnect("u", "cdn2")
	s.OnRequest("u", "cdn2", "X", 10, 1) // probes cdn1, hits

	s.OnConnect("u", "cdn3")
	s.OnRequest("u", "cdn3", "X", 10, 2) // probes cdn2 (miss), cdn1 (hit)

	node3 := s.nodes["cdn3"]
	hint, ok := node3.ContentNeighbour["X"]
	assert.True(t, ok)
	assert.Equal(t, "cdn1", hint)

	before := node3.MetricsSnapshot().RequestsToNeighboursSuccess

	// Fourth request at cdn3 hits the hint directly: one more success,
	// no re-probing.
	s.OnRequest("u", "cdn3", "X", 10, 3)
	after := node3.MetricsSnapshot()
	assert.Equal(t, before+1, after.RequestsToNeighboursSuccess)
	assert.Equal(t, int64(2), after.Hits)
}

func TestCooperativeLRUStrategy_HintInvalidatedOnEviction(t *testing.T) {
	// outsourceResources=true: cdn2 does not store X on a cooperative
	// hit, so after its first request X is reachable only through the
	// remembered hint.
	s := NewCooperativeLRUStrategy([]NodeConfig{
		{ID: "cdn1", CapacityBytes: 100},
		{ID: "cdn2", CapacityBytes: 100},
	}, 1, 1, true, nil)

	s.OnConnect("u", "cdn1")
	s.OnRequest("u", "cdn1", "X", 10, 0)
	s.OnConnect("u", "cdn2")
	s.OnRequest("u", "cdn2", "X", 10, 1)

	node2 := s.nodes["cdn2"]
	_, ok := node2.ContentNeighbour["X"]
	assert.True(t, ok)

	s.nodes["cdn1"].Remove("X")

	// Hint now stale: probing it should fail and fall through to miss.
	s.OnRequest("u", "cdn2", "X", 10, 2)
	_, stillHinted := node2.ContentNeighbour["X"]
	assert.False(t, stillHinted)
}
