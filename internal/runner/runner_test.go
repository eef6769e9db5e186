package runner

import (
	"testing"

	"github.com/edgecache/simcache/internal/cache"
	"github.com/edgecache/simcache/internal/instruction"
	"github.com/edgecache/simcache/internal/strategy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceSource struct {
	items []instruction.Instruction
	pos   int
}

func (s *sliceSource) Next() (instruction.Instruction, bool) {
	if s.pos >= len(s.items) {
		return instruction.Instruction{}, false
	}
	i := s.items[s.pos]
	s.pos++
	return i, true
}

type fakeWriter struct {
	rows []cache.CacheMetrics
}

func (w *fakeWriter) WriteStats(iteration int64, m cache.CacheMetrics) error {
	w.rows = append(w.rows, m)
	return nil
}

func TestRunner_RequestLifecycle(t *testing.T) {
	strat := strategy.NewLRUStrategy([]strategy.NodeConfig{{ID: "cdn1", CapacityBytes: 100}}, 1, nil)
	writer := &fakeWriter{}

	r := New(strat, map[string]int64{"X": 10}, map[string]StatsWriter{"cdn1": writer}, nil, nil)

	items := []instruction.Instruction{
		{Kind: instruction.Connect, UserID: "u1", NodeID: "cdn1"},
		{Kind: instruction.Request, UserID: "u1", NodeID: "cdn1", Identifier: "X"},
		{Kind: instruction.Request, UserID: "u1", NodeID: "cdn1", Identifier: "X"},
		{Kind: instruction.SetIteration, Iteration: 3},
		{Kind: instruction.CollectStatistics},
	}

	require.NoError(t, r.Run(&sliceSource{items: items}))
	require.Len(t, writer.rows, 1)
	assert.Equal(t, int64(1), writer.rows[0].Misses)
	assert.Equal(t, int64(1), writer.rows[0].Hits)
}

func TestRunner_SkipsUnknownIdentifiers(t *testing.T) {
	strat := strategy.NewLRUStrategy([]strategy.NodeConfig{{ID: "cdn1", CapacityBytes: 100}}, 1, nil)
	writer := &fakeWriter{}
	r := New(strat, map[string]int64{}, map[string]StatsWriter{"cdn1": writer}, nil, nil)

	items := []instruction.Instruction{
		{Kind: instruction.Request, UserID: "u1", NodeID: "cdn1", Identifier: "unknown"},
		{Kind: instruction.CollectStatistics},
	}

	require.NoError(t, r.Run(&sliceSource{items: items}))
	require.Len(t, writer.rows, 1)
	assert.Equal(t, int64(0), writer.rows[0].TotalRequests())
}

func TestRunner_RegisterNodeIsIgnored(t *testing.T) {
	strat := strategy.NewLRUStrategy([]strategy.NodeConfig{{ID: "cdn1", CapacityBytes: 100}}, 1, nil)
	r := New(strat, nil, nil, nil, nil)

	items := []instruction.Instruction{
		{Kind: instruction.RegisterNode, NodeID: "cdn2"},
	}
	assert.NoError(t, r.Run(&sliceSource{items: items}))
}
