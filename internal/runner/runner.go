// Package runner drives a Strategy from a parsed instruction stream,
// resolving resource sizes and fanning out metric snapshots to
// per-node stats writers.
package runner

import (
	"github.com/edgecache/simcache/internal/cache"
	"github.com/edgecache/simcache/internal/instruction"
	"github.com/edgecache/simcache/internal/strategy"
	"go.uber.org/zap"
)

// StatsWriter is the per-node sink for a CollectStatistics snapshot.
type StatsWriter interface {
	WriteStats(iteration int64, metrics cache.CacheMetrics) error
}

// MetricsExporter optionally mirrors every snapshot to a live exporter
// (e.g. Prometheus) in addition to the on-disk stats writers.
type MetricsExporter interface {
	Observe(nodeID string, iteration int64, metrics cache.CacheMetrics)
}

// Source yields the next instruction from a trace, or io.EOF-compatible
// behaviour signalled by ok == false. Both BufferedIterator and a
// wrapped StreamingIterator satisfy this shape.
type Source interface {
	Next() (instruction.Instruction, bool)
}

// Runner dispatches a trace's instructions to a Strategy, maintaining
// the timestamp/iteration clocks the spec's ordering guarantees depend
// on.
type Runner struct {
	strategy  strategy.Strategy
	sizeOf    map[string]int64
	writers   map[string]StatsWriter
	exporter  MetricsExporter
	logger    *zap.Logger
	timestamp int64
	iteration int64
}

// New builds a Runner. exporter may be nil.
func New(s strategy.Strategy, sizeOf map[string]int64, writers map[string]StatsWriter, exporter MetricsExporter, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		strategy: s,
		sizeOf:   sizeOf,
		writers:  writers,
		exporter: exporter,
		logger:   logger,
	}
}

// Run consumes every instruction from source in order until it is
// exhausted, applying each to the strategy and clocks.
func (r *Runner) Run(source Source) error {
	for {
		inst, ok := source.Next()
		if !ok {
			return nil
		}
		if err := r.apply(inst); err != nil {
			return err
		}
		r.timestamp++
	}
}

func (r *Runner) apply(inst instruction.Instruction) error {
	switch inst.Kind {
	case instruction.Request:
		size, known := r.sizeOf[inst.Identifier]
		if !known {
			r.logger.Debug("skipping request for unknown identifier", zap.String("identifier", inst.Identifier))
			return nil
		}
		r.strategy.OnRequest(inst.UserID, inst.NodeID, inst.Identifier, size, r.timestamp)
	case instruction.Connect:
		r.strategy.OnConnect(inst.UserID, inst.NodeID)
	case instruction.Disconnect:
		r.strategy.OnDisconnect(inst.UserID, inst.NodeID)
	case instruction.SetIteration:
		r.iteration = inst.Iteration
		r.strategy.OnIteration(r.iteration)
	case instruction.CollectStatistics:
		return r.collectStatistics()
	case instruction.RegisterNode:
		// Reserved: accepted and ignored.
	}
	return nil
}

func (r *Runner) collectStatistics() error {
	snapshot := r.strategy.SnapshotMetrics()
	for nodeID, metrics := range snapshot {
		writer, ok := r.writers[nodeID]
		if !ok {
			continue
		}
		if err := writer.WriteStats(r.iteration, metrics); err != nil {
			return err
		}
		if r.exporter != nil {
			r.exporter.Observe(nodeID, r.iteration, metrics)
		}
	}
	return nil
}
