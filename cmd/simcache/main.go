// cmd/simcache/main.go
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/edgecache/simcache/internal/belady"
	"github.com/edgecache/simcache/internal/config"
	"github.com/edgecache/simcache/internal/instruction"
	"github.com/edgecache/simcache/internal/metricsexport"
	"github.com/edgecache/simcache/internal/nodemap"
	"github.com/edgecache/simcache/internal/resourcemap"
	"github.com/edgecache/simcache/internal/runner"
	"github.com/edgecache/simcache/internal/stats"
	"github.com/edgecache/simcache/internal/strategy"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the simulation config YAML file")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: simcache -config simulation.yaml")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simcache: %v\n", err)
		os.Exit(1)
	}
	config.LoadFromEnv(cfg)

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "simcache: building logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if err := zcfg.Level.UnmarshalText([]byte(level)); err != nil {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}
	return zcfg.Build()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	sizeMap, err := resourcemap.Load(cfg.Resources)
	if err != nil {
		return fmt.Errorf("loading resource map: %w", err)
	}

	nodeConfigs := make([]strategy.NodeConfig, 0, len(cfg.Nodes))
	for _, n := range cfg.Nodes {
		nodeConfigs = append(nodeConfigs, strategy.NodeConfig{ID: n.ID, CapacityBytes: n.CapacityBytes})
	}

	if err := os.MkdirAll(cfg.StatsDir, 0o755); err != nil {
		return fmt.Errorf("creating stats dir: %w", err)
	}

	if cfg.Strategy.Kind == "belady" {
		return runBelady(cfg, sizeMap, logger)
	}

	strat, err := buildStrategy(cfg, nodeConfigs, logger)
	if err != nil {
		return err
	}

	writers, closers, err := openStatsWriters(cfg)
	if err != nil {
		return err
	}
	defer closers()

	var exporter *metricsexport.Exporter
	if cfg.MetricsPort > 0 {
		exporter = metricsexport.New()
		go func() {
			addr := fmt.Sprintf(":%d", cfg.MetricsPort)
			logger.Info("serving metrics", zap.String("addr", addr))
			if err := http.ListenAndServe(addr, exporter.Handler()); err != nil {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
	}

	source, err := instruction.NewBufferedIterator(cfg.Trace)
	if err != nil {
		return fmt.Errorf("loading trace: %w", err)
	}

	r := runner.New(strat, sizeMap, writers, exportAdapter(exporter), logger)
	return r.Run(source)
}

func buildStrategy(cfg *config.Config, nodes []strategy.NodeConfig, logger *zap.Logger) (strategy.Strategy, error) {
	sc := cfg.Strategy
	switch sc.Kind {
	case "lru":
		return strategy.NewLRUStrategy(nodes, sc.MinReqCount, logger), nil
	case "federated":
		return strategy.NewFederatedStrategy(nodes, sc.MinReqCount, logger), nil
	case "cooperative":
		return strategy.NewCooperativeLRUStrategy(nodes, sc.MinReqCount, sc.TrailLength, sc.OutsourceResources, logger), nil
	case "neighbouring":
		adjacency, err := nodemap.Load(cfg.NodeMap)
		if err != nil {
			return nil, fmt.Errorf("loading node map: %w", err)
		}
		return strategy.NewNeighbouringLRUStrategy(nodes, sc.MinReqCount, adjacency, sc.OutsourceResources, logger), nil
	case "profiles":
		return strategy.NewProfilesStrategy(nodes, sc.RankingTimeout, sc.ProfileSize, logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy kind %q", sc.Kind)
	}
}

func openStatsWriters(cfg *config.Config) (map[string]runner.StatsWriter, func(), error) {
	writers := make(map[string]runner.StatsWriter, len(cfg.Nodes))
	var files []*os.File
	for _, n := range cfg.Nodes {
		path := fmt.Sprintf("%s/%s.csv", cfg.StatsDir, n.ID)
		f, err := os.Create(path)
		if err != nil {
			for _, fh := range files {
				_ = fh.Close()
			}
			return nil, nil, fmt.Errorf("creating stats file for node %q: %w", n.ID, err)
		}
		files = append(files, f)
		writers[n.ID] = stats.NewWriter(f)
	}
	closeAll := func() {
		for _, f := range files {
			_ = f.Close()
		}
	}
	return writers, closeAll, nil
}

// exportAdapter lets a possibly-nil *metricsexport.Exporter satisfy
// runner.MetricsExporter without the runner package depending on a
// concrete exporter type.
func exportAdapter(e *metricsexport.Exporter) runner.MetricsExporter {
	if e == nil {
		return nil
	}
	return e
}

// runBelady bypasses the generic Strategy/Runner pipeline: Belady-MIN
// needs each node's complete future request trace up front, grouped by
// iteration, before it can simulate a single request.
func runBelady(cfg *config.Config, sizeMap map[string]int64, logger *zap.Logger) error {
	requestsByNode, noIterations, err := loadRequestsByNode(cfg.Trace)
	if err != nil {
		return err
	}

	averageSize := averageResourceSize(sizeMap)
	sizeOf := func(identifier string) int64 {
		if size, ok := sizeMap[identifier]; ok {
			return size
		}
		return averageSize
	}

	for _, n := range cfg.Nodes {
		path := fmt.Sprintf("%s/%s.csv", cfg.StatsDir, n.ID)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating stats file for node %q: %w", n.ID, err)
		}
		writer := stats.NewWriter(f)
		err = belady.Simulate(n.CapacityBytes, requestsByNode[n.ID], noIterations, sizeOf, writer)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("simulating belady for node %q: %w", n.ID, err)
		}
		if closeErr != nil {
			return fmt.Errorf("closing stats file for node %q: %w", n.ID, closeErr)
		}
		logger.Info("belady simulation complete", zap.String("node_id", n.ID))
	}
	return nil
}

// loadRequestsByNode replays the entire trace once to build, per node,
// the ordered list of requested identifiers grouped by iteration.
func loadRequestsByNode(tracePath string) (map[string]map[int64][]string, int64, error) {
	it, err := instruction.NewBufferedIterator(tracePath)
	if err != nil {
		return nil, 0, fmt.Errorf("loading trace: %w", err)
	}

	byNode := make(map[string]map[int64][]string)
	var iteration int64
	var noIterations int64

	for {
		inst, ok := it.Next()
		if !ok {
			break
		}
		switch inst.Kind {
		case instruction.SetIteration:
			iteration = inst.Iteration
			if iteration+1 > noIterations {
				noIterations = iteration + 1
			}
		case instruction.Request:
			if _, ok := byNode[inst.NodeID]; !ok {
				byNode[inst.NodeID] = make(map[int64][]string)
			}
			byNode[inst.NodeID][iteration] = append(byNode[inst.NodeID][iteration], inst.Identifier)
		}
	}
	return byNode, noIterations, nil
}

func averageResourceSize(sizeMap map[string]int64) int64 {
	if len(sizeMap) == 0 {
		return 0
	}
	var total int64
	for _, size := range sizeMap {
		total += size
	}
	return total / int64(len(sizeMap))
}
