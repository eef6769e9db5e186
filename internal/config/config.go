// Package config loads and validates a simulation run's configuration:
// which strategy to run, its parameters, and the node topology to
// build caches for.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the top-level simulation configuration.
type Config struct {
	Trace       string         `yaml:"trace"`
	Resources   string         `yaml:"resources"`
	NodeMap     string         `yaml:"node_map"`
	StatsDir    string         `yaml:"stats_dir" default:"./stats"`
	LogLevel    string         `yaml:"log_level" default:"info"`
	MetricsPort int            `yaml:"metrics_port" default:"0"`
	Strategy    StrategyConfig `yaml:"strategy"`
	Nodes       []NodeConfig   `yaml:"nodes"`
}

// StrategyConfig selects and parameterizes one of the placement
// strategies.
type StrategyConfig struct {
	Kind               string `yaml:"kind"` // lru | federated | cooperative | neighbouring | profiles | belady
	MinReqCount        int    `yaml:"min_req_count" default:"3"`
	TrailLength        int    `yaml:"trail_length" default:"2"`
	OutsourceResources bool   `yaml:"outsource_resources"`
	RankingTimeout     int64  `yaml:"ranking_timeout" default:"5"`
	ProfileSize        int    `yaml:"profile_size" default:"1000"`
}

// NodeConfig is one node's identity and storage capacity. A slice
// preserves the ordering given in the file, which several strategies
// rely on for deterministic tie-breaking.
type NodeConfig struct {
	ID            string `yaml:"id"`
	CapacityBytes int64  `yaml:"capacity_bytes"`
}

// Load reads and parses a YAML config file, applying defaults and
// validating the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %q: %w", path, err)
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

// ApplyDefaults fills in zero-valued fields with the values carried in
// the struct tags above. Written out explicitly rather than through
// reflection, matching the rest of this configuration layer.
func (c *Config) ApplyDefaults() {
	if c.StatsDir == "" {
		c.StatsDir = "./stats"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Strategy.MinReqCount <= 0 {
		c.Strategy.MinReqCount = 3
	}
	if c.Strategy.TrailLength <= 0 {
		c.Strategy.TrailLength = 2
	}
	if c.Strategy.RankingTimeout <= 0 {
		c.Strategy.RankingTimeout = 5
	}
	if c.Strategy.ProfileSize <= 0 {
		c.Strategy.ProfileSize = 1000
	}
}

// Validate checks the configuration is complete enough to run a
// simulation.
func (c *Config) Validate() error {
	if c.Trace == "" {
		return fmt.Errorf("config: trace path is required")
	}
	if c.Resources == "" {
		return fmt.Errorf("config: resources path is required")
	}
	if len(c.Nodes) == 0 {
		return fmt.Errorf("config: at least one node is required")
	}
	switch c.Strategy.Kind {
	case "lru", "federated", "cooperative", "neighbouring", "profiles", "belady":
	case "":
		return fmt.Errorf("config: strategy.kind is required")
	default:
		return fmt.Errorf("config: unknown strategy kind %q", c.Strategy.Kind)
	}
	if c.Strategy.Kind == "neighbouring" && c.NodeMap == "" {
		return fmt.Errorf("config: neighbouring strategy requires node_map")
	}
	for i, n := range c.Nodes {
		if n.ID == "" {
			return fmt.Errorf("config: nodes[%d] is missing an id", i)
		}
		if n.CapacityBytes <= 0 {
			return fmt.Errorf("config: node %q must have capacity_bytes > 0", n.ID)
		}
	}
	return nil
}
