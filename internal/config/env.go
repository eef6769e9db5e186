package config

import (
	"os"
	"strconv"
)

// LoadFromEnv overlays environment variables onto an already-parsed
// Config, letting deployment scripts override file-based settings
// without editing the file.
func LoadFromEnv(cfg *Config) {
	if trace := os.Getenv("SIMCACHE_TRACE"); trace != "" {
		cfg.Trace = trace
	}
	if resources := os.Getenv("SIMCACHE_RESOURCES"); resources != "" {
		cfg.Resources = resources
	}
	if nodeMap := os.Getenv("SIMCACHE_NODE_MAP"); nodeMap != "" {
		cfg.NodeMap = nodeMap
	}
	if statsDir := os.Getenv("SIMCACHE_STATS_DIR"); statsDir != "" {
		cfg.StatsDir = statsDir
	}
	if logLevel := os.Getenv("SIMCACHE_LOG_LEVEL"); logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if port := os.Getenv("SIMCACHE_METRICS_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			cfg.MetricsPort = p
		}
	}
	if kind := os.Getenv("SIMCACHE_STRATEGY"); kind != "" {
		cfg.Strategy.Kind = kind
	}
}

// GetEnvOrDefault returns the environment variable named key, or
// defaultValue if it is unset.
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
