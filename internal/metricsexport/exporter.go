// Package metricsexport optionally mirrors per-node CacheMetrics
// snapshots to Prometheus, for watching a long-running simulation live
// instead of waiting for its CSV output.
package metricsexport

import (
	"net/http"

	"github.com/edgecache/simcache/internal/cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter publishes every node's CacheMetrics fields as Prometheus
// gauges, labelled by node_id, refreshed on each CollectStatistics.
type Exporter struct {
	registry *prometheus.Registry

	hits                        *prometheus.GaugeVec
	misses                      *prometheus.GaugeVec
	noItems                     *prometheus.GaugeVec
	bytesUsed                   *prometheus.GaugeVec
	cacheBytes                  *prometheus.GaugeVec
	originBytes                 *prometheus.GaugeVec
	neighbourBytes              *prometheus.GaugeVec
	requestsToOrigin            *prometheus.GaugeVec
	requestsToNeighbours        *prometheus.GaugeVec
	requestsToNeighboursSuccess *prometheus.GaugeVec
	iteration                   *prometheus.GaugeVec
}

// New builds an Exporter registered on a fresh registry (kept private
// to this exporter so multiple simulations in one process don't
// collide on metric names).
func New() *Exporter {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	gauge := func(name, help string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "simcache",
			Name:      name,
			Help:      help,
		}, []string{"node_id"})
	}

	return &Exporter{
		registry:                    reg,
		hits:                        gauge("cache_hits", "Cumulative cache hits observed at a node."),
		misses:                      gauge("cache_misses", "Cumulative cache misses observed at a node."),
		noItems:                     gauge("cache_items", "Number of items currently stored at a node."),
		bytesUsed:                   gauge("cache_bytes_used", "Bytes currently stored at a node."),
		cacheBytes:                  gauge("cache_bytes_served", "Bytes served from the local cache."),
		originBytes:                 gauge("origin_bytes_served", "Bytes served from origin."),
		neighbourBytes:              gauge("neighbour_bytes_served", "Bytes served from a neighbour node."),
		requestsToOrigin:            gauge("requests_to_origin", "Requests forwarded to origin."),
		requestsToNeighbours:        gauge("requests_to_neighbours", "Requests forwarded to a neighbour."),
		requestsToNeighboursSuccess: gauge("requests_to_neighbours_success", "Neighbour requests that hit."),
		iteration:                   gauge("iteration", "Iteration of the last snapshot observed."),
	}
}

// Observe updates every gauge for nodeID from a metrics snapshot.
func (e *Exporter) Observe(nodeID string, iteration int64, m cache.CacheMetrics) {
	e.hits.WithLabelValues(nodeID).Set(float64(m.Hits))
	e.misses.WithLabelValues(nodeID).Set(float64(m.Misses))
	e.noItems.WithLabelValues(nodeID).Set(float64(m.NoItems))
	e.bytesUsed.WithLabelValues(nodeID).Set(float64(m.BytesUsed))
	e.cacheBytes.WithLabelValues(nodeID).Set(float64(m.CacheBytes))
	e.originBytes.WithLabelValues(nodeID).Set(float64(m.OriginBytes))
	e.neighbourBytes.WithLabelValues(nodeID).Set(float64(m.NeighbourBytes))
	e.requestsToOrigin.WithLabelValues(nodeID).Set(float64(m.RequestsToOrigin))
	e.requestsToNeighbours.WithLabelValues(nodeID).Set(float64(m.RequestsToNeighbours))
	e.requestsToNeighboursSuccess.WithLabelValues(nodeID).Set(float64(m.RequestsToNeighboursSuccess))
	e.iteration.WithLabelValues(nodeID).Set(float64(iteration))
}

// Handler returns the HTTP handler that serves the registry's metrics
// in the Prometheus exposition format.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
