package belady

import "github.com/edgecache/simcache/internal/cache"

// StatsWriter is the subset of the stats package's writer interface
// Simulate depends on; kept local to avoid an import cycle between
// belady and stats.
type StatsWriter interface {
	WriteStats(iteration int64, metrics cache.CacheMetrics) error
}

// Simulate runs Belady-MIN for a single node against its own future
// request trace, grouped by iteration, and writes one metrics row per
// iteration to writer. It deliberately bypasses the Strategy interface:
// Belady-MIN needs the complete future trace up front, which no online
// strategy has access to.
func Simulate(capacity int64, requestsByIteration map[int64][]string, noIterations int64, sizeOf func(identifier string) int64, writer StatsWriter) error {
	flat := flattenByIteration(requestsByIteration, noIterations)
	oracle := NewOracle(flat)
	policy := NewPolicy(capacity, oracle, sizeOf)

	var metrics cache.CacheMetrics
	for iteration := int64(0); iteration < noIterations; iteration++ {
		for _, identifier := range requestsByIteration[iteration] {
			weight := sizeOf(identifier)
			outcome, evicted := policy.HandleRequest(identifier)

			switch outcome {
			case Hit:
				metrics.TrackHit(weight)
			case Miss:
				metrics.TrackMiss()
				metrics.TrackItemStored(weight)
				metrics.TrackRequestOrigin()
				metrics.TrackBytesOrigin(weight)
			case Pass:
				metrics.TrackRequestOrigin()
				metrics.TrackBytesOrigin(weight)
			}

			for _, id := range evicted {
				metrics.TrackItemRemoved(sizeOf(id))
			}
		}

		if err := writer.WriteStats(iteration, metrics); err != nil {
			return err
		}
	}
	return nil
}

// flattenByIteration concatenates every iteration's requests in
// iteration order, matching the order the oracle must see to compute
// correct next-access indexes.
func flattenByIteration(requestsByIteration map[int64][]string, noIterations int64) []string {
	var flat []string
	for iteration := int64(0); iteration < noIterations; iteration++ {
		flat = append(flat, requestsByIteration[iteration]...)
	}
	return flat
}
