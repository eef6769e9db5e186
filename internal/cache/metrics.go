package cache

// CacheMetrics holds the per-node counters described by the statistics
// schema. All of them only increase, except NoItems and BytesUsed,
// which also decrease when an item is removed. All fields are plain values, so
// copying a CacheMetrics by value is already a deep copy.
type CacheMetrics struct {
	NoItems                     int64
	BytesUsed                   int64
	Hits                        int64
	Misses                      int64
	CacheBytes                  int64
	OriginBytes                 int64
	NeighbourBytes              int64
	RequestsToOrigin             int64
	RequestsToNeighbours         int64
	RequestsToNeighboursSuccess int64
}

func (m *CacheMetrics) TrackItemStored(noBytes int64) {
	m.NoItems++
	m.BytesUsed += noBytes
}

func (m *CacheMetrics) TrackItemRemoved(noBytes int64) {
	m.NoItems--
	m.BytesUsed -= noBytes
}

func (m *CacheMetrics) TrackHit(noBytes int64) {
	m.Hits++
	m.CacheBytes += noBytes
}

func (m *CacheMetrics) TrackMiss() {
	m.Misses++
}

func (m *CacheMetrics) TrackBytesOrigin(noBytes int64) {
	m.OriginBytes += noBytes
}

func (m *CacheMetrics) TrackRequestOrigin() {
	m.RequestsToOrigin++
}

func (m *CacheMetrics) TrackRequestNeighbour() {
	m.RequestsToNeighbours++
}

func (m *CacheMetrics) TrackRequestNeighbourSuccess(noBytes int64) {
	m.RequestsToNeighboursSuccess++
	m.NeighbourBytes += noBytes
}

// TotalRequests is the sum of hits and misses accounted at this node.
func (m *CacheMetrics) TotalRequests() int64 {
	return m.Hits + m.Misses
}

// TotalBytes is the sum of bytes served locally and from origin.
func (m *CacheMetrics) TotalBytes() int64 {
	return m.CacheBytes + m.OriginBytes
}
