package cache

// CacheItem is an immutable content object identified by Identifier.
// LastAccessed is the only mutable field; it is updated by the owning
// cache on every metric-affecting retrieval.
type CacheItem struct {
	Identifier   string
	ByteSize     int64
	LastAccessed int64
}

// NewCacheItem builds a CacheItem that has not yet been accessed.
func NewCacheItem(identifier string, byteSize int64) *CacheItem {
	return &CacheItem{
		Identifier:   identifier,
		ByteSize:     byteSize,
		LastAccessed: -1,
	}
}
