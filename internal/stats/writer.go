// Package stats writes per-node metrics time series in the fixed
// ";"-delimited CSV schema every strategy run emits.
package stats

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/edgecache/simcache/internal/cache"
)

// Header is the fixed column order every stats file starts with.
var Header = []string{
	"iteration",
	"hits",
	"misses",
	"no_items",
	"bytes_used",
	"cache_bytes",
	"origin_bytes",
	"neighbour_bytes",
	"requests_to_origin",
	"requests_to_neighbours",
	"requests_to_neighbours_success",
}

// Writer appends one metrics row per CollectStatistics instruction. The
// header is written exactly once, on first use.
type Writer struct {
	csv           *csv.Writer
	headerWritten bool
}

// NewWriter wraps w (a file opened for append, typically) in a
// ";"-delimited CSV writer.
func NewWriter(w io.Writer) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	return &Writer{csv: cw}
}

// WriteStats appends one row for iteration. The header row is emitted
// automatically before the first data row.
func (w *Writer) WriteStats(iteration int64, m cache.CacheMetrics) error {
	if !w.headerWritten {
		if err := w.csv.Write(Header); err != nil {
			return err
		}
		w.headerWritten = true
	}

	row := []string{
		strconv.FormatInt(iteration, 10),
		strconv.FormatInt(m.Hits, 10),
		strconv.FormatInt(m.Misses, 10),
		strconv.FormatInt(m.NoItems, 10),
		strconv.FormatInt(m.BytesUsed, 10),
		strconv.FormatInt(m.CacheBytes, 10),
		strconv.FormatInt(m.OriginBytes, 10),
		strconv.FormatInt(m.NeighbourBytes, 10),
		strconv.FormatInt(m.RequestsToOrigin, 10),
		strconv.FormatInt(m.RequestsToNeighbours, 10),
		strconv.FormatInt(m.RequestsToNeighboursSuccess, 10),
	}
	if err := w.csv.Write(row); err != nil {
		return err
	}
	w.csv.Flush()
	return w.csv.Error()
}
