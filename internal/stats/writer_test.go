package stats

import (
	"bytes"
	"strings"
	"testing"

	"github.com/edgecache/simcache/internal/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_HeaderWrittenOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteStats(0, cache.CacheMetrics{Hits: 1}))
	require.NoError(t, w.WriteStats(1, cache.CacheMetrics{Hits: 2}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, strings.Join(Header, ";"), lines[0])
	assert.Equal(t, "0;1;0;0;0;0;0;0;0;0;0", lines[1])
	assert.Equal(t, "1;2;0;0;0;0;0;0;0;0;0", lines[2])
}
