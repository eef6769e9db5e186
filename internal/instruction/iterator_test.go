package instruction

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTrace(t *testing.T, lines ...string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "trace.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	gz := gzip.NewWriter(f)
	for _, l := range lines {
		_, err := gz.Write([]byte(l + "\n"))
		require.NoError(t, err)
	}
	require.NoError(t, gz.Close())
	return path
}

func TestBufferedIterator(t *testing.T) {
	path := writeTrace(t,
		"ITERATION 0",
		"CONNECT u1 node-a",
		"REQUEST u1 node-a r1",
		"GET_STATS",
	)

	it, err := NewBufferedIterator(path)
	require.NoError(t, err)
	assert.Equal(t, 4, it.Len())

	var kinds []Kind
	for {
		inst, ok := it.Next()
		if !ok {
			break
		}
		kinds = append(kinds, inst.Kind)
	}
	assert.Equal(t, []Kind{SetIteration, Connect, Request, CollectStatistics}, kinds)

	it.Reset()
	inst, ok := it.Next()
	require.True(t, ok)
	assert.Equal(t, SetIteration, inst.Kind)
}

func TestBufferedIterator_PropagatesParseErrors(t *testing.T) {
	path := writeTrace(t, "NOT_A_KEYWORD x")
	_, err := NewBufferedIterator(path)
	require.Error(t, err)
}

func TestStreamingIterator(t *testing.T) {
	path := writeTrace(t,
		"CONNECT u1 node-a",
		"REQUEST u1 node-a r1",
	)

	it, err := NewStreamingIterator(path)
	require.NoError(t, err)
	defer it.Close()

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Connect, first.Kind)

	second, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, Request, second.Kind)

	_, err = it.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestStreamingIterator_Reset(t *testing.T) {
	path := writeTrace(t, "ITERATION 1", "ITERATION 2")

	it, err := NewStreamingIterator(path)
	require.NoError(t, err)
	defer it.Close()

	first, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Iteration)

	require.NoError(t, it.Reset())
	again, err := it.Next()
	require.NoError(t, err)
	assert.Equal(t, int64(1), again.Iteration)
}
