package resourcemap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	csv := "identifier;size;extension;type\n" +
		"img/a.png;1024;png;image\n" +
		"img/b.png;0;png;image\n" +
		" ;512;png;image\n" +
		"img/c.png;-5;png;image\n" +
		"img/d.png;2048;png;image\n"

	out, err := parse(strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, map[string]int64{
		"img/a.png": 1024,
		"img/d.png": 2048,
	}, out)
}

func TestParse_EmptyFile(t *testing.T) {
	out, err := parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestParse_MissingColumns(t *testing.T) {
	_, err := parse(strings.NewReader("foo;bar\n1;2\n"))
	require.Error(t, err)
}
