// Package resourcemap loads the ";"-delimited identifier-to-byte-size
// table the runner uses to resolve a Request instruction's size.
package resourcemap

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Load reads a ";"-delimited CSV file with an "identifier;size" header
// (additional columns are ignored) into a map. Rows with a blank
// identifier or a non-positive size are dropped.
func Load(path string) (map[string]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening resource map %q: %w", path, err)
	}
	defer f.Close()

	return parse(f)
}

func parse(r io.Reader) (map[string]int64, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return map[string]int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	idIdx, sizeIdx := -1, -1
	for i, col := range header {
		switch col {
		case "identifier":
			idIdx = i
		case "size":
			sizeIdx = i
		}
	}
	if idIdx < 0 || sizeIdx < 0 {
		return nil, fmt.Errorf("resource map header missing identifier/size columns")
	}

	out := make(map[string]int64)
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}
		if idIdx >= len(row) || sizeIdx >= len(row) {
			continue
		}

		identifier := stripWhitespace(row[idIdx])
		if identifier == "" {
			continue
		}
		size, err := strconv.ParseInt(row[sizeIdx], 10, 64)
		if err != nil || size <= 0 {
			continue
		}
		out[identifier] = size
	}
	return out, nil
}

// stripWhitespace removes spaces, tabs, and line breaks (\n, \r) from an
// identifier, matching
// the trace's own identifiers (which never contain whitespace since
// the instruction grammar is whitespace-delimited).
func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
