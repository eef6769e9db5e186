package runner

import (
	"errors"
	"io"

	"github.com/edgecache/simcache/internal/instruction"
)

// StreamingSource adapts a *instruction.StreamingIterator (which
// reports exhaustion via io.EOF) to the Source interface Runner.Run
// expects. A non-EOF error ends the stream just as EOF does and is kept
// for Err(), which callers should check after Run returns.
type StreamingSource struct {
	it      *instruction.StreamingIterator
	lastErr error
}

// NewStreamingSource wraps it for use with Runner.Run.
func NewStreamingSource(it *instruction.StreamingIterator) *StreamingSource {
	return &StreamingSource{it: it}
}

func (s *StreamingSource) Next() (instruction.Instruction, bool) {
	inst, err := s.it.Next()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.lastErr = err
		}
		return instruction.Instruction{}, false
	}
	return inst, true
}

// Err returns the first non-EOF error encountered, if any.
func (s *StreamingSource) Err() error {
	return s.lastErr
}
