package instruction

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// BufferedIterator parses an entire trace file up front and replays it
// from memory. Cheap to rewind, costly to hold for very large traces.
type BufferedIterator struct {
	instructions []Instruction
	pos          int
}

// NewBufferedIterator reads and parses every line of a gzip-compressed
// trace file before returning.
func NewBufferedIterator(path string) (*BufferedIterator, error) {
	instructions, err := parseFile(path)
	if err != nil {
		return nil, err
	}
	return &BufferedIterator{instructions: instructions}, nil
}

// Next returns the next instruction, or false once the trace is exhausted.
func (b *BufferedIterator) Next() (Instruction, bool) {
	if b.pos >= len(b.instructions) {
		return Instruction{}, false
	}
	i := b.instructions[b.pos]
	b.pos++
	return i, true
}

// Reset rewinds to the first instruction.
func (b *BufferedIterator) Reset() {
	b.pos = 0
}

// Len reports the total number of instructions in the trace.
func (b *BufferedIterator) Len() int {
	return len(b.instructions)
}

func parseFile(path string) ([]Instruction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var out []Instruction
	scanner := bufio.NewScanner(gz)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		inst, err := Parse(line, lineNo)
		if err != nil {
			return nil, err
		}
		out = append(out, inst)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// StreamingIterator yields one instruction per line without pre-loading
// the whole trace. Rewinding reopens the underlying file.
type StreamingIterator struct {
	path    string
	file    *os.File
	gz      *gzip.Reader
	scanner *bufio.Scanner
	lineNo  int
}

// NewStreamingIterator opens path and prepares to stream instructions
// from it one line at a time.
func NewStreamingIterator(path string) (*StreamingIterator, error) {
	s := &StreamingIterator{path: path}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *StreamingIterator) open() error {
	f, err := os.Open(s.path)
	if err != nil {
		return err
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return err
	}
	s.file = f
	s.gz = gz
	s.scanner = bufio.NewScanner(gz)
	s.scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	s.lineNo = 0
	return nil
}

// Next returns the next instruction, io.EOF once exhausted, or a
// *ParseError if a line fails to parse.
func (s *StreamingIterator) Next() (Instruction, error) {
	for s.scanner.Scan() {
		s.lineNo++
		line := s.scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		return Parse(line, s.lineNo)
	}
	if err := s.scanner.Err(); err != nil {
		return Instruction{}, err
	}
	return Instruction{}, io.EOF
}

// Reset closes and reopens the underlying file, restarting the stream.
func (s *StreamingIterator) Reset() error {
	s.Close()
	return s.open()
}

// Close releases the underlying file handles.
func (s *StreamingIterator) Close() error {
	var err error
	if s.gz != nil {
		err = s.gz.Close()
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
