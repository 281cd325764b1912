package capture

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
)

// FileSource reads inputs from JSON lines, one Input per line. Blank lines
// and lines starting with # are skipped.
type FileSource struct {
	path string
	r    io.Reader

	mu      sync.Mutex
	file    *os.File
	scanner *bufio.Scanner
	line    int
	running bool
}

// NewFileSource creates a source reading the file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// NewReaderSource creates a source reading r. name is used in errors.
func NewReaderSource(name string, r io.Reader) *FileSource {
	return &FileSource{path: name, r: r}
}

// Open opens the underlying file, if any, and resets the line counter.
func (s *FileSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	r := s.r
	if r == nil {
		f, err := os.Open(s.path)
		if err != nil {
			return fmt.Errorf("failed to open input %s: %w", s.path, err)
		}
		s.file = f
		r = f
	}

	s.scanner = bufio.NewScanner(r)
	s.line = 0
	s.running = true
	return nil
}

// Close releases the underlying file.
func (s *FileSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running = false
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}

// Next decodes the next input line.
func (s *FileSource) Next() (Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Input{}, ErrSourceNotOpen
	}

	for s.scanner.Scan() {
		s.line++
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var in Input
		dec := json.NewDecoder(bytes.NewReader(line))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&in); err != nil {
			return Input{}, fmt.Errorf("%s:%d: %w", s.path, s.line, err)
		}
		if !in.Action.Valid() {
			return Input{}, fmt.Errorf("%s:%d: unknown action %q", s.path, s.line, in.Action)
		}
		return in, nil
	}

	if err := s.scanner.Err(); err != nil {
		return Input{}, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return Input{}, ErrEndOfInput
}

// IsOpen reports whether the source is open.
func (s *FileSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// WriteInputs encodes inputs as JSON lines, the format FileSource reads.
func WriteInputs(w io.Writer, inputs []Input) error {
	enc := json.NewEncoder(w)
	for _, in := range inputs {
		if err := enc.Encode(in); err != nil {
			return err
		}
	}
	return nil
}
