package capture

import (
	"sync"

	"github.com/ayusman/pathsense/internal/geom"
)

// MockSource plays back pre-recorded inputs for testing
type MockSource struct {
	inputs  []Input
	index   int
	loop    bool
	mu      sync.Mutex
	running bool
}

func NewMockSource(inputs []Input, loop bool) *MockSource {
	return &MockSource{
		inputs: inputs,
		loop:   loop,
	}
}

func (s *MockSource) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = true
	s.index = 0
	return nil
}

func (s *MockSource) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return nil
}

func (s *MockSource) Next() (Input, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return Input{}, ErrSourceNotOpen
	}

	if len(s.inputs) == 0 {
		return Input{}, ErrEndOfInput
	}

	if s.index >= len(s.inputs) {
		if !s.loop {
			return Input{}, ErrEndOfInput
		}
		s.index = 0
	}

	in := s.inputs[s.index]
	s.index++
	return in, nil
}

func (s *MockSource) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// SetInputs replaces the input sequence
func (s *MockSource) SetInputs(inputs []Input) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = inputs
	s.index = 0
}

// Reset restarts playback from the beginning
func (s *MockSource) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
}

// StrokeInputs wraps points as one down..move..up stroke.
func StrokeInputs(points []geom.Sample) []Input {
	if len(points) == 0 {
		return nil
	}
	inputs := make([]Input, 0, len(points))
	for i, p := range points {
		action := ActionMove
		switch i {
		case 0:
			action = ActionDown
		case len(points) - 1:
			action = ActionUp
		}
		inputs = append(inputs, Input{Action: action, Sample: p})
	}
	return inputs
}
