// Package capture provides pointer input sources that feed the tracker.
package capture

import (
	"errors"
	"fmt"

	"github.com/ayusman/pathsense/internal/geom"
)

var (
	// ErrEndOfInput is returned by Next once a source has no more inputs.
	ErrEndOfInput = errors.New("end of input")
	// ErrSourceNotOpen is returned when reading from a source that is not open.
	ErrSourceNotOpen = errors.New("source is not open")
)

// Action is the pointer transition carried by an Input.
type Action string

const (
	ActionDown   Action = "down"
	ActionMove   Action = "move"
	ActionUp     Action = "up"
	ActionCancel Action = "cancel"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionDown, ActionMove, ActionUp, ActionCancel:
		return true
	}
	return false
}

// Input is one pointer event. It encodes as a flat JSON object:
//
//	{"action":"move","x":120.5,"y":48,"t":1712}
type Input struct {
	Action Action `json:"action"`
	geom.Sample
}

// Source defines the interface for pointer input implementations.
type Source interface {
	Open() error
	Close() error
	// Next returns the next input, or ErrEndOfInput when exhausted.
	Next() (Input, error)
	IsOpen() bool
}

// Strokes drains src and splits it into completed strokes, one per
// down..up pair. Cancelled and unterminated strokes are dropped. The source
// must already be open.
func Strokes(src Source) ([][]geom.Sample, error) {
	var strokes [][]geom.Sample
	var current []geom.Sample
	active := false

	for {
		in, err := src.Next()
		if errors.Is(err, ErrEndOfInput) {
			return strokes, nil
		}
		if err != nil {
			return nil, err
		}

		switch in.Action {
		case ActionDown:
			current = []geom.Sample{in.Sample}
			active = true
		case ActionMove:
			if active {
				current = append(current, in.Sample)
			}
		case ActionUp:
			if active {
				strokes = append(strokes, append(current, in.Sample))
			}
			current, active = nil, false
		case ActionCancel:
			current, active = nil, false
		default:
			return nil, fmt.Errorf("unknown action %q", in.Action)
		}
	}
}
