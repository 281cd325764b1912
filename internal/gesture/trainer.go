package gesture

import (
	"encoding/json"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/pathsense/internal/geom"
)

// ErrNoSamples is returned when training is attempted without strokes.
var ErrNoSamples = errors.New("no samples provided")

// Trainer processes recorded strokes into gesture templates.
type Trainer struct{}

// NewTrainer creates a new Trainer instance.
func NewTrainer() *Trainer {
	return &Trainer{}
}

// StrokeSample represents one recorded training stroke.
type StrokeSample struct {
	Points     []geom.Sample `json:"points"`
	RecordedAt int64         `json:"recorded_at"`
}

// TrainSamples decodes JSON-encoded StrokeSamples and trains a template
// from them.
func (t *Trainer) TrainSamples(id, name string, samples []json.RawMessage) (*Template, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	strokes := make([][]geom.Sample, 0, len(samples))
	for i, raw := range samples {
		var sample StrokeSample
		if err := json.Unmarshal(raw, &sample); err != nil {
			return nil, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}
		strokes = append(strokes, sample.Points)
	}

	return t.Train(id, name, strokes)
}

// Train normalizes every stroke and averages them point by point into a
// single custom template. Every stroke needs at least two points.
func (t *Trainer) Train(id, name string, strokes [][]geom.Sample) (*Template, error) {
	if len(strokes) == 0 {
		return nil, ErrNoSamples
	}

	sum := make([]float64, NumPoints*2)
	var ref []geom.Sample
	for i, stroke := range strokes {
		if len(stroke) < 2 {
			return nil, fmt.Errorf("sample %d has insufficient path points", i)
		}

		normalized := Normalize(stroke)
		if ref == nil {
			ref = normalized
		}
		floats.Add(sum, flatten(normalized))
	}
	floats.Scale(1/float64(len(strokes)), sum)

	// Use timestamps from the first stroke as reference
	averaged := make([]geom.Sample, NumPoints)
	for i := range averaged {
		averaged[i] = geom.Sample{
			X:           float32(sum[2*i]),
			Y:           float32(sum[2*i+1]),
			TimestampMs: ref[i].TimestampMs,
		}
	}

	return NewTemplate(id, name, TypeCustom, averaged), nil
}
