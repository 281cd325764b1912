package testdata

import (
	"bytes"
	"embed"
	"fmt"

	"github.com/ayusman/pathsense/internal/capture"
	"github.com/ayusman/pathsense/internal/geom"
)

//go:embed strokes/*.jsonl
var strokesFS embed.FS

// Names of the recorded stroke fixtures.
const (
	Line        = "line.jsonl"
	Circle      = "circle.jsonl"
	Rectangle   = "rectangle.jsonl"
	ZigZag      = "zigzag.jsonl"
	CheckUnseen = "check_unseen.jsonl"
	Session     = "session.jsonl"
)

// CheckTraining lists the check mark strokes used to train a custom template.
var CheckTraining = []string{"check_1.jsonl", "check_2.jsonl", "check_3.jsonl"}

// Load returns the raw JSON lines of a fixture.
func Load(name string) ([]byte, error) {
	data, err := strokesFS.ReadFile("strokes/" + name)
	if err != nil {
		return nil, fmt.Errorf("load stroke %s: %w", name, err)
	}
	return data, nil
}

// Source returns an unopened capture source over a fixture.
func Source(name string) (capture.Source, error) {
	data, err := Load(name)
	if err != nil {
		return nil, err
	}
	return capture.NewReaderSource(name, bytes.NewReader(data)), nil
}

// LoadStrokes decodes a fixture into its completed strokes.
func LoadStrokes(name string) ([][]geom.Sample, error) {
	src, err := Source(name)
	if err != nil {
		return nil, err
	}
	if err := src.Open(); err != nil {
		return nil, err
	}
	defer src.Close()

	return capture.Strokes(src)
}

// LoadStroke decodes a fixture holding exactly one stroke.
func LoadStroke(name string) ([]geom.Sample, error) {
	strokes, err := LoadStrokes(name)
	if err != nil {
		return nil, err
	}
	if len(strokes) != 1 {
		return nil, fmt.Errorf("stroke %s: expected 1 stroke, got %d", name, len(strokes))
	}
	return strokes[0], nil
}
