// Package gesture provides stroke normalization, template matching and
// template training.
package gesture

import (
	"github.com/ayusman/pathsense/internal/geom"
)

// Type represents the class of a recognized gesture.
type Type string

const (
	// TypeLine is a straight stroke.
	TypeLine Type = "LINE"
	// TypeCircle is a closed round stroke.
	TypeCircle Type = "CIRCLE"
	// TypeRectangle is a closed four-sided stroke.
	TypeRectangle Type = "RECTANGLE"
	// TypeZigZag is a stroke alternating direction.
	TypeZigZag Type = "ZIGZAG"
	// TypeCustom is a user-trained template; Match.Name identifies it.
	TypeCustom Type = "CUSTOM"
	// TypeUnknown is reported when no template scores above the threshold.
	TypeUnknown Type = "UNKNOWN"
)

// Match represents the outcome of recognizing one stroke.
type Match struct {
	Type      Type    `json:"type"`
	Name      string  `json:"name,omitempty"` // Template name, empty for UNKNOWN
	Score     float64 `json:"score"`          // Match score (0-1, higher is better)
	Algorithm string  `json:"algorithm"`      // Recognizer that produced the match
}

// Recognizer classifies a completed stroke. It reports false when it has no
// opinion about the stroke at all.
type Recognizer interface {
	Recognize(points []geom.Sample) (Match, bool)
}

// Template is a reference shape, stored in normalized form.
type Template struct {
	ID     string        // Unique identifier for the template
	Name   string        // Human-readable name
	Type   Type          // Gesture class reported on match
	Points []geom.Sample // Normalized NumPoints-point shape
	Vector []float64     // Unit-length vectorization of Points
}

// NewTemplate normalizes points and builds a template from them.
func NewTemplate(id, name string, typ Type, points []geom.Sample) *Template {
	normalized := Normalize(points)
	return &Template{
		ID:     id,
		Name:   name,
		Type:   typ,
		Points: normalized,
		Vector: Vectorize(normalized),
	}
}

// templateSet is an ordered template list shared by the recognizers.
type templateSet struct {
	templates []*Template
}

func (s *templateSet) add(t *Template) {
	if t == nil {
		return
	}
	s.templates = append(s.templates, t)
}

func (s *templateSet) remove(id string) bool {
	for i, t := range s.templates {
		if t.ID == id {
			// Remove element by shifting
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return true
		}
	}
	return false
}

func (s *templateSet) snapshot() []*Template {
	out := make([]*Template, len(s.templates))
	copy(out, s.templates)
	return out
}

// RestoreTemplate rebuilds a template from points that are already
// normalized, such as those read back from storage.
func RestoreTemplate(id, name string, typ Type, normalized []geom.Sample) *Template {
	return &Template{
		ID:     id,
		Name:   name,
		Type:   typ,
		Points: normalized,
		Vector: Vectorize(normalized),
	}
}
