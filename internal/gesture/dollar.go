package gesture

import (
	"math"
	"sync"

	"github.com/ayusman/pathsense/internal/geom"
)

// DefaultThreshold is the minimum score for a DollarOne match to be reported
// as a known type.
const DefaultThreshold = 0.75

// AlgorithmDollarOne is the algorithm name reported by DollarOne matches.
const AlgorithmDollarOne = "dollar1"

// DollarOne is a $1-style unistroke recognizer. The candidate is normalized,
// vectorized and compared to every template by cosine distance.
type DollarOne struct {
	mu        sync.RWMutex
	set       templateSet
	threshold float64
}

// NewDollarOne creates a recognizer loaded with DefaultTemplates.
func NewDollarOne(threshold float64) *DollarOne {
	r := &DollarOne{threshold: threshold}
	for _, t := range DefaultTemplates() {
		r.set.add(t)
	}
	return r
}

// AddTemplate adds a gesture template to the recognizer.
func (r *DollarOne) AddTemplate(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set.add(t)
}

// RemoveTemplate removes a template by its ID.
func (r *DollarOne) RemoveTemplate(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set.remove(id)
}

// Templates returns the templates in match order.
func (r *DollarOne) Templates() []*Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set.snapshot()
}

// Recognize scores points against every template. Each score is
// 1 - distance/(pi/2), clamped to [0, 1]; the first template wins ties.
// A best score below the threshold is reported as TypeUnknown with that
// score. Fewer than two points yields no match.
func (r *DollarOne) Recognize(points []geom.Sample) (Match, bool) {
	if len(points) < 2 {
		return Match{}, false
	}

	candidate := Vectorize(Normalize(points))

	bestScore := -1.0
	var best *Template
	for _, t := range r.Templates() {
		score := 1 - CosineDistance(candidate, t.Vector)/(math.Pi/2)
		if score > bestScore {
			bestScore = score
			best = t
		}
	}

	clamped := math.Max(0, math.Min(1, bestScore))
	if best == nil || clamped < r.threshold {
		return Match{Type: TypeUnknown, Score: clamped, Algorithm: AlgorithmDollarOne}, true
	}
	return Match{Type: best.Type, Name: best.Name, Score: clamped, Algorithm: AlgorithmDollarOne}, true
}
