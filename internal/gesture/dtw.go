package gesture

import (
	"math"
	"sync"

	"github.com/ayusman/pathsense/internal/geom"
)

// DefaultDTWTolerance is the default maximum DTW distance for a match.
const DefaultDTWTolerance = 0.25

// AlgorithmDTW is the algorithm name reported by DTWRecognizer matches.
const AlgorithmDTW = "dtw"

// DTWDistance calculates Dynamic Time Warping distance between two paths.
// Returns infinity if either path is empty.
// The distance is normalized by the maximum path length.
func DTWDistance(path1, path2 []geom.Sample) float64 {
	n := len(path1)
	m := len(path2)

	// Handle empty paths
	if n == 0 || m == 0 {
		return math.Inf(1)
	}

	// Two rolling rows of the (n+1) x (m+1) cost matrix
	prev := make([]float64, m+1)
	cur := make([]float64, m+1)
	for j := range prev {
		prev[j] = math.Inf(1)
	}
	prev[0] = 0

	for i := 1; i <= n; i++ {
		cur[0] = math.Inf(1)
		for j := 1; j <= m; j++ {
			// Cost is the distance between current points plus minimum of three neighbors
			cost := geom.Distance(path1[i-1], path2[j-1])
			cur[j] = cost + min3(prev[j], cur[j-1], prev[j-1])
		}
		prev, cur = cur, prev
	}

	// Return normalized distance
	return prev[m] / float64(max(n, m))
}

// min3 returns the minimum of three float64 values.
func min3(a, b, c float64) float64 {
	if a <= b && a <= c {
		return a
	}
	if b <= c {
		return b
	}
	return c
}

// DTWRecognizer matches normalized strokes against templates using DTW.
// Unlike DollarOne it reports no match when every template is farther than
// the tolerance.
type DTWRecognizer struct {
	mu        sync.RWMutex
	set       templateSet
	tolerance float64
}

// NewDTWRecognizer creates a recognizer loaded with DefaultTemplates.
func NewDTWRecognizer(tolerance float64) *DTWRecognizer {
	r := &DTWRecognizer{tolerance: tolerance}
	for _, t := range DefaultTemplates() {
		r.set.add(t)
	}
	return r
}

// AddTemplate adds a gesture template to the recognizer.
func (r *DTWRecognizer) AddTemplate(t *Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set.add(t)
}

// RemoveTemplate removes a template by its ID.
func (r *DTWRecognizer) RemoveTemplate(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.set.remove(id)
}

// Recognize returns the closest template within tolerance, scored
// 1 / (1 + distance).
func (r *DTWRecognizer) Recognize(points []geom.Sample) (Match, bool) {
	if len(points) < 2 {
		return Match{}, false
	}

	candidate := Normalize(points)

	r.mu.RLock()
	templates := r.set.snapshot()
	r.mu.RUnlock()

	var best Match
	found := false
	for _, t := range templates {
		// Skip templates with empty paths
		if len(t.Points) == 0 {
			continue
		}

		distance := DTWDistance(candidate, t.Points)
		if math.IsInf(distance, 1) || distance > r.tolerance {
			continue
		}

		score := 1.0 / (1.0 + distance)
		if !found || score > best.Score {
			best = Match{Type: t.Type, Name: t.Name, Score: score, Algorithm: AlgorithmDTW}
			found = true
		}
	}

	return best, found
}
