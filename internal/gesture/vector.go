package gesture

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ayusman/pathsense/internal/geom"
)

// flatten lays points out as (x0, y0, x1, y1, ...).
func flatten(points []geom.Sample) []float64 {
	v := make([]float64, 0, len(points)*2)
	for _, p := range points {
		v = append(v, float64(p.X), float64(p.Y))
	}
	return v
}

// Vectorize flattens points into (x0, y0, x1, y1, ...) and scales the result
// to unit length. A zero vector is returned as is.
func Vectorize(points []geom.Sample) []float64 {
	v := flatten(points)
	if m := geom.Magnitude(v); m > 0 {
		floats.Scale(1/m, v)
	}
	return v
}

// CosineDistance returns the angle in radians between two unit vectors.
// Only the overlapping prefix of a and b is compared.
func CosineDistance(a, b []float64) float64 {
	n := min(len(a), len(b))
	dot := floats.Dot(a[:n], b[:n])
	return math.Acos(math.Max(-1, math.Min(1, dot)))
}
