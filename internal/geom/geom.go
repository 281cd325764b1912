// Package geom provides the point types and planar math shared by the
// trajectory pipeline.
package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Sample is one pointer observation.
type Sample struct {
	X           float32 `json:"x"`
	Y           float32 `json:"y"`
	TimestampMs int64   `json:"t"`
}

// Rect is an axis-aligned box in surface coordinates.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// Width returns the horizontal extent of the box.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of the box.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Distance returns the Euclidean distance between two samples.
func Distance(a, b Sample) float64 {
	return math.Hypot(float64(b.X-a.X), float64(b.Y-a.Y))
}

// AngleDeg returns atan2(dy, dx) in degrees.
func AngleDeg(dx, dy float64) float64 {
	return math.Atan2(dy, dx) * 180 / math.Pi
}

// Magnitude returns the L2 norm of v. An empty v has magnitude 0.
func Magnitude(v []float64) float64 {
	if len(v) == 0 {
		return 0
	}
	return floats.Norm(v, 2)
}

// PathLength sums the distances between consecutive samples.
func PathLength(points []Sample) float64 {
	var length float64
	for i := 1; i < len(points); i++ {
		length += Distance(points[i-1], points[i])
	}
	return length
}

// BoundingBox returns the min/max box over points. An empty input yields the
// zero box.
func BoundingBox(points []Sample) Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, float64(p.X))
		minY = math.Min(minY, float64(p.Y))
		maxX = math.Max(maxX, float64(p.X))
		maxY = math.Max(maxY, float64(p.Y))
	}
	if math.IsInf(minX, 1) {
		return Rect{}
	}
	return Rect{Left: minX, Top: minY, Right: maxX, Bottom: maxY}
}

// Centroid returns the mean position of points, stamped with the last
// timestamp. An empty input yields the zero sample.
func Centroid(points []Sample) Sample {
	if len(points) == 0 {
		return Sample{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += float64(p.X)
		sumY += float64(p.Y)
	}
	n := float64(len(points))
	return Sample{
		X:           float32(sumX / n),
		Y:           float32(sumY / n),
		TimestampMs: points[len(points)-1].TimestampMs,
	}
}
