package gesture

import (
	"math"

	"github.com/ayusman/pathsense/internal/geom"
)

// DefaultTemplates returns the built-in templates in match order:
// line, circle, rectangle, zigzag.
func DefaultTemplates() []*Template {
	return []*Template{
		NewTemplate("builtin-line", "line", TypeLine, LineStroke()),
		NewTemplate("builtin-circle", "circle", TypeCircle, CircleStroke(50, 64)),
		NewTemplate("builtin-rectangle", "rectangle", TypeRectangle, RectangleStroke()),
		NewTemplate("builtin-zigzag", "zigzag", TypeZigZag, ZigZagStroke()),
	}
}

// LineStroke is the canonical horizontal line.
func LineStroke() []geom.Sample {
	return []geom.Sample{
		{X: 0, Y: 0, TimestampMs: 0},
		{X: 100, Y: 0, TimestampMs: 10},
	}
}

// CircleStroke returns steps points evenly spaced on a circle of the given
// radius around the origin.
func CircleStroke(radius float64, steps int) []geom.Sample {
	points := make([]geom.Sample, steps)
	for i := range points {
		a := 2 * math.Pi * float64(i) / float64(steps)
		points[i] = geom.Sample{
			X:           float32(math.Cos(a) * radius),
			Y:           float32(math.Sin(a) * radius),
			TimestampMs: int64(i),
		}
	}
	return points
}

// RectangleStroke is the canonical closed 100x60 rectangle.
func RectangleStroke() []geom.Sample {
	return []geom.Sample{
		{X: 0, Y: 0, TimestampMs: 0},
		{X: 100, Y: 0, TimestampMs: 10},
		{X: 100, Y: 60, TimestampMs: 20},
		{X: 0, Y: 60, TimestampMs: 30},
		{X: 0, Y: 0, TimestampMs: 40},
	}
}

// ZigZagStroke is the canonical four-segment zigzag.
func ZigZagStroke() []geom.Sample {
	return []geom.Sample{
		{X: 0, Y: 0, TimestampMs: 0},
		{X: 30, Y: 20, TimestampMs: 10},
		{X: 60, Y: -20, TimestampMs: 20},
		{X: 90, Y: 20, TimestampMs: 30},
		{X: 120, Y: -20, TimestampMs: 40},
	}
}
