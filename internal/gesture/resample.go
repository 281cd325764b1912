package gesture

import (
	"math"

	"github.com/ayusman/pathsense/internal/geom"
)

// NumPoints is the point count every stroke is resampled to before
// vectorization.
const NumPoints = 64

const nearlyZero = 1e-6

// Normalize runs the fixed pipeline that makes two strokes comparable:
// resample to NumPoints, rotate the indicative angle to zero, scale to the
// unit square and move the centroid to the origin.
func Normalize(points []geom.Sample) []geom.Sample {
	resampled := Resample(points, NumPoints)
	rotated := Rotate(resampled, -IndicativeAngle(resampled))
	scaled := ScaleToSquare(rotated, 1)
	return TranslateToOrigin(scaled)
}

// Resample walks the polyline by arc length and returns exactly n points
// spaced evenly along it. Timestamps are interpolated along with positions.
//
// Degenerate input never fails: no points yields nil, a single point or a
// zero-length stroke yields n copies of the first point.
func Resample(points []geom.Sample, n int) []geom.Sample {
	if len(points) == 0 || n <= 0 {
		return nil
	}
	if len(points) == 1 {
		return repeat(points[0], n)
	}

	total := geom.PathLength(points)
	if total <= nearlyZero {
		return repeat(points[0], n)
	}

	interval := total / float64(n-1)
	out := make([]geom.Sample, 0, n)
	out = append(out, points[0])

	var acc float64
	prev := points[0]
	for i := 1; i < len(points) && len(out) < n; {
		cur := points[i]
		d := geom.Distance(prev, cur)
		if d < nearlyZero {
			prev = cur
			i++
			continue
		}

		if acc+d >= interval {
			t := (interval - acc) / d
			q := lerp(prev, cur, t)
			out = append(out, q)
			// The remainder of this segment is walked from q.
			prev = q
			acc = 0
		} else {
			acc += d
			prev = cur
			i++
		}
	}

	// Rounding can leave the walk one point short.
	last := points[len(points)-1]
	for len(out) < n {
		out = append(out, last)
	}
	return out
}

// IndicativeAngle returns the angle in radians from the first point to the
// centroid.
func IndicativeAngle(points []geom.Sample) float64 {
	if len(points) == 0 {
		return 0
	}
	c := geom.Centroid(points)
	first := points[0]
	return math.Atan2(float64(c.Y-first.Y), float64(c.X-first.X))
}

// Rotate rotates points about their centroid by angle radians.
func Rotate(points []geom.Sample, angle float64) []geom.Sample {
	c := geom.Centroid(points)
	cx, cy := float64(c.X), float64(c.Y)
	cos, sin := math.Cos(angle), math.Sin(angle)

	out := make([]geom.Sample, len(points))
	for i, p := range points {
		dx := float64(p.X) - cx
		dy := float64(p.Y) - cy
		out[i] = geom.Sample{
			X:           float32(dx*cos - dy*sin + cx),
			Y:           float32(dx*sin + dy*cos + cy),
			TimestampMs: p.TimestampMs,
		}
	}
	return out
}

// ScaleToSquare scales x and y independently so the bounding box becomes a
// size x size square. Box sides shorter than 1 are treated as 1, which keeps
// pure horizontal or vertical strokes finite.
func ScaleToSquare(points []geom.Sample, size float64) []geom.Sample {
	box := geom.BoundingBox(points)
	width := math.Max(1, box.Width())
	height := math.Max(1, box.Height())

	out := make([]geom.Sample, len(points))
	for i, p := range points {
		out[i] = geom.Sample{
			X:           float32((float64(p.X) - box.Left) * (size / width)),
			Y:           float32((float64(p.Y) - box.Top) * (size / height)),
			TimestampMs: p.TimestampMs,
		}
	}
	return out
}

// TranslateToOrigin moves points so that their centroid is at (0, 0).
func TranslateToOrigin(points []geom.Sample) []geom.Sample {
	c := geom.Centroid(points)
	out := make([]geom.Sample, len(points))
	for i, p := range points {
		out[i] = geom.Sample{X: p.X - c.X, Y: p.Y - c.Y, TimestampMs: p.TimestampMs}
	}
	return out
}

func lerp(a, b geom.Sample, t float64) geom.Sample {
	return geom.Sample{
		X:           float32(float64(a.X) + t*float64(b.X-a.X)),
		Y:           float32(float64(a.Y) + t*float64(b.Y-a.Y)),
		TimestampMs: a.TimestampMs + int64(t*float64(b.TimestampMs-a.TimestampMs)),
	}
}

func repeat(p geom.Sample, n int) []geom.Sample {
	out := make([]geom.Sample, n)
	for i := range out {
		out[i] = p
	}
	return out
}
