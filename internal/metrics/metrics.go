// Package metrics computes summary statistics over a stroke.
package metrics

import (
	"github.com/ayusman/pathsense/internal/geom"
)

// PathMetrics is an immutable summary of a point sequence.
type PathMetrics struct {
	Length           float64     `json:"length"`
	BoundingBox      geom.Rect   `json:"bounding_box"`
	Start            geom.Sample `json:"start"`
	End              geom.Sample `json:"end"`
	AvgDirectionDeg  float64     `json:"avg_direction_deg"`
	AvgSpeedPxPerSec float64     `json:"avg_speed_px_per_sec"`
	DeltaX           float64     `json:"delta_x"`
	DeltaY           float64     `json:"delta_y"`
}

// Compute returns the metrics of points. An empty input yields zero metrics.
//
// Duration is floored at 1ms so that near-instant strokes still produce a
// finite speed.
func Compute(points []geom.Sample) PathMetrics {
	if len(points) == 0 {
		return PathMetrics{}
	}

	start := points[0]
	end := points[len(points)-1]
	length := geom.PathLength(points)
	dx := float64(end.X - start.X)
	dy := float64(end.Y - start.Y)
	durationMs := max(1, end.TimestampMs-start.TimestampMs)

	return PathMetrics{
		Length:           length,
		BoundingBox:      geom.BoundingBox(points),
		Start:            start,
		End:              end,
		AvgDirectionDeg:  geom.AngleDeg(dx, dy),
		AvgSpeedPxPerSec: length / (float64(durationMs) / 1000),
		DeltaX:           dx,
		DeltaY:           dy,
	}
}
