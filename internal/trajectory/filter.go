package trajectory

import (
	"math"

	"github.com/ayusman/pathsense/internal/geom"
)

// Filter rate-limits, distance-gates and smooths incoming samples.
//
// The first sample after construction or Reset is always accepted. Later
// samples are rejected when they arrive sooner than one sampling interval
// after the last accepted sample, or lie closer than the minimum distance to
// it. Accepted samples are smoothed with a 3-tap moving average over the two
// previously accepted (already smoothed) samples when the smoothing window
// is at least 3.
type Filter struct {
	intervalMs    int64
	minDistancePx float64
	smooth        bool

	last     geom.Sample
	lastTime int64
	hasLast  bool

	// prev1 is the newest smoothed sample, prev2 the one before it.
	prev1, prev2 *geom.Sample
}

// NewFilter creates a Filter for the given sampling rate, minimum distance
// and smoothing window.
func NewFilter(samplingHz int, minDistancePx float64, smoothingWindow int) *Filter {
	return &Filter{
		intervalMs:    IntervalMs(samplingHz),
		minDistancePx: minDistancePx,
		smooth:        smoothingWindow >= 3,
	}
}

// IntervalMs returns round(1000/samplingHz) floored at 1 millisecond.
func IntervalMs(samplingHz int) int64 {
	if samplingHz <= 0 {
		return 1
	}
	return max(1, int64(math.Round(1000/float64(samplingHz))))
}

// Accept decides whether s is admitted. On acceptance it returns the sample
// to store, which may be smoothed, and advances the filter history.
func (f *Filter) Accept(s geom.Sample) (geom.Sample, bool) {
	if f.hasLast {
		if s.TimestampMs-f.lastTime < f.intervalMs {
			return geom.Sample{}, false
		}
		if geom.Distance(f.last, s) < f.minDistancePx {
			return geom.Sample{}, false
		}
	}

	out := s
	if f.smooth && f.prev1 != nil && f.prev2 != nil {
		out = geom.Sample{
			X:           (f.prev1.X + f.prev2.X + s.X) / 3,
			Y:           (f.prev1.Y + f.prev2.Y + s.Y) / 3,
			TimestampMs: s.TimestampMs,
		}
	}

	f.prev2 = f.prev1
	stored := out
	f.prev1 = &stored
	f.last = out
	f.lastTime = s.TimestampMs
	f.hasLast = true

	return out, true
}

// Reset forgets all history so the next sample is accepted unconditionally.
func (f *Filter) Reset() {
	f.prev1 = nil
	f.prev2 = nil
	f.last = geom.Sample{}
	f.lastTime = 0
	f.hasLast = false
}
