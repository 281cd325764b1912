package tracker

import (
	"github.com/ayusman/pathsense/internal/gesture"
	"github.com/ayusman/pathsense/internal/trajectory"
)

// Default tracking parameters.
const (
	DefaultSamplingHz        = 120
	DefaultMinDistancePx     = 2
	DefaultSmoothingWindow   = 3
	DefaultResampleSpacingPx = 6
)

// Config holds the tracking parameters. It is fixed for the lifetime of a
// Tracker; create a new Tracker to change it.
type Config struct {
	SamplingHz      int     // Maximum accepted sample rate
	MinDistancePx   float64 // Minimum movement between accepted samples
	SmoothingWindow int     // Smoothing is applied when >= 3
	// ResampleSpacingPx is carried for hosts that render resampled paths;
	// recognition always resamples to gesture.NumPoints.
	ResampleSpacingPx    float64
	MaxPoints            int     // Trajectory capacity; <= 0 disables tracking
	RecognitionThreshold float64 // Minimum score for the built-in recognizer
}

// DefaultConfig returns the default tracking parameters.
func DefaultConfig() Config {
	return Config{
		SamplingHz:           DefaultSamplingHz,
		MinDistancePx:        DefaultMinDistancePx,
		SmoothingWindow:      DefaultSmoothingWindow,
		ResampleSpacingPx:    DefaultResampleSpacingPx,
		MaxPoints:            trajectory.DefaultCapacity,
		RecognitionThreshold: gesture.DefaultThreshold,
	}
}
