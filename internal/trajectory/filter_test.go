package trajectory

import (
	"testing"

	"github.com/ayusman/pathsense/internal/geom"
)

func TestIntervalMs(t *testing.T) {
	tests := []struct {
		hz       int
		expected int64
	}{
		{120, 8},
		{60, 17},
		{1000, 1},
		{5000, 1},
		{0, 1},
		{-3, 1},
	}

	for _, tt := range tests {
		if got := IntervalMs(tt.hz); got != tt.expected {
			t.Errorf("IntervalMs(%d) = %d, expected %d", tt.hz, got, tt.expected)
		}
	}
}

func TestFilter_FirstSampleAlwaysAccepted(t *testing.T) {
	f := NewFilter(120, 1000, 3)

	s := geom.Sample{X: 5, Y: 5, TimestampMs: 0}
	got, ok := f.Accept(s)
	if !ok {
		t.Fatal("first sample should be accepted")
	}
	if got != s {
		t.Errorf("first sample should pass through unchanged, got %+v", got)
	}
}

func TestFilter_RateLimit(t *testing.T) {
	f := NewFilter(120, 0, 1)
	f.Accept(geom.Sample{X: 0, Y: 0, TimestampMs: 0})

	if _, ok := f.Accept(geom.Sample{X: 50, Y: 0, TimestampMs: 7}); ok {
		t.Error("sample 7ms after the last accepted one should be rejected at 120Hz")
	}
	if _, ok := f.Accept(geom.Sample{X: 50, Y: 0, TimestampMs: 8}); !ok {
		t.Error("sample 8ms after the last accepted one should be accepted at 120Hz")
	}
}

func TestFilter_DistanceGate(t *testing.T) {
	f := NewFilter(1000, 2, 1)
	f.Accept(geom.Sample{X: 0, Y: 0, TimestampMs: 0})

	if _, ok := f.Accept(geom.Sample{X: 1, Y: 1, TimestampMs: 100}); ok {
		t.Error("sample closer than the minimum distance should be rejected")
	}
	if _, ok := f.Accept(geom.Sample{X: 2, Y: 0, TimestampMs: 200}); !ok {
		t.Error("sample at exactly the minimum distance should be accepted")
	}
}

func TestFilter_Smoothing(t *testing.T) {
	f := NewFilter(1000, 0, 3)

	inputs := []geom.Sample{
		{X: 0, Y: 0, TimestampMs: 0},
		{X: 3, Y: 0, TimestampMs: 10},
		{X: 6, Y: 3, TimestampMs: 20},
		{X: 9, Y: 9, TimestampMs: 30},
	}

	var out []geom.Sample
	for _, s := range inputs {
		got, ok := f.Accept(s)
		if !ok {
			t.Fatalf("sample %+v unexpectedly rejected", s)
		}
		out = append(out, got)
	}

	// The first two pass through unchanged.
	if out[0] != inputs[0] || out[1] != inputs[1] {
		t.Errorf("expected first two samples unchanged, got %+v %+v", out[0], out[1])
	}

	// (0 + 3 + 6) / 3 = 3, (0 + 0 + 3) / 3 = 1
	if out[2].X != 3 || out[2].Y != 1 || out[2].TimestampMs != 20 {
		t.Errorf("unexpected third sample %+v", out[2])
	}

	// Averages against the smoothed history: (3 + 3 + 9) / 3 = 5, (0 + 1 + 9) / 3
	if out[3].X != 5 || out[3].TimestampMs != 30 {
		t.Errorf("unexpected fourth sample %+v", out[3])
	}
	if diff := out[3].Y - float32(10.0/3.0); diff > 1e-5 || diff < -1e-5 {
		t.Errorf("unexpected fourth sample Y %f", out[3].Y)
	}
}

func TestFilter_SmoothingDisabled(t *testing.T) {
	f := NewFilter(1000, 0, 2)
	inputs := []geom.Sample{
		{X: 0, TimestampMs: 0},
		{X: 3, TimestampMs: 10},
		{X: 12, TimestampMs: 20},
	}
	for _, s := range inputs {
		got, _ := f.Accept(s)
		if got != s {
			t.Errorf("expected %+v unchanged with smoothing disabled, got %+v", s, got)
		}
	}
}

func TestFilter_RejectionKeepsHistory(t *testing.T) {
	f := NewFilter(120, 0, 3)
	f.Accept(geom.Sample{X: 0, TimestampMs: 0})
	f.Accept(geom.Sample{X: 3, TimestampMs: 10})

	// Rejected by rate limit; must not shift the smoothing history.
	f.Accept(geom.Sample{X: 100, TimestampMs: 11})

	got, ok := f.Accept(geom.Sample{X: 6, TimestampMs: 20})
	if !ok {
		t.Fatal("expected sample to be accepted")
	}
	if got.X != 3 {
		t.Errorf("expected smoothed X 3, got %f", got.X)
	}
}

func TestFilter_Reset(t *testing.T) {
	f := NewFilter(120, 100, 3)
	f.Accept(geom.Sample{X: 0, TimestampMs: 0})
	f.Reset()

	s := geom.Sample{X: 1, TimestampMs: 1}
	got, ok := f.Accept(s)
	if !ok || got != s {
		t.Errorf("expected first sample after Reset accepted unchanged, got %+v, %v", got, ok)
	}
}
