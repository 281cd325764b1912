package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ayusman/pathsense/internal/capture"
	"github.com/ayusman/pathsense/internal/tracker"
)

// ReplayStats summarizes one replay run.
type ReplayStats struct {
	Inputs    int `json:"inputs"`
	Strokes   int `json:"strokes"`
	Cancelled int `json:"cancelled"`
}

// Replay feeds every input of src through a fresh tracker whose events go to
// listener. It returns once the tracker has delivered every event, including
// the analysis of the last stroke.
//
// With paced set, inputs are delayed by the gaps between their timestamps so
// the tracker sees them at the recorded rate. Otherwise they are fed as fast
// as the source yields them.
func (a *App) Replay(ctx context.Context, src capture.Source, listener tracker.Listener, paced bool) (ReplayStats, error) {
	var stats ReplayStats

	if err := src.Open(); err != nil {
		return stats, err
	}
	defer src.Close()

	t := a.NewTracker(tracker.WithListener(listener))
	defer t.Close()

	var lastTs int64
	first := true

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		in, err := src.Next()
		if errors.Is(err, capture.ErrEndOfInput) {
			break
		}
		if err != nil {
			return stats, fmt.Errorf("failed to read input: %w", err)
		}

		if paced && !first {
			if err := sleepCtx(ctx, time.Duration(in.TimestampMs-lastTs)*time.Millisecond); err != nil {
				return stats, err
			}
		}
		lastTs = in.TimestampMs
		first = false
		stats.Inputs++

		switch in.Action {
		case capture.ActionDown:
			t.OnDown(in.Sample)
		case capture.ActionMove:
			t.OnMove(in.Sample)
		case capture.ActionUp:
			t.OnUp(in.Sample)
			stats.Strokes++
		case capture.ActionCancel:
			t.OnCancel()
			stats.Cancelled++
		}
	}

	// Close drains the analysis worker and the dispatcher before returning.
	t.Close()

	a.logger.Info("replay finished",
		"inputs", stats.Inputs,
		"strokes", stats.Strokes,
		"cancelled", stats.Cancelled,
	)
	return stats, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
