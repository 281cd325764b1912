package tracker

import (
	"github.com/ayusman/pathsense/internal/geom"
	"github.com/ayusman/pathsense/internal/gesture"
	"github.com/ayusman/pathsense/internal/metrics"
)

// EventKind names an Event variant.
type EventKind string

const (
	KindStarted           EventKind = "started"
	KindUpdated           EventKind = "updated"
	KindMetricsUpdated    EventKind = "metrics_updated"
	KindEnded             EventKind = "ended"
	KindMetricsEnded      EventKind = "metrics_ended"
	KindGestureRecognized EventKind = "gesture_recognized"
	KindCancelled         EventKind = "cancelled"
)

// Event is emitted by a Tracker. The concrete type is one of Started,
// Updated, MetricsUpdated, Ended, MetricsEnded, GestureRecognized or
// Cancelled.
type Event interface {
	Session() string
	Kind() EventKind
	event()
}

// Started is emitted when a stroke begins.
type Started struct {
	SessionID string      `json:"session_id"`
	Point     geom.Sample `json:"point"`
}

// Updated is emitted for every accepted sample with the whole trajectory.
type Updated struct {
	SessionID string        `json:"session_id"`
	Points    []geom.Sample `json:"points"`
}

// MetricsUpdated carries metrics of an intermediate trajectory snapshot.
type MetricsUpdated struct {
	SessionID string              `json:"session_id"`
	Metrics   metrics.PathMetrics `json:"metrics"`
}

// Ended is emitted when a stroke is released.
type Ended struct {
	SessionID string        `json:"session_id"`
	Points    []geom.Sample `json:"points"`
}

// MetricsEnded carries metrics of the final trajectory.
type MetricsEnded struct {
	SessionID string              `json:"session_id"`
	Metrics   metrics.PathMetrics `json:"metrics"`
}

// GestureRecognized carries the best recognizer result of a finished stroke.
type GestureRecognized struct {
	SessionID string        `json:"session_id"`
	Match     gesture.Match `json:"match"`
}

// Cancelled is emitted when a stroke is aborted.
type Cancelled struct {
	SessionID string `json:"session_id"`
}

func (e Started) Session() string           { return e.SessionID }
func (e Updated) Session() string           { return e.SessionID }
func (e MetricsUpdated) Session() string    { return e.SessionID }
func (e Ended) Session() string             { return e.SessionID }
func (e MetricsEnded) Session() string      { return e.SessionID }
func (e GestureRecognized) Session() string { return e.SessionID }
func (e Cancelled) Session() string         { return e.SessionID }

func (Started) Kind() EventKind           { return KindStarted }
func (Updated) Kind() EventKind           { return KindUpdated }
func (MetricsUpdated) Kind() EventKind    { return KindMetricsUpdated }
func (Ended) Kind() EventKind             { return KindEnded }
func (MetricsEnded) Kind() EventKind      { return KindMetricsEnded }
func (GestureRecognized) Kind() EventKind { return KindGestureRecognized }
func (Cancelled) Kind() EventKind         { return KindCancelled }

func (Started) event()           {}
func (Updated) event()           {}
func (MetricsUpdated) event()    {}
func (Ended) event()             {}
func (MetricsEnded) event()      {}
func (GestureRecognized) event() {}
func (Cancelled) event()         {}

// Listener receives tracker events.
type Listener interface {
	HandleEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

// HandleEvent calls f(e).
func (f ListenerFunc) HandleEvent(e Event) { f(e) }
