// Package tracker turns a live stream of pointer samples into a bounded
// trajectory, lifecycle events and, once a stroke ends, a classified gesture.
//
// A Tracker is fed from a single ingestion goroutine through OnDown, OnMove,
// OnUp and OnCancel. Those calls never block: they filter the sample, update
// the trajectory, dispatch lifecycle events and post a snapshot of the
// trajectory to a background worker that computes metrics and runs the
// recognizers. Every event reaches the Listener through the Dispatcher.
package tracker

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ayusman/pathsense/internal/geom"
	"github.com/ayusman/pathsense/internal/gesture"
	"github.com/ayusman/pathsense/internal/metrics"
	"github.com/ayusman/pathsense/internal/trajectory"
)

// Clock supplies wall-clock time for session ids.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithClock sets the clock used for session ids.
func WithClock(c Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithRand sets the random source used for session ids.
func WithRand(r *rand.Rand) Option {
	return func(t *Tracker) { t.intn = r.IntN }
}

// WithDispatcher sets the callback context. The Tracker does not close a
// dispatcher supplied this way.
func WithDispatcher(d Dispatcher) Option {
	return func(t *Tracker) { t.dispatcher = d }
}

// WithListener sets the initial listener.
func WithListener(l Listener) Option {
	return func(t *Tracker) { t.SetListener(l) }
}

// WithRecognizers replaces the default recognizer registry.
func WithRecognizers(rs ...gesture.Recognizer) Option {
	return func(t *Tracker) {
		t.recognizers = nil
		for _, r := range rs {
			t.AddRecognizer(r)
		}
	}
}

type listenerBox struct {
	l Listener
}

// Tracker is the session state machine. It is Idle until OnDown and Active
// until the matching OnUp or OnCancel.
type Tracker struct {
	config     Config
	logger     *slog.Logger
	clock      Clock
	intn       func(int) int
	dispatcher Dispatcher
	ownsDisp   *SerialDispatcher
	listener   atomic.Pointer[listenerBox]

	// mu guards the session state below. Ingestion is expected to come from
	// one goroutine; the lock lets CurrentPoints and ClearPoints be called
	// from the callback context as well.
	mu        sync.Mutex
	buffer    *trajectory.Buffer
	filter    *trajectory.Filter
	sessionID string

	recMu       sync.RWMutex
	recognizers []gesture.Recognizer

	mailbox   *mailbox
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a Tracker and starts its analysis worker. The default registry
// holds a single gesture.DollarOne recognizer with the configured threshold.
func New(cfg Config, opts ...Option) *Tracker {
	t := &Tracker{
		config:  cfg,
		logger:  slog.Default(),
		clock:   systemClock{},
		intn:    rand.IntN,
		buffer:  trajectory.NewBuffer(cfg.MaxPoints),
		filter:  trajectory.NewFilter(cfg.SamplingHz, cfg.MinDistancePx, cfg.SmoothingWindow),
		mailbox: newMailbox(),
	}
	t.recognizers = []gesture.Recognizer{gesture.NewDollarOne(cfg.RecognitionThreshold)}

	for _, opt := range opts {
		opt(t)
	}

	if t.dispatcher == nil {
		t.ownsDisp = NewSerialDispatcher()
		t.dispatcher = t.ownsDisp
	}

	t.wg.Add(1)
	go t.runAnalysis()

	return t
}

// Config returns the tracking parameters.
func (t *Tracker) Config() Config {
	return t.config
}

// SetListener replaces the listener. Events dispatched afterwards, including
// ones already queued on the dispatcher, go to l.
func (t *Tracker) SetListener(l Listener) {
	if l == nil {
		t.listener.Store(nil)
		return
	}
	t.listener.Store(&listenerBox{l: l})
}

// AddRecognizer appends r to the registry. Adding a recognizer that is
// already registered is a no-op. Recognizers must be comparable, which
// pointer types are.
func (t *Tracker) AddRecognizer(r gesture.Recognizer) {
	if r == nil {
		return
	}
	t.recMu.Lock()
	defer t.recMu.Unlock()
	for _, existing := range t.recognizers {
		if existing == r {
			return
		}
	}
	t.recognizers = append(t.recognizers, r)
}

// RemoveRecognizer removes r from the registry.
func (t *Tracker) RemoveRecognizer(r gesture.Recognizer) {
	t.recMu.Lock()
	defer t.recMu.Unlock()
	for i, existing := range t.recognizers {
		if existing == r {
			t.recognizers = append(t.recognizers[:i], t.recognizers[i+1:]...)
			return
		}
	}
}

// Recognizers returns the registry in insertion order.
func (t *Tracker) Recognizers() []gesture.Recognizer {
	t.recMu.RLock()
	defer t.recMu.RUnlock()
	out := make([]gesture.Recognizer, len(t.recognizers))
	copy(out, t.recognizers)
	return out
}

// SessionID returns the active session id, or "" when Idle.
func (t *Tracker) SessionID() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sessionID
}

// CurrentPoints returns a copy of the current trajectory.
func (t *Tracker) CurrentPoints() []geom.Sample {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buffer.Snapshot()
}

// ClearPoints empties the trajectory and filter history without touching
// the session or emitting events.
func (t *Tracker) ClearPoints() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.clearLocked()
}

func (t *Tracker) clearLocked() {
	t.buffer.Clear()
	t.filter.Reset()
}

// OnDown starts a new session with s. Any session still in progress is
// abandoned without an event.
func (t *Tracker) OnDown(s geom.Sample) {
	id := t.newSessionID()

	t.mu.Lock()
	if t.sessionID != "" {
		t.logger.Debug("abandoning session", "session", t.sessionID)
	}
	t.sessionID = id
	t.clearLocked()
	accepted, _ := t.filter.Accept(s)
	t.buffer.Add(accepted)
	points := t.buffer.Snapshot()
	t.mu.Unlock()

	t.logger.Debug("session started", "session", id, "x", accepted.X, "y", accepted.Y)

	t.emit(Started{SessionID: id, Point: accepted})
	t.emit(Updated{SessionID: id, Points: points})
	t.mailbox.put(snapshot{sessionID: id, points: clonePoints(points)})
}

// OnMove feeds s to the active session. Samples rejected by the filter are
// dropped silently. No-op when Idle.
func (t *Tracker) OnMove(s geom.Sample) {
	t.mu.Lock()
	id := t.sessionID
	if id == "" {
		t.mu.Unlock()
		return
	}
	accepted, ok := t.filter.Accept(s)
	if !ok {
		t.mu.Unlock()
		return
	}
	t.buffer.Add(accepted)
	points := t.buffer.Snapshot()
	t.mu.Unlock()

	t.emit(Updated{SessionID: id, Points: points})
	t.mailbox.put(snapshot{sessionID: id, points: clonePoints(points)})
}

// OnUp ends the active session with s, which passes through the same filter
// as OnMove. The final trajectory is always analyzed and recognized. No-op
// when Idle.
func (t *Tracker) OnUp(s geom.Sample) {
	t.mu.Lock()
	id := t.sessionID
	if id == "" {
		t.mu.Unlock()
		return
	}
	if accepted, ok := t.filter.Accept(s); ok {
		t.buffer.Add(accepted)
	}
	points := t.buffer.Snapshot()
	t.sessionID = ""
	t.mu.Unlock()
	recognizers := t.Recognizers()

	t.logger.Debug("session ended", "session", id, "points", len(points))

	t.emit(Ended{SessionID: id, Points: points})
	t.mailbox.put(snapshot{sessionID: id, points: clonePoints(points), final: true, recognizers: recognizers})
}

// OnCancel aborts the active session. No analysis runs for it. No-op when
// Idle.
func (t *Tracker) OnCancel() {
	t.mu.Lock()
	id := t.sessionID
	if id == "" {
		t.mu.Unlock()
		return
	}
	t.clearLocked()
	t.sessionID = ""
	t.mu.Unlock()

	t.logger.Debug("session cancelled", "session", id)

	t.emit(Cancelled{SessionID: id})
}

// Close stops the analysis worker after it has drained pending snapshots,
// then, if the Tracker created its own dispatcher, delivers the remaining
// events and stops it. Input after Close is ignored by the worker.
func (t *Tracker) Close() {
	t.closeOnce.Do(func() {
		t.mailbox.close()
		t.wg.Wait()
		if t.ownsDisp != nil {
			t.ownsDisp.Close()
		}
	})
}

func (t *Tracker) runAnalysis() {
	defer t.wg.Done()

	for {
		snap, ok := t.mailbox.take()
		if !ok {
			return
		}
		t.analyze(snap)
	}
}

func (t *Tracker) analyze(snap snapshot) {
	m := metrics.Compute(snap.points)
	if !snap.final {
		t.emit(MetricsUpdated{SessionID: snap.sessionID, Metrics: m})
		return
	}

	t.emit(MetricsEnded{SessionID: snap.sessionID, Metrics: m})

	match, ok := recognize(snap.recognizers, snap.points)
	if !ok {
		return
	}
	t.logger.Debug("gesture recognized",
		"session", snap.sessionID,
		"type", match.Type,
		"name", match.Name,
		"score", match.Score,
		"algorithm", match.Algorithm,
	)
	t.emit(GestureRecognized{SessionID: snap.sessionID, Match: match})
}

// recognize runs every recognizer in rs and keeps the highest score.
// Earlier recognizers win ties.
func recognize(rs []gesture.Recognizer, points []geom.Sample) (gesture.Match, bool) {
	var best gesture.Match
	found := false
	for _, r := range rs {
		match, ok := r.Recognize(points)
		if !ok {
			continue
		}
		if !found || match.Score > best.Score {
			best = match
			found = true
		}
	}
	return best, found
}

// emit hands e to the dispatcher. The listener is looked up when the
// callback runs, not when it is queued.
func (t *Tracker) emit(e Event) {
	t.dispatcher.Dispatch(func() {
		if box := t.listener.Load(); box != nil {
			box.l.HandleEvent(e)
		}
	})
}

func (t *Tracker) newSessionID() string {
	return fmt.Sprintf("ps-%d-%d", t.clock.Now().UnixMilli(), t.intn(1_000_000))
}

// clonePoints gives the worker its own copy so listeners holding the
// event's slice cannot race with analysis.
func clonePoints(points []geom.Sample) []geom.Sample {
	out := make([]geom.Sample, len(points))
	copy(out, points)
	return out
}
