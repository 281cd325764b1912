package plugin

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ayusman/pathsense/internal/metrics"
	"github.com/ayusman/pathsense/internal/tracker"
)

// Hooks is a tracker.Listener that runs subscribed plugins for every
// recognized gesture. It runs them synchronously on the delivering
// goroutine, so a slow plugin delays later events by up to the executor
// timeout.
//
// A tracker analyzes finished strokes one at a time and emits MetricsEnded
// right before the stroke's GestureRecognized, so only the latest final
// metrics are kept.
type Hooks struct {
	manager  *Manager
	executor *Executor
	logger   *slog.Logger

	mu          sync.Mutex
	lastSession string
	lastMetrics metrics.PathMetrics
	runs        int
}

// NewHooks creates a listener running plugins from manager with executor.
func NewHooks(manager *Manager, executor *Executor, logger *slog.Logger) *Hooks {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hooks{
		manager:  manager,
		executor: executor,
		logger:   logger,
	}
}

// HandleEvent implements tracker.Listener.
func (h *Hooks) HandleEvent(e tracker.Event) {
	switch ev := e.(type) {
	case tracker.MetricsEnded:
		h.mu.Lock()
		h.lastSession = ev.SessionID
		h.lastMetrics = ev.Metrics
		h.mu.Unlock()

	case tracker.GestureRecognized:
		req := &Request{SessionID: ev.SessionID, Gesture: ev.Match}
		h.mu.Lock()
		if h.lastSession == ev.SessionID {
			m := h.lastMetrics
			req.Metrics = &m
			h.lastSession = ""
		}
		h.mu.Unlock()
		h.run(req)
	}
}

// Runs returns how many plugin executions have been attempted.
func (h *Hooks) Runs() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.runs
}

func (h *Hooks) run(req *Request) {
	for _, p := range h.manager.Subscribers(req.Gesture) {
		h.mu.Lock()
		h.runs++
		h.mu.Unlock()

		resp, err := h.executor.Execute(context.Background(), p, req)
		if err != nil {
			h.logger.Warn("plugin failed", "plugin", p.Manifest.Name, "session", req.SessionID, "error", err)
			continue
		}
		if !resp.Success {
			h.logger.Warn("plugin reported failure", "plugin", p.Manifest.Name, "session", req.SessionID, "error", resp.Error)
			continue
		}
		h.logger.Info("plugin ran",
			"plugin", p.Manifest.Name,
			"gesture", req.Gesture.Type,
			"name", req.Gesture.Name,
			"message", resp.Message,
		)
	}
}
