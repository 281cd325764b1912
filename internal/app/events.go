package app

import (
	"encoding/json"
	"io"
	"log/slog"
	"sync"

	"github.com/ayusman/pathsense/internal/tracker"
)

// EventRecord is the JSON form of a tracker event.
type EventRecord struct {
	Kind tracker.EventKind `json:"kind"`
	Data tracker.Event     `json:"data"`
}

// JSONLinesListener writes each event as one JSON line.
type JSONLinesListener struct {
	mu     sync.Mutex
	enc    *json.Encoder
	logger *slog.Logger
}

// NewJSONLinesListener creates a listener writing to w. Encoding errors are
// logged to logger.
func NewJSONLinesListener(w io.Writer, logger *slog.Logger) *JSONLinesListener {
	if logger == nil {
		logger = slog.Default()
	}
	return &JSONLinesListener{enc: json.NewEncoder(w), logger: logger}
}

// HandleEvent implements tracker.Listener.
func (l *JSONLinesListener) HandleEvent(e tracker.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.enc.Encode(EventRecord{Kind: e.Kind(), Data: e}); err != nil {
		l.logger.Error("failed to write event", "kind", e.Kind(), "error", err)
	}
}

// MultiListener fans every event out to each listener in order.
type MultiListener []tracker.Listener

// HandleEvent implements tracker.Listener.
func (m MultiListener) HandleEvent(e tracker.Event) {
	for _, l := range m {
		if l != nil {
			l.HandleEvent(e)
		}
	}
}
