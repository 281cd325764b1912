package tracker

import (
	"sync"

	"github.com/ayusman/pathsense/internal/geom"
	"github.com/ayusman/pathsense/internal/gesture"
)

// snapshot is one unit of analysis work. Final snapshots carry the
// recognizer registry as it was when the stroke ended.
type snapshot struct {
	sessionID   string
	points      []geom.Sample
	final       bool
	recognizers []gesture.Recognizer
}

// mailbox hands snapshots from the ingestion side to the analysis worker
// without ever blocking the sender.
//
// Non-final snapshots conflate into a single slot, latest wins. Final
// snapshots are never dropped: they queue in order, and each one discards
// the pending non-final, which is always older.
type mailbox struct {
	mu     sync.Mutex
	finals []snapshot
	latest *snapshot
	closed bool
	ready  chan struct{}
}

func newMailbox() *mailbox {
	return &mailbox{ready: make(chan struct{}, 1)}
}

// put stores s and reports whether the mailbox was still open.
func (m *mailbox) put(s snapshot) bool {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return false
	}
	if s.final {
		m.latest = nil
		m.finals = append(m.finals, s)
	} else {
		m.latest = &s
	}
	m.mu.Unlock()

	m.signal()
	return true
}

// take blocks until a snapshot is available. Finals are returned before the
// conflated slot. After close, pending work is still drained; take reports
// false once nothing is left.
func (m *mailbox) take() (snapshot, bool) {
	for {
		m.mu.Lock()
		if len(m.finals) > 0 {
			s := m.finals[0]
			m.finals[0] = snapshot{}
			m.finals = m.finals[1:]
			m.mu.Unlock()
			return s, true
		}
		if m.latest != nil {
			s := *m.latest
			m.latest = nil
			m.mu.Unlock()
			return s, true
		}
		if m.closed {
			m.mu.Unlock()
			return snapshot{}, false
		}
		m.mu.Unlock()

		<-m.ready
	}
}

func (m *mailbox) close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.signal()
}

func (m *mailbox) signal() {
	select {
	case m.ready <- struct{}{}:
	default:
	}
}
