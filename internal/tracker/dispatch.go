package tracker

import "sync"

// Dispatcher runs listener callbacks on the context the host designates for
// them, typically a UI loop. Dispatch must not block.
type Dispatcher interface {
	Dispatch(fn func())
}

// ImmediateDispatcher runs callbacks on the calling goroutine. Lifecycle
// events then arrive on the ingestion goroutine and analysis events on the
// analysis worker.
type ImmediateDispatcher struct{}

// Dispatch calls fn.
func (ImmediateDispatcher) Dispatch(fn func()) { fn() }

// SerialDispatcher runs callbacks one at a time, in submission order, on a
// single goroutine it owns.
type SerialDispatcher struct {
	mu     sync.Mutex
	queue  []func()
	closed bool
	ready  chan struct{}
	done   chan struct{}
}

// NewSerialDispatcher starts a SerialDispatcher.
func NewSerialDispatcher() *SerialDispatcher {
	d := &SerialDispatcher{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
	go d.run()
	return d
}

// Dispatch queues fn. Callbacks submitted after Close are dropped.
func (d *SerialDispatcher) Dispatch(fn func()) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.queue = append(d.queue, fn)
	d.mu.Unlock()

	select {
	case d.ready <- struct{}{}:
	default:
	}
}

// Close runs every queued callback and stops the goroutine.
func (d *SerialDispatcher) Close() {
	d.mu.Lock()
	alreadyClosed := d.closed
	d.closed = true
	d.mu.Unlock()

	if !alreadyClosed {
		select {
		case d.ready <- struct{}{}:
		default:
		}
	}
	<-d.done
}

func (d *SerialDispatcher) run() {
	defer close(d.done)

	for {
		d.mu.Lock()
		batch := d.queue
		d.queue = nil
		closed := d.closed
		d.mu.Unlock()

		for _, fn := range batch {
			fn()
		}

		if len(batch) > 0 {
			continue
		}
		if closed {
			return
		}
		<-d.ready
	}
}
