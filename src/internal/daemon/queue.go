package daemon

import "sync"

// signalQueue is a multi-producer, single-consumer queue of check requests.
// A pending signal absorbs later ones: a check that has not started yet
// already covers them.
type signalQueue struct {
	mu     sync.RWMutex
	ch     chan struct{}
	closed bool
}

func newSignalQueue() *signalQueue {
	return &signalQueue{ch: make(chan struct{}, 1)}
}

// Notify enqueues a signal. It returns false once the queue is closed.
func (q *signalQueue) Notify() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	select {
	case q.ch <- struct{}{}:
	default:
	}
	return true
}

// C returns the receive side. It is closed by Close.
func (q *signalQueue) C() <-chan struct{} {
	return q.ch
}

// Close stops accepting signals. Idempotent.
func (q *signalQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.ch)
	}
}
