package daemon

import (
	"context"
	"sync"
)

// EventSink observes the daemon lifecycle.
type EventSink interface {
	// OnStarted is called once all producers are running.
	OnStarted()
	// OnStopping is called when the consumer loop has exited.
	OnStopping()
	// OnStopped is called after producers are joined and the listener is closed.
	OnStopped()
	// RegisterCancellation hands over the function that stops Run.
	RegisterCancellation(cancel context.CancelFunc)
}

// NopEventSink ignores all lifecycle events.
type NopEventSink struct{}

func (NopEventSink) OnStarted() {}
func (NopEventSink) OnStopping() {}
func (NopEventSink) OnStopped() {}
func (NopEventSink) RegisterCancellation(context.CancelFunc) {}

// CancellationSlot stores a cancel function that may arrive after
// cancellation was already requested. In that case Register cancels
// immediately.
type CancellationSlot struct {
	mu        sync.Mutex
	cancel    context.CancelFunc
	cancelled bool
}

// Register stores cancel, or calls it right away if Cancel came first.
func (s *CancellationSlot) Register(cancel context.CancelFunc) {
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancel = cancel
	s.mu.Unlock()
}

// Cancel requests cancellation. It is safe to call more than once.
func (s *CancellationSlot) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Cancelled reports whether Cancel has been called.
func (s *CancellationSlot) Cancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}
