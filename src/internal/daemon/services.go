package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

// ServiceStatus is the supervision state of a service attached with AttachService.
type ServiceStatus struct {
	Name      string
	Running   bool
	Restarts  int
	LastError error
}

// restartPolicy bounds the delay before a failed service is started again.
// The delay doubles after every failure up to max.
type restartPolicy struct {
	initial time.Duration
	max     time.Duration
}

var defaultRestartPolicy = restartPolicy{initial: time.Second, max: 30 * time.Second}

// serviceStopTimeout is how long Run waits for attached services after cancelling them.
const serviceStopTimeout = 30 * time.Second

type attachedService struct {
	name string
	run  func(ctx context.Context) error

	mu     sync.Mutex
	status ServiceStatus
}

func newAttachedService(name string, run func(ctx context.Context) error) *attachedService {
	return &attachedService{name: name, run: run, status: ServiceStatus{Name: name}}
}

// supervise keeps the service running until ctx is done. A failure or panic
// restarts it after the policy delay; a clean return ends supervision.
// A failing status API therefore never stops the login loop.
func (s *attachedService) supervise(ctx context.Context, policy restartPolicy) {
	s.setRunning(true)
	defer s.setRunning(false)

	delay := policy.initial
	for {
		err := s.runOnce(ctx)
		if ctx.Err() != nil {
			return
		}
		if err == nil {
			log.Infof("%s exited", s.name)
			return
		}

		restarts := s.recordFailure(err)
		log.Errorf("%s failed: %v. Restarting in %v (restart #%d)", s.name, err, delay, restarts)
		if !sleep(ctx, delay) {
			return
		}
		delay = min(delay*2, policy.max)
	}
}

func (s *attachedService) runOnce(ctx context.Context) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = fmt.Errorf("panic: %v", v)
		}
	}()
	return s.run(ctx)
}

func (s *attachedService) recordFailure(err error) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.LastError = err
	s.status.Restarts++
	return s.status.Restarts
}

func (s *attachedService) setRunning(running bool) {
	s.mu.Lock()
	s.status.Running = running
	s.mu.Unlock()
}

func (s *attachedService) snapshot() ServiceStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// waitTimeout reports whether wg finished within timeout.
func waitTimeout(wg *sync.WaitGroup, timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}
