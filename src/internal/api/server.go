package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/maksimkurb/njupt-wifi-login/src/internal/log"
)

const shutdownTimeout = 5 * time.Second

// Server represents the API server
type Server struct {
	bindAddr string
	handler  http.Handler

	mu   sync.Mutex
	addr net.Addr
}

// NewServer creates a new API server
func NewServer(bindAddr string, handler http.Handler) *Server {
	return &Server{
		bindAddr: bindAddr,
		handler:  handler,
	}
}

// Run serves until ctx is cancelled, then shuts the server down gracefully.
// A Server can be run again after Run returns, so it fits a restartable runner.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bindAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.bindAddr, err)
	}
	s.setAddr(listener.Addr())
	defer s.setAddr(nil)

	log.Infof("Status API listening on http://%s/api/v1/status", listener.Addr())

	srv := &http.Server{
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Infof("Stopping status API...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Error shutting down HTTP server: %v", err)
	}
	<-errCh
	return nil
}

// Addr returns the listening address while Run is serving, or nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

func (s *Server) setAddr(addr net.Addr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addr = addr
}
