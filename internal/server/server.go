// Package server exposes competitions over HTTP: JSON endpoints to start and
// inspect runs plus a websocket stream of per-step progress.
package server

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"sync"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

// Server wraps http.Server with h2c so HTTP/2 works without TLS termination.
// It binds its listener explicitly, so ":0" picks an ephemeral port that
// Addr reports once Start has bound it.
type Server struct {
	httpServer *http.Server

	mu sync.Mutex
	ln net.Listener
}

func New(addr string, handler http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: h2c.NewHandler(handler, &http2.Server{}),
		},
	}
}

// Addr returns the bound listen address, or "" before Start has bound one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// Start binds the listener and serves until Shutdown. A clean shutdown
// returns nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()

	log.Printf("starting server on %s", ln.Addr())
	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
