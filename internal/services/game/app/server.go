package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/louisbranch/singularity/internal/platform/logging"
	"github.com/louisbranch/singularity/internal/services/game/transport/ws"
)

const shutdownTimeout = 5 * time.Second

// Server hosts a session over HTTP.
type Server struct {
	session  *Session
	hub      *ws.Hub
	listener net.Listener
	http     *http.Server
	log      logging.Logger
}

// NewServer listens on addr and routes requests to session.
func NewServer(addr string, session *Session, logger logging.Logger) (*Server, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", addr, err)
	}
	if logger == nil {
		logger = logging.Nop()
	}
	s := &Server{
		session:  session,
		hub:      ws.NewHub(session, session.Bus, ws.WithLogger(logger)),
		listener: listener,
		log:      logging.Component(logger, "server"),
	}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Addr returns the listener address.
func (s *Server) Addr() string {
	if s == nil || s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler returns the routes: the websocket, a state snapshot, and bus
// health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /ws", s.hub)
	mux.HandleFunc("GET /api/state", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, s.session.State())
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		health := s.session.Bus.HealthStatus()
		status := http.StatusOK
		if !health.Healthy {
			status = http.StatusServiceUnavailable
		}
		s.writeJSON(w, status, health)
	})
	return mux
}

// Serve runs the hub and the HTTP server until ctx ends.
func (s *Server) Serve(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx)

	s.log.Info("game server listening", "addr", s.Addr())
	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.http.Serve(s.listener)
	}()

	handleErr := func(err error) error {
		if err == nil || errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := s.http.Shutdown(shutdownCtx); err != nil {
			s.log.Warn("http shutdown", "error", err)
		}
		return handleErr(<-serveErr)
	case err := <-serveErr:
		return handleErr(err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("write json", "error", err)
	}
}
