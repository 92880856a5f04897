// Package server provides the optional monitor HTTP server for airtouch.
// It only reads snapshots published by the frame loop.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/ayusman/airtouch/internal/app"
	"github.com/shirou/gopsutil/v3/process"
)

// shutdownTimeout bounds graceful shutdown of open requests.
const shutdownTimeout = 5 * time.Second

// Config holds the server configuration.
type Config struct {
	// Session identifies this run in /api/health.
	Session string
	Logger  *slog.Logger
}

// Server is the monitor. It implements app.Publisher.
type Server struct {
	config Config
	logger *slog.Logger
	mux    *http.ServeMux
	start  time.Time
	proc   *process.Process
	hub    *hub
	done   chan struct{}
	once   sync.Once

	mu      sync.RWMutex
	last    app.Snapshot
	lastMsg []byte
	frame   func() ([]byte, error)
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config: config,
		logger: logger,
		mux:    http.NewServeMux(),
		start:  time.Now(),
		hub:    newHub(),
		done:   make(chan struct{}),
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		logger.Debug("process stats unavailable", "error", err)
	} else {
		s.proc = proc
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/state", s.handleState)
	s.mux.Handle("/api/events", &eventsHandler{server: s})
	s.mux.Handle("/api/stream", &streamHandler{server: s})
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Publish stores snap as the latest state and pushes it to event
// subscribers. Slow subscribers drop messages; Publish never blocks.
func (s *Server) Publish(snap app.Snapshot, frame func() ([]byte, error)) {
	msg, err := json.Marshal(snap)
	if err != nil {
		s.logger.Warn("encode snapshot", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = snap
	s.lastMsg = msg
	s.frame = frame
	s.hub.broadcast(msg)
}

// Latest returns the last published snapshot and whether one exists.
func (s *Server) Latest() (app.Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last, s.lastMsg != nil
}

func (s *Server) frameSource() func() ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frame
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, _ := s.Latest()
	response := map[string]any{
		"status":  "ok",
		"uptime":  time.Since(s.start).String(),
		"session": s.config.Session,
		"frames":  snap.Frame,
		"clients": s.hub.len(),
	}
	if s.proc != nil {
		if mem, err := s.proc.MemoryInfo(); err == nil {
			response["rss_bytes"] = mem.RSS
		}
		if cpu, err := s.proc.CPUPercent(); err == nil {
			response["cpu_percent"] = cpu
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	snap, ok := s.Latest()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. A clean shutdown returns nil.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("monitor listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Close ends open streams and event subscriptions.
func (s *Server) Close() {
	s.once.Do(func() {
		close(s.done)
		s.hub.closeAll()
	})
}
