package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/okhramov/perimeter-sentinel/internal/domain/watch"
	"github.com/okhramov/perimeter-sentinel/internal/logger"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// SnapshotSource hands out the most recent status snapshot.
// The boolean is false until the monitoring loop publishes its first one.
type SnapshotSource interface {
	Latest() (watch.Snapshot, bool)
}

// Server exposes the monitor status over HTTP: a JSON status endpoint,
// a liveness probe and the Prometheus scrape endpoint.
type Server struct {
	listener net.Listener
	httpSrv  *http.Server
}

// New binds the listen address and prepares the HTTP server.
// Binding happens here so a busy port surfaces as a startup error
// instead of a background failure.
func New(ctx context.Context, address string, source SnapshotSource, metricsHandler http.Handler) (*Server, error) {
	lc := net.ListenConfig{}

	lis, err := lc.Listen(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", address, err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", statusHandler(source))
	mux.HandleFunc("/healthz", healthHandler)
	mux.Handle("/metrics", metricsHandler)

	return &Server{
		listener: lis,
		httpSrv: &http.Server{
			Handler:           mux,
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Address returns the bound listen address.
func (s *Server) Address() string {
	return s.listener.Addr().String()
}

// Run serves requests until the context is canceled, then shuts down
// gracefully. It blocks until the server has fully stopped.
func (s *Server) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Status server listening", "address", s.Address())

	// Done channel is closed after Shutdown finishes to ensure we block
	// until in-flight requests complete before returning.
	done := make(chan struct{})

	go func() {
		<-ctx.Done()
		logger.Info(ctx, "Shutting down status server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.ErrorKV(ctx, "Status server shutdown failed", "error", err)
		}

		close(done)
	}()

	if err := s.httpSrv.Serve(s.listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve status: %w", err)
	}

	<-done
	logger.Info(ctx, "Status server stopped")

	return nil
}

// statusHandler renders the latest snapshot as JSON. Before the first
// polling cycle completes it answers 503 so probes can tell the monitor
// is still starting.
func statusHandler(source SnapshotSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)

			return
		}

		snap, ok := source.Latest()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no snapshot yet"})

			return
		}

		writeJSON(w, http.StatusOK, snap)
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(payload)
}
