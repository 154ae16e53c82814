package health

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/Vodeneev/matchbot/internal/pkg/health/handlers"
)

// Server exposes liveness and metrics endpoints next to the bot.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// NewMux wires /ping, /health and, when metrics is non-nil, /metrics.
func NewMux(metrics http.Handler) *http.ServeMux {
	mux := http.NewServeMux()

	// Health endpoints
	mux.HandleFunc("/ping", handlers.HandlePing)
	mux.HandleFunc("/health", handlers.HandleHealth)

	if metrics != nil {
		mux.Handle("/metrics", metrics)
	}
	return mux
}

// Run starts listening on addr and serves until ctx is cancelled.
func Run(ctx context.Context, addr string, service string, metrics http.Handler, readHeaderTimeout time.Duration) (*Server, error) {
	if readHeaderTimeout <= 0 {
		return nil, fmt.Errorf("read_header_timeout must be positive")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	s := &Server{
		srv: &http.Server{
			Handler:           NewMux(metrics),
			ReadHeaderTimeout: readHeaderTimeout,
		},
		ln: ln,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	go func() {
		slog.Info("Health server listening", "service", service, "addr", ln.Addr().String())
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Health server error", "service", service, "error", err)
		}
	}()

	return s, nil
}

// Addr is the bound listen address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

func AddrFor(port int) string {
	return fmt.Sprintf(":%d", port)
}
