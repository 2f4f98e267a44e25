// Package server exposes the Prometheus registry and a health probe over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/agbru/procmon/internal/logging"
	"github.com/agbru/procmon/internal/metrics"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// HealthCheck reports whether the process is able to sample.
type HealthCheck func() error

// Server serves GET /metrics and GET /healthz.
type Server struct {
	addr     string
	metrics  *metrics.Metrics
	logger   logging.Logger
	health   HealthCheck
	security SecurityConfig
}

// Option customizes a Server.
type Option func(*Server)

// WithHealthCheck makes /healthz return 503 while check fails.
func WithHealthCheck(check HealthCheck) Option {
	return func(s *Server) { s.health = check }
}

// WithSecurityConfig replaces DefaultSecurityConfig.
func WithSecurityConfig(cfg SecurityConfig) Option {
	return func(s *Server) { s.security = cfg }
}

// NewServer creates a server listening on addr once Start is called.
func NewServer(addr string, m *metrics.Metrics, logger logging.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = logging.Nop{}
	}
	s := &Server{
		addr:     addr,
		metrics:  m,
		logger:   logger,
		security: DefaultSecurityConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed, instrumented handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", SecurityMiddleware(s.security, s.metricsMiddleware("/metrics", s.handleMetrics)))
	mux.HandleFunc("/healthz", SecurityMiddleware(s.security, s.metricsMiddleware("/healthz", s.handleHealth)))
	return mux
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()
	s.logger.Info("metrics server listening", logging.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.logger.Debug("method not allowed", logging.String("path", r.URL.Path), logging.String("method", r.Method))
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	s.metrics.WritePrometheus(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.health != nil {
		if err := s.health(); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// statusRecorder captures the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) metricsMiddleware(path string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.metrics.IncrementActiveRequests()
		defer s.metrics.DecrementActiveRequests()

		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next(rec, r)
		s.metrics.ObserveRequest(path, rec.code)
	}
}
