// Package admin serves the operational side channel: liveness and worker
// pool statistics. It never shares a listener with the file server.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	pebble "github.com/freekieb7/pebble/http"
)

type StatsSource interface {
	Stats() pebble.Stats
}

type Server struct {
	Logger         *slog.Logger
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider

	source  StatsSource
	started time.Time
	server  *http.Server
}

func NewServer(source StatsSource, logger *slog.Logger) *Server {
	return &Server{
		Logger:  logger,
		source:  source,
		started: time.Now(),
		server:  &http.Server{ReadHeaderTimeout: 5 * time.Second},
	}
}

// Handler returns the instrumented admin routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /stats", s.stats)

	var opts []otelhttp.Option
	if s.MeterProvider != nil {
		opts = append(opts, otelhttp.WithMeterProvider(s.MeterProvider))
	}
	if s.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(s.TracerProvider))
	}
	return otelhttp.NewHandler(mux, "admin", opts...)
}

func (s *Server) Serve(listener net.Listener) error {
	s.server.Handler = s.Handler()
	s.server.ErrorLog = slog.NewLogLogger(s.Logger.Handler(), slog.LevelWarn)

	s.Logger.Info("admin listener started", "addr", listener.Addr().String())
	err := s.server.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(listener)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

type statsResponse struct {
	pebble.Stats
	Uptime string `json:"uptime"`
}

func (s *Server) stats(w http.ResponseWriter, r *http.Request) {
	response := statsResponse{
		Stats:  s.source.Stats(),
		Uptime: time.Since(s.started).Round(time.Second).String(),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.Logger.WarnContext(r.Context(), "failed to write stats", "error", err)
	}
}
