package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/freekieb7/pebble/filesystem"
)

var (
	ErrServerClosed    = errors.New("http: server closed")
	ErrRequestTooLarge = errors.New("http: request too large")
)

// Server accepts connections and dispatches each of them through a
// Rendezvous to one of a fixed number of workers.
type Server struct {
	// Name is sent in the Server header, e.g. "pebble/1.0".
	Name           string
	Workers        int
	MaxRequestSize int
	// ReadTimeout bounds each read of the request. Zero means no timeout.
	ReadTimeout time.Duration

	Filesystem  filesystem.Filesystem
	ContentType func(path []byte) string

	Logger         *slog.Logger
	MeterProvider  metric.MeterProvider
	TracerProvider trace.TracerProvider

	mu          sync.Mutex
	closed      bool
	listener    net.Listener
	rendezvous  *Rendezvous
	workers     sync.WaitGroup
	instruments *instruments

	accepted atomic.Uint64
	handled  atomic.Uint64
	busy     atomic.Int64
}

func NewServer(name string, fsys filesystem.Filesystem) *Server {
	return &Server{
		Name:           name,
		Workers:        runtime.NumCPU(),
		MaxRequestSize: MaxRequestSize,
		Filesystem:     fsys,
		ContentType:    ContentType,
		Logger:         slog.Default(),
		MeterProvider:  otel.GetMeterProvider(),
		TracerProvider: otel.GetTracerProvider(),
		rendezvous:     NewRendezvous(),
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listener)
}

// Serve starts the workers and runs the dispatcher on listener until the
// server is shut down or ctx ends. It always closes listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	if err := s.start(ctx, listener); err != nil {
		listener.Close()
		return err
	}
	defer listener.Close()

	stop := context.AfterFunc(ctx, func() {
		listener.Close()
	})
	defer stop()

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = 5 * time.Millisecond
	retry.MaxInterval = time.Second
	retry.MaxElapsedTime = 0

	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.isClosed() {
				return ErrServerClosed
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			delay := retry.NextBackOff()
			s.Logger.Error("failed to accept connection", "error", err, "retry_in", delay)
			time.Sleep(delay)
			continue
		}
		retry.Reset()
		s.accepted.Add(1)

		// Blocks until a worker acknowledged the connection.
		if err := s.rendezvous.Offer(ctx, conn); err != nil {
			conn.Close()
			return err
		}
	}
}

func (s *Server) start(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrServerClosed
	}
	if s.listener != nil {
		return errors.New("http: server already serving")
	}
	if s.rendezvous == nil {
		s.rendezvous = NewRendezvous()
	}
	if s.ContentType == nil {
		s.ContentType = ContentType
	}
	if s.MaxRequestSize <= 0 {
		s.MaxRequestSize = MaxRequestSize
	}
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.MeterProvider == nil {
		s.MeterProvider = otel.GetMeterProvider()
	}
	if s.TracerProvider == nil {
		s.TracerProvider = otel.GetTracerProvider()
	}

	instruments, err := newInstruments(s.MeterProvider, s.TracerProvider)
	if err != nil {
		return err
	}
	s.instruments = instruments
	s.listener = listener

	workers := max(s.Workers, 1)
	for i := 0; i < workers; i++ {
		worker := newWorker(i, s)
		s.workers.Add(1)
		go func() {
			defer s.workers.Done()
			worker.Run(ctx, s.rendezvous)
		}()
	}

	s.Logger.Info("server started",
		"addr", listener.Addr().String(),
		"workers", workers,
		"root", s.Filesystem.Root())
	return nil
}

func (s *Server) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Shutdown stops accepting connections, releases idle workers and waits for
// in-flight connections to finish or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	if s.listener != nil {
		s.listener.Close()
	}
	if s.rendezvous != nil {
		s.rendezvous.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats is a point-in-time view of the worker pool.
type Stats struct {
	Workers  int    `json:"workers"`
	Busy     int64  `json:"busy"`
	Accepted uint64 `json:"accepted"`
	Handled  uint64 `json:"handled"`
}

func (s *Server) Stats() Stats {
	return Stats{
		Workers:  max(s.Workers, 1),
		Busy:     s.busy.Load(),
		Accepted: s.accepted.Load(),
		Handled:  s.handled.Load(),
	}
}
