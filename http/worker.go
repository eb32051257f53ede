package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/freekieb7/pebble/buffer"
)

// Worker serves one connection at a time for its whole lifetime:
// take a connection, receive the header block, parse, resolve the path,
// respond, close, repeat. All buffers are private to the worker and reused
// across connections.
type Worker struct {
	id     int
	server *Server

	conn   net.Conn
	connID string

	request  *Request
	recv     buffer.Buffer
	response buffer.Buffer
	lister   *Lister
	chunk    []byte
}

func newWorker(id int, server *Server) *Worker {
	w := &Worker{
		id:      id,
		server:  server,
		request: NewRequest(),
		lister:  NewLister(),
		chunk:   make([]byte, TransferChunkSize),
	}
	w.recv.Init(DefaultRequestBufferSize)
	w.response.Init(DefaultResponseBufferSize)
	return w
}

// Run serves connections taken from rv until it is closed or ctx ends.
func (w *Worker) Run(ctx context.Context, rv *Rendezvous) {
	for {
		conn, err := rv.Take(ctx)
		if err != nil {
			return
		}
		w.serve(ctx, conn)
	}
}

func (w *Worker) serve(ctx context.Context, conn net.Conn) {
	s := w.server
	start := time.Now()

	w.conn = conn
	w.connID = uuid.NewString()
	s.busy.Add(1)
	s.instruments.busy.Add(ctx, 1)

	ctx, span := s.instruments.tracer.Start(ctx, "pebble.serve",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.Int("pebble.worker", w.id),
			attribute.String("pebble.conn.id", w.connID),
			attribute.String("network.peer.address", conn.RemoteAddr().String()),
		))

	status, sent := w.recoverHandle(ctx)

	// The connection is closed exactly once, whichever branch was taken.
	if err := conn.Close(); err != nil {
		s.Logger.DebugContext(ctx, "closing connection failed", "conn", w.connID, "error", err)
	}
	w.conn = nil

	s.handled.Add(1)
	s.busy.Add(-1)
	s.instruments.busy.Add(ctx, -1)
	s.instruments.sent.Add(ctx, sent)

	if status != 0 {
		attrs := metric.WithAttributes(
			attribute.String("http.request.method", w.request.MethodCode.String()),
			attribute.Int("http.response.status_code", int(status)),
		)
		s.instruments.requests.Add(ctx, 1, attrs)
		s.instruments.duration.Record(ctx, time.Since(start).Seconds(), attrs)

		span.SetAttributes(
			attribute.String("http.request.method", w.request.Method.String()),
			attribute.String("url.path", w.displayPath()),
			attribute.Int("http.response.status_code", int(status)),
		)
		if status >= 400 {
			span.SetStatus(codes.Error, StatusText(status))
		}

		s.Logger.InfoContext(ctx, "request handled",
			"method", w.request.Method.String(),
			"path", w.displayPath(),
			"status", status,
			"worker", w.id,
			"conn", w.connID)
	}
	span.End()
}

// recoverHandle keeps the worker alive when handling a request panics.
func (w *Worker) recoverHandle(ctx context.Context) (status uint16, sent int64) {
	defer func() {
		if recover := recover(); recover != nil {
			w.server.Logger.ErrorContext(ctx, "panic while handling request", "conn", w.connID, "panic", recover)
			status, sent = 0, 0
		}
	}()

	return w.handle(ctx)
}

// handle runs one request and returns the status sent (0 when nothing could
// be sent) and the number of bytes written.
func (w *Worker) handle(ctx context.Context) (uint16, int64) {
	w.recv.Reset()
	w.response.Reset()
	w.request.Reset()

	if err := w.receive(); err != nil {
		if errors.Is(err, ErrBadRequest) {
			w.server.Logger.DebugContext(ctx, "rejecting request", "conn", w.connID, "error", err)
			return w.sendError(ctx, StatusBadRequest)
		}
		if !errors.Is(err, io.EOF) {
			w.server.Logger.WarnContext(ctx, "failed to receive request", "conn", w.connID, "error", err)
		}
		return 0, 0
	}

	if err := w.request.Parse(w.recv.Bytes()); err != nil {
		w.server.Logger.DebugContext(ctx, "rejecting request", "conn", w.connID, "error", err)
		return w.sendError(ctx, StatusFor(err))
	}

	return w.respond(ctx)
}

// receive reads until the header block is complete. Anything the client
// sends after the terminator is ignored.
func (w *Worker) receive() error {
	for {
		if w.server.ReadTimeout > 0 {
			if err := w.conn.SetReadDeadline(time.Now().Add(w.server.ReadTimeout)); err != nil {
				return err
			}
		}

		n, err := w.conn.Read(w.chunk)
		if n > 0 {
			// The terminator may straddle two reads.
			from := max(w.recv.Len()-3, 0)
			w.recv.Append(w.chunk[:n])

			if w.recv.Len() > w.server.MaxRequestSize {
				return fmt.Errorf("%w: %w", ErrBadRequest, ErrRequestTooLarge)
			}
			if hasHeaderEnd(w.recv.Bytes(), from) {
				return nil
			}
		}

		if err != nil {
			if errors.Is(err, io.EOF) && w.recv.Len() > 0 {
				return badRequest("missing header terminator")
			}
			return err
		}
	}
}

func (w *Worker) respond(ctx context.Context) (uint16, int64) {
	fsys := w.server.Filesystem
	path := &w.request.Path

	info, err := fsys.Stat(path.String())
	if err != nil {
		return w.sendError(ctx, StatusNotFound)
	}

	if info.IsDir() {
		if b := path.Bytes(); b[len(b)-1] != '/' {
			path.AppendByte('/')
		}

		base := path.Len()
		path.AppendString("index.html")
		info, err = fsys.Stat(path.String())
		if err != nil || !info.Mode().IsRegular() {
			path.Truncate(base)
			return w.sendListing(ctx)
		}
	}

	if !info.Mode().IsRegular() {
		return w.sendError(ctx, StatusNotFound)
	}

	return w.sendFile(ctx, info.Size())
}

func (w *Worker) sendListing(ctx context.Context) (uint16, int64) {
	if err := w.lister.Render(w.server.Filesystem, w.request.Path.Bytes()); err != nil {
		w.server.Logger.WarnContext(ctx, "failed to list directory", "conn", w.connID, "error", err)
		return w.sendError(ctx, StatusNotFound)
	}

	page := w.lister.Page()
	header := ResponseHeader{
		Server:        w.server.Name,
		Status:        StatusOK,
		ContentType:   contentTypeHTML,
		ContentLength: int64(len(page)),
		Date:          time.Now(),
	}
	header.AppendTo(&w.response)
	if w.request.MethodCode == MethodGet {
		w.response.Append(page)
	}

	return StatusOK, w.send(ctx)
}

func (w *Worker) sendFile(ctx context.Context, size int64) (uint16, int64) {
	file, err := w.server.Filesystem.Open(w.request.Path.String())
	if err != nil {
		w.server.Logger.WarnContext(ctx, "failed to open file", "conn", w.connID, "error", err)
		return w.sendError(ctx, StatusNotFound)
	}
	defer file.Close()

	header := ResponseHeader{
		Server:        w.server.Name,
		Status:        StatusOK,
		ContentType:   w.server.ContentType(w.request.Path.Bytes()),
		ContentLength: size,
		Date:          time.Now(),
	}
	header.AppendTo(&w.response)

	sent, err := w.response.WriteTo(w.conn)
	if err != nil {
		w.server.Logger.WarnContext(ctx, "failed to send response", "conn", w.connID, "error", err)
		return StatusOK, sent
	}
	if w.request.MethodCode != MethodGet {
		return StatusOK, sent
	}

	// On a TCP connection this becomes sendfile.
	n, err := io.CopyN(w.conn, file, size)
	sent += n
	if err != nil {
		w.server.Logger.ErrorContext(ctx, "file transfer aborted",
			"conn", w.connID,
			"path", w.displayPath(),
			"sent", n,
			"size", size,
			"error", err)
	}

	return StatusOK, sent
}

func (w *Worker) sendError(ctx context.Context, status uint16) (uint16, int64) {
	AppendError(&w.response, w.server.Name, status, time.Now())
	return status, w.send(ctx)
}

// send writes the response buffer. Failures are logged and the connection
// abandoned, never retried.
func (w *Worker) send(ctx context.Context) int64 {
	n, err := w.response.WriteTo(w.conn)
	if err != nil {
		w.server.Logger.WarnContext(ctx, "failed to send response", "conn", w.connID, "error", err)
	}
	return n
}

// displayPath is the request path as the client sees it, without the '.'
// root anchor.
func (w *Worker) displayPath() string {
	if w.request.Path.Len() == 0 {
		return ""
	}
	return string(w.request.Path.Bytes()[1:])
}
