package http

import (
	"context"
	"net"
	"sync"
)

// Rendezvous hands accepted connections from the dispatcher to exactly one
// idle worker. The slot is an unbuffered channel: Offer returns only once a
// worker has taken the connection, so the dispatcher cannot run ahead of the
// pool and there is no queue of pending connections.
type Rendezvous struct {
	slot      chan net.Conn
	done      chan struct{}
	closeOnce sync.Once
}

func NewRendezvous() *Rendezvous {
	return &Rendezvous{
		slot: make(chan net.Conn),
		done: make(chan struct{}),
	}
}

// Offer blocks until a worker took conn. It fails when ctx ends or the
// rendezvous is closed; the caller keeps ownership of conn in that case.
func (r *Rendezvous) Offer(ctx context.Context, conn net.Conn) error {
	select {
	case r.slot <- conn:
		return nil
	case <-r.done:
		return ErrServerClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Take blocks until the dispatcher offers a connection.
func (r *Rendezvous) Take(ctx context.Context) (net.Conn, error) {
	select {
	case conn := <-r.slot:
		return conn, nil
	case <-r.done:
		return nil, ErrServerClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close releases every blocked Offer and Take. It is safe to call more than
// once.
func (r *Rendezvous) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})
}
