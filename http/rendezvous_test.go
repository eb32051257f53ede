package http

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/freekieb7/pebble/test"
)

func TestRendezvousHandsOffToOneTaker(t *testing.T) {
	rv := NewRendezvous()
	defer rv.Close()

	const takers = 4
	taken := make(chan net.Conn, takers)

	var wg sync.WaitGroup
	for i := 0; i < takers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conn, err := rv.Take(context.Background())
			if err == nil {
				taken <- conn
			}
		}()
	}

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	test.NoError(t, rv.Offer(context.Background(), server))
	test.True(t, <-taken == server, "taker received a different connection")

	rv.Close()
	wg.Wait()
	test.Equal(t, 0, len(taken))
}

func TestRendezvousOfferBlocksWithoutTaker(t *testing.T) {
	rv := NewRendezvous()
	defer rv.Close()

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rv.Offer(ctx, server)
	test.True(t, errors.Is(err, context.DeadlineExceeded), "offer should block until the context ends")
}

func TestRendezvousClose(t *testing.T) {
	rv := NewRendezvous()

	done := make(chan error)
	go func() {
		_, err := rv.Take(context.Background())
		done <- err
	}()

	rv.Close()
	rv.Close()

	test.True(t, errors.Is(<-done, ErrServerClosed), "blocked take should be released")

	server, client := net.Pipe()
	defer server.Close()
	defer client.Close()
	test.True(t, errors.Is(rv.Offer(context.Background(), server), ErrServerClosed), "offer after close should fail")
}
