package client

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gamenight/schnapsen-client/internal/protocol"
)

func TestWaitUntilImmediate(t *testing.T) {
	c, conn := newTestClient("A", "B")
	activate(conn, protocol.EventAllowPlayCard)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, c.WaitPlayAllowed(ctx), "already-true condition must not block")
}

func TestWaitUntilReleasedByEvent(t *testing.T) {
	c, conn := newTestClient("A", "B")

	released := make(chan error, 1)
	registered := make(chan struct{})
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		close(registered)
		released <- c.WaitAnnounceAllowed(ctx)
	}()
	<-registered

	// Give the waiter a moment to park, then flip the guard.
	time.Sleep(10 * time.Millisecond)
	activate(conn, protocol.EventAllowAnnounce)

	select {
	case err := <-released:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("waiter was not released by the guard flip")
	}
	assert.True(t, c.AllowAnnounce())
}

func TestWaitUntilCancelled(t *testing.T) {
	c, _ := newTestClient("A", "B")

	ctx, cancel := context.WithCancel(context.Background())
	released := make(chan error, 1)
	go func() {
		released <- c.WaitActive(ctx)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-released:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled waiter did not return")
	}
}

func TestWaitersDoNotLeak(t *testing.T) {
	c, conn := newTestClient("A", "B")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = c.WaitDrawAllowed(ctx)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	<-done

	c.waiters.mu.Lock()
	pending := len(c.waiters.pending)
	c.waiters.mu.Unlock()
	assert.Zero(t, pending, "cancelled waiter must be removed")

	// And a released one is removed too.
	go func() {
		_ = c.WaitDrawAllowed(context.Background())
	}()
	time.Sleep(10 * time.Millisecond)
	activate(conn, protocol.EventAllowDrawCard)
	time.Sleep(10 * time.Millisecond)

	c.waiters.mu.Lock()
	pending = len(c.waiters.pending)
	c.waiters.mu.Unlock()
	assert.Zero(t, pending)
}
