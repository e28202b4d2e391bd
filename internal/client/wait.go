package client

import (
	"context"
	"sync"
)

// Awaitable state conditions. Consumers that need to wait for a guard to
// flip (a bot waiting for allow_play_card before playing, say) must not
// poll: a blocking sleep inside an event handler stalls the pipeline for
// every match in the process. Instead the translator re-evaluates pending
// predicates after every processed event and releases the waiters whose
// condition became true.

type waiter struct {
	pred func() bool
	ch   chan struct{}
}

type waiterList struct {
	mu      sync.Mutex
	pending []*waiter
}

func newWaiterList() *waiterList {
	return &waiterList{}
}

func (l *waiterList) add(w *waiter) {
	l.mu.Lock()
	l.pending = append(l.pending, w)
	l.mu.Unlock()
}

func (l *waiterList) remove(w *waiter) {
	l.mu.Lock()
	for i, candidate := range l.pending {
		if candidate == w {
			l.pending = append(l.pending[:i], l.pending[i+1:]...)
			break
		}
	}
	l.mu.Unlock()
}

// notify releases every waiter whose predicate holds. Called by the
// translator after each processed event.
func (l *waiterList) notify() {
	l.mu.Lock()
	kept := l.pending[:0]
	var release []*waiter
	for _, w := range l.pending {
		if w.pred() {
			release = append(release, w)
		} else {
			kept = append(kept, w)
		}
	}
	l.pending = kept
	l.mu.Unlock()

	for _, w := range release {
		close(w.ch)
	}
}

// WaitUntil blocks until pred holds or ctx is done. pred is evaluated
// against the projection store and must not block or mutate; it runs on
// the event pipeline.
func (c *Client) WaitUntil(ctx context.Context, pred func() bool) error {
	if pred() {
		return nil
	}

	w := &waiter{pred: pred, ch: make(chan struct{})}
	c.waiters.add(w)

	// The condition may have flipped between the check and registration.
	if pred() {
		c.waiters.remove(w)
		return nil
	}

	select {
	case <-w.ch:
		return nil
	case <-ctx.Done():
		c.waiters.remove(w)
		return ctx.Err()
	}
}

// WaitActive blocks until it is the local player's turn.
func (c *Client) WaitActive(ctx context.Context) error {
	return c.WaitUntil(ctx, c.IsActive)
}

// WaitPlayAllowed blocks until the server grants playing a card.
func (c *Client) WaitPlayAllowed(ctx context.Context) error {
	return c.WaitUntil(ctx, c.AllowPlayCard)
}

// WaitDrawAllowed blocks until the server grants drawing a card.
func (c *Client) WaitDrawAllowed(ctx context.Context) error {
	return c.WaitUntil(ctx, c.AllowDrawCard)
}

// WaitAnnounceAllowed blocks until the server grants announcing.
func (c *Client) WaitAnnounceAllowed(ctx context.Context) error {
	return c.WaitUntil(ctx, c.AllowAnnounce)
}
