package chat

import (
	"context"
	"sync"
	"time"
)

const (
	// maxPending bounds the buffer of messages that arrived with no
	// waiter registered
	maxPending = 128

	// pendingTTL is how long an unclaimed message stays eligible for a
	// later Await
	pendingTTL = 2 * time.Minute
)

type waiter struct {
	pred Predicate
	ch   chan *Message
}

type pendingMessage struct {
	msg        *Message
	receivedAt time.Time
}

// Exchange routes inbound messages to Await callers. Messages are
// matched against waiters in registration order; a message no waiter
// claims is buffered in arrival order so an Await registered a moment
// late still sees it. Awaits carry a since watermark, so the buffer
// only bridges the gap between a prompt and its Await registration
// (and between consecutive awaits of one conversation), never handing
// a flow chatter that predates its prompt. The buffer is bounded and
// entries expire, so an idle bot does not accumulate chatter.
type Exchange struct {
	mu      sync.Mutex
	waiters []*waiter
	pending []pendingMessage
	now     func() time.Time
}

// NewExchange creates an empty exchange.
func NewExchange() *Exchange {
	return &Exchange{
		now: time.Now,
	}
}

// Offer delivers an inbound message to the first waiter whose
// predicate matches it. If no waiter claims the message it is
// buffered. Claiming and delivery happen under the lock, so a waiter
// removed here is guaranteed to find the message in its channel.
func (e *Exchange) Offer(m *Message) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, w := range e.waiters {
		if w.pred(m) {
			e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
			// The channel is buffered, this never blocks.
			w.ch <- m
			return
		}
	}

	e.pending = append(e.pending, pendingMessage{msg: m, receivedAt: e.now()})
	if len(e.pending) > maxPending {
		e.pending = e.pending[1:]
	}
}

// Await returns the next message matching pred that arrived at or
// after since. Buffered messages are consulted first, oldest arrival
// wins; entries older than since are skipped, not consumed, so an
// await with an earlier watermark can still claim them. When the
// timeout expires with no match it returns ErrAwaitTimeout; a
// cancelled context returns the context error.
func (e *Exchange) Await(ctx context.Context, pred Predicate, since time.Time, timeout time.Duration) (*Message, error) {
	e.mu.Lock()
	e.pruneLocked()
	for i, p := range e.pending {
		if p.receivedAt.Before(since) {
			continue
		}
		if pred(p.msg) {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			e.mu.Unlock()
			return p.msg, nil
		}
	}

	w := &waiter{pred: pred, ch: make(chan *Message, 1)}
	e.waiters = append(e.waiters, w)
	e.mu.Unlock()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case m := <-w.ch:
		return m, nil
	case <-timer.C:
		if e.remove(w) {
			return nil, ErrAwaitTimeout
		}
		// Offer claimed the waiter first; the message is already in
		// the channel.
		return <-w.ch, nil
	case <-ctx.Done():
		if e.remove(w) {
			return nil, ctx.Err()
		}
		return <-w.ch, nil
	}
}

// remove reports whether the waiter was still registered. A false
// return means Offer claimed it and delivered a message.
func (e *Exchange) remove(w *waiter) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, other := range e.waiters {
		if other == w {
			e.waiters = append(e.waiters[:i], e.waiters[i+1:]...)
			return true
		}
	}
	return false
}

func (e *Exchange) pruneLocked() {
	cutoff := e.now().Add(-pendingTTL)
	kept := e.pending[:0]
	for _, p := range e.pending {
		if p.receivedAt.After(cutoff) {
			kept = append(kept, p)
		}
	}
	e.pending = kept
}
