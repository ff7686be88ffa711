// Package fake provides an in-memory chat transport for tests.
// Flows under test talk to it like the real transport; tests script
// inbound messages with Deliver and inspect what was sent.
package fake

import (
	"context"
	"sync"
	"time"

	"github.com/hvaldez/triviabot/internal/chat"
)

// SentMessage records one outbound message.
type SentMessage struct {
	// ChannelID is set for channel sends
	ChannelID string

	// UserID is set for DM sends
	UserID string

	// Text is the message body
	Text string

	// DM marks direct messages
	DM bool
}

// Messenger is a scripted chat transport backed by an Exchange.
type Messenger struct {
	mu           sync.Mutex
	exchange     *chat.Exchange
	sent         []SentMessage
	queued       []*chat.Message
	destinations map[string]chat.Destination
}

// New creates a fake messenger with an empty outbox.
func New() *Messenger {
	return &Messenger{
		exchange:     chat.NewExchange(),
		destinations: make(map[string]chat.Destination),
	}
}

// Send records a channel message.
func (f *Messenger) Send(_ context.Context, channelID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, SentMessage{ChannelID: channelID, Text: text})
	return nil
}

// SendDM records a direct message.
func (f *Messenger) SendDM(_ context.Context, userID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, SentMessage{UserID: userID, Text: text, DM: true})
	return nil
}

// Destination returns a configured destination, or a plain text
// channel destination named after the ID.
func (f *Messenger) Destination(_ context.Context, channelID string) (chat.Destination, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.destinations[channelID]; ok {
		return d, nil
	}
	return chat.Destination{ID: channelID, Name: channelID, Kind: "text"}, nil
}

// Await releases the next queued reply into the exchange and then
// waits on it. Releasing at await time makes scripted replies arrive
// after the prompt they answer, the way a real user's would, so the
// watermark passed by the flow under test is honored.
func (f *Messenger) Await(ctx context.Context, pred chat.Predicate, since time.Time, timeout time.Duration) (*chat.Message, error) {
	f.mu.Lock()
	if len(f.queued) > 0 {
		next := f.queued[0]
		f.queued = f.queued[1:]
		f.mu.Unlock()
		f.exchange.Offer(next)
	} else {
		f.mu.Unlock()
	}
	return f.exchange.Await(ctx, pred, since, timeout)
}

// SetDestination scripts the destination returned for a channel.
func (f *Messenger) SetDestination(channelID string, d chat.Destination) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destinations[channelID] = d
}

// Deliver queues a scripted reply. Replies are released one per Await
// call, in queue order.
func (f *Messenger) Deliver(m *chat.Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queued = append(f.queued, m)
}

// DeliverLive injects an inbound message into the exchange
// immediately, bypassing the reply queue, as if a user had typed it
// unprompted.
func (f *Messenger) DeliverLive(m *chat.Message) {
	f.exchange.Offer(m)
}

// DeliverAfter injects an inbound message from a goroutine after the
// given delay, bypassing the reply queue.
func (f *Messenger) DeliverAfter(delay time.Duration, m *chat.Message) {
	go func() {
		time.Sleep(delay)
		f.exchange.Offer(m)
	}()
}

// Sent returns a copy of every recorded outbound message.
func (f *Messenger) Sent() []SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]SentMessage, len(f.sent))
	copy(out, f.sent)
	return out
}

// SentTexts returns the bodies of every recorded outbound message, in
// send order.
func (f *Messenger) SentTexts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		out = append(out, m.Text)
	}
	return out
}

// LastSent returns the most recent outbound message, or nil if nothing
// was sent.
func (f *Messenger) LastSent() *SentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	m := f.sent[len(f.sent)-1]
	return &m
}
