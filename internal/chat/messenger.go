// Package chat abstracts the chat transport the flows talk through.
// Flows send text to destinations and suspend on Await until the next
// inbound message matching a predicate arrives, mirroring the
// conversational structure of the wizards and the game loop.
package chat

import (
	"context"
	"time"
)

// ChatError is a custom error type for chat transport errors
type ChatError string

// Error implements the error interface
func (e ChatError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrAwaitTimeout ChatError = "timed out waiting for a message"
)

// Message is an inbound chat message, normalized at the transport
// boundary.
type Message struct {
	// ID is the transport message ID
	ID string

	// AuthorID is the sending user's ID
	AuthorID string

	// AuthorName is the sending user's display name
	AuthorName string

	// ChannelID is where the message was sent
	ChannelID string

	// Content is the message text
	Content string

	// DM marks messages sent in a private channel
	DM bool
}

// Predicate selects the message an Await call is waiting for.
type Predicate func(*Message) bool

// Destination identifies a place replies can be sent, with a stable
// key used for leaderboard bookkeeping.
type Destination struct {
	// ID is the channel ID
	ID string

	// Name is the channel name; empty for DMs and unknown channels
	Name string

	// Kind is the channel type, e.g. "text", "dm", "thread"
	Kind string
}

// Key returns the leaderboard key for the destination: the channel
// name when there is one, otherwise kind and ID combined.
func (d Destination) Key() string {
	if d.Name != "" {
		return d.Name
	}
	return d.Kind + "-" + d.ID
}

// Messenger is the transport surface the flows depend on.
type Messenger interface {
	// Send delivers text to a channel
	Send(ctx context.Context, channelID, text string) error

	// SendDM delivers text to a user's private channel
	SendDM(ctx context.Context, userID, text string) error

	// Destination resolves reply/leaderboard info for a channel
	Destination(ctx context.Context, channelID string) (Destination, error)

	// Await suspends until the next message matching pred arrives or
	// the timeout expires (ErrAwaitTimeout). Messages that arrived
	// before since never match; callers pass the time their prompt was
	// sent so stale chatter cannot answer it
	Await(ctx context.Context, pred Predicate, since time.Time, timeout time.Duration) (*Message, error)
}
