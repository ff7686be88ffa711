// Package discord implements the chat transport on top of a Discord
// gateway session.
package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/hvaldez/triviabot/internal/chat"
)

// Config holds the configuration for the adapter
type Config struct {
	// Discord bot token
	Token string

	// Logger for gateway events
	Logger zerolog.Logger
}

// Adapter bridges discordgo events into the chat transport. Every
// inbound message is offered to the exchange for waiting flows and
// then passed to the registered handler, so a command typed while a
// flow is listening reaches both.
type Adapter struct {
	session  *discordgo.Session
	exchange *chat.Exchange
	logger   zerolog.Logger

	mu         sync.RWMutex
	handler    func(*chat.Message)
	dmChannels map[string]string
}

// New creates a new Discord adapter
func New(cfg *Config) (*Adapter, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.Token == "" {
		return nil, errors.New("token cannot be empty")
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	a := &Adapter{
		session:    session,
		exchange:   chat.NewExchange(),
		logger:     cfg.Logger,
		dmChannels: make(map[string]string),
	}

	session.AddHandler(a.handleMessageCreate)

	return a, nil
}

// OnMessage registers the handler invoked for every inbound message.
// Must be called before Start.
func (a *Adapter) OnMessage(h func(*chat.Message)) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.handler = h
}

// Start opens the gateway connection.
func (a *Adapter) Start() error {
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	a.logger.Info().Msg("discord gateway connected")
	return nil
}

// Stop closes the gateway connection.
func (a *Adapter) Stop() error {
	return a.session.Close()
}

// Send delivers text to a channel.
func (a *Adapter) Send(_ context.Context, channelID, text string) error {
	if _, err := a.session.ChannelMessageSend(channelID, text); err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	return nil
}

// SendDM delivers text to a user's private channel, creating the
// channel on first use.
func (a *Adapter) SendDM(ctx context.Context, userID, text string) error {
	channelID, err := a.dmChannelID(userID)
	if err != nil {
		return err
	}
	return a.Send(ctx, channelID, text)
}

// Destination resolves channel name and kind for leaderboard keys.
func (a *Adapter) Destination(_ context.Context, channelID string) (chat.Destination, error) {
	ch, err := a.session.State.Channel(channelID)
	if err != nil {
		ch, err = a.session.Channel(channelID)
		if err != nil {
			return chat.Destination{}, fmt.Errorf("failed to resolve channel %s: %w", channelID, err)
		}
	}

	return chat.Destination{
		ID:   ch.ID,
		Name: ch.Name,
		Kind: channelKind(ch.Type),
	}, nil
}

// Await waits on the adapter's exchange.
func (a *Adapter) Await(ctx context.Context, pred chat.Predicate, since time.Time, timeout time.Duration) (*chat.Message, error) {
	return a.exchange.Await(ctx, pred, since, timeout)
}

func (a *Adapter) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}

	msg := &chat.Message{
		ID:         m.ID,
		AuthorID:   m.Author.ID,
		AuthorName: m.Author.Username,
		ChannelID:  m.ChannelID,
		Content:    m.Content,
		DM:         m.GuildID == "",
	}

	a.exchange.Offer(msg)

	a.mu.RLock()
	handler := a.handler
	a.mu.RUnlock()
	if handler != nil {
		go handler(msg)
	}
}

func (a *Adapter) dmChannelID(userID string) (string, error) {
	a.mu.RLock()
	channelID, ok := a.dmChannels[userID]
	a.mu.RUnlock()
	if ok {
		return channelID, nil
	}

	ch, err := a.session.UserChannelCreate(userID)
	if err != nil {
		return "", fmt.Errorf("failed to open DM channel with user %s: %w", userID, err)
	}

	a.mu.Lock()
	a.dmChannels[userID] = ch.ID
	a.mu.Unlock()

	return ch.ID, nil
}

func channelKind(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeDM:
		return "dm"
	case discordgo.ChannelTypeGroupDM:
		return "group"
	case discordgo.ChannelTypeGuildText:
		return "text"
	case discordgo.ChannelTypeGuildPublicThread, discordgo.ChannelTypeGuildPrivateThread, discordgo.ChannelTypeGuildNewsThread:
		return "thread"
	default:
		return "channel"
	}
}
