// Package commands routes prefix commands to the game, creator and
// updater flows. The router owns the session registry: it claims a
// user's slot before launching a flow and always releases it when the
// flow returns, so each user runs at most one process at a time.
package commands

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hvaldez/triviabot/internal/chat"
	"github.com/hvaldez/triviabot/internal/models"
	sessionRepo "github.com/hvaldez/triviabot/internal/repositories/session"
	"github.com/hvaldez/triviabot/internal/services/creator"
	"github.com/hvaldez/triviabot/internal/services/game"
	"github.com/hvaldez/triviabot/internal/services/updater"
)

// Command names accepted after the prefix.
const (
	cmdTrivia       = "trivia"
	cmdCreateTrivia = "create_trivia"
	cmdUpdateTrivia = "update_trivia"
	cmdScore        = "score"
	cmdStopGame     = "stop_game"
	cmdListTrivia   = "list_trivia"
	cmdThemes       = "themes"
	cmdCancel       = "cancel"
)

const helpText = "❌ Command not found. Available commands:\n" +
	"`$trivia` - Start a game\n" +
	"`$list_trivia` - Show available trivias\n" +
	"`$score` - Show current score\n" +
	"`$stop_game` - Stop current game\n" +
	"`$create_trivia` - Create new trivia\n" +
	"`$update_trivia` - Update existing trivia"

// Config holds the configuration for the command router
type Config struct {
	// Prefix marks command messages, "$" by default
	Prefix string
}

// Router dispatches prefix commands to the flows.
type Router struct {
	config    *Config
	sessions  sessionRepo.Repository
	games     game.Service
	creators  creator.Service
	updaters  updater.Service
	messenger chat.Messenger
	logger    zerolog.Logger
}

// NewRouter creates a new command router
func NewRouter(cfg *Config, sessions sessionRepo.Repository, games game.Service, creators creator.Service, updaters updater.Service, messenger chat.Messenger) (*Router, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if sessions == nil {
		return nil, ErrNilSessionRepo
	}

	if games == nil {
		return nil, ErrNilGameService
	}

	if creators == nil {
		return nil, ErrNilCreatorService
	}

	if updaters == nil {
		return nil, ErrNilUpdaterService
	}

	if messenger == nil {
		return nil, ErrNilMessenger
	}

	if cfg.Prefix == "" {
		cfg.Prefix = "$"
	}

	return &Router{
		config:    cfg,
		sessions:  sessions,
		games:     games,
		creators:  creators,
		updaters:  updaters,
		messenger: messenger,
		logger:    log.With().Str("component", "commands").Logger(),
	}, nil
}

// Handle processes one inbound message. Non-command messages are
// ignored; they belong to whatever flow is awaiting them.
func (r *Router) Handle(ctx context.Context, msg *chat.Message) {
	if msg == nil || !strings.HasPrefix(msg.Content, r.config.Prefix) {
		return
	}

	fields := strings.Fields(msg.Content)
	command := strings.TrimPrefix(fields[0], r.config.Prefix)

	logger := r.logger.With().
		Str("command", command).
		Str("user_id", msg.AuthorID).
		Logger()

	defer func() {
		if rec := recover(); rec != nil {
			logger.Error().Interface("panic", rec).Msg("command handler panicked")
			r.messenger.Send(ctx, msg.ChannelID, "❌ An error occurred while processing your command.")
		}
	}()

	switch command {
	case cmdTrivia:
		r.runFlow(ctx, msg, models.ProcessKindGame, func(ctx context.Context) error {
			return r.games.Play(ctx, &game.PlayInput{
				UserID:    msg.AuthorID,
				UserName:  msg.AuthorName,
				ChannelID: msg.ChannelID,
			})
		})

	case cmdCreateTrivia:
		r.runFlow(ctx, msg, models.ProcessKindCreate, func(ctx context.Context) error {
			return r.creators.Create(ctx, &creator.CreateInput{
				UserID:    msg.AuthorID,
				UserName:  msg.AuthorName,
				ChannelID: msg.ChannelID,
			})
		})

	case cmdUpdateTrivia:
		r.runFlow(ctx, msg, models.ProcessKindUpdate, func(ctx context.Context) error {
			return r.updaters.Update(ctx, &updater.UpdateInput{
				UserID:    msg.AuthorID,
				UserName:  msg.AuthorName,
				ChannelID: msg.ChannelID,
			})
		})

	case cmdScore:
		if err := r.games.ShowScore(ctx, &game.ShowScoreInput{ChannelID: msg.ChannelID}); err != nil {
			logger.Error().Err(err).Msg("score command failed")
		}

	case cmdThemes:
		if err := r.games.ShowThemes(ctx, &game.ShowThemesInput{ChannelID: msg.ChannelID}); err != nil {
			logger.Error().Err(err).Msg("themes command failed")
		}

	case cmdListTrivia:
		if err := r.games.ListTrivias(ctx, &game.ListTriviasInput{
			UserID:    msg.AuthorID,
			UserName:  msg.AuthorName,
			ChannelID: msg.ChannelID,
		}); err != nil {
			logger.Error().Err(err).Msg("list_trivia command failed")
		}

	case cmdStopGame:
		r.stopGame(ctx, msg, logger)

	case cmdCancel:
		r.cancel(ctx, msg, logger)

	default:
		r.messenger.Send(ctx, msg.ChannelID, helpText)
	}
}

// runFlow claims the user's session slot, runs the flow, and releases
// the slot on return. A user with a slot already claimed gets told to
// finish or cancel first.
func (r *Router) runFlow(ctx context.Context, msg *chat.Message, kind models.ProcessKind, flow func(ctx context.Context) error) {
	err := r.sessions.StartProcess(ctx, &sessionRepo.StartProcessInput{
		Session: &models.UserSession{
			UserID:    msg.AuthorID,
			Kind:      kind,
			ChannelID: msg.ChannelID,
		},
	})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrProcessActive) {
			r.rejectConflict(ctx, msg, kind)
			return
		}
		r.logger.Error().Err(err).Str("user_id", msg.AuthorID).Msg("failed to start process")
		r.messenger.Send(ctx, msg.ChannelID, "❌ An error occurred while processing your command.")
		return
	}

	// Release must survive a cancelled context.
	defer r.sessions.EndProcess(context.WithoutCancel(ctx), &sessionRepo.EndProcessInput{UserID: msg.AuthorID})

	if flowErr := flow(ctx); flowErr != nil {
		// Flows notify the user themselves; the router only records it.
		r.logger.Debug().Err(flowErr).
			Str("user_id", msg.AuthorID).
			Str("kind", string(kind)).
			Msg("flow ended with error")
	}
}

func (r *Router) rejectConflict(ctx context.Context, msg *chat.Message, kind models.ProcessKind) {
	sess, err := r.sessions.GetSession(ctx, &sessionRepo.GetSessionInput{UserID: msg.AuthorID})
	if err == nil && sess.Kind == models.ProcessKindGame && kind == models.ProcessKindGame {
		r.messenger.SendDM(ctx, msg.AuthorID, "You already have an active game!")
		return
	}

	r.messenger.Send(ctx, msg.ChannelID,
		"❌ You already have an active process. Please finish or cancel it with $cancel first.")
}

// stopGame ends a running game and releases the session slot so the
// game flow stops scoring.
func (r *Router) stopGame(ctx context.Context, msg *chat.Message, logger zerolog.Logger) {
	err := r.games.StopGame(ctx, &game.StopGameInput{
		UserID:    msg.AuthorID,
		ChannelID: msg.ChannelID,
	})
	if err != nil {
		if !errors.Is(err, game.ErrNoGame) {
			logger.Error().Err(err).Msg("stop_game command failed")
		}
		return
	}

	r.sessions.EndProcess(context.WithoutCancel(ctx), &sessionRepo.EndProcessInput{UserID: msg.AuthorID})
}

// cancel ends whatever process the user has active, with a
// kind-specific acknowledgement. Cancelling a game goes through the
// stop-game path so the leaderboard is still revealed.
func (r *Router) cancel(ctx context.Context, msg *chat.Message, logger zerolog.Logger) {
	sess, err := r.sessions.GetSession(ctx, &sessionRepo.GetSessionInput{UserID: msg.AuthorID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			r.messenger.Send(ctx, msg.ChannelID, "❌ No active process to cancel.")
			return
		}
		logger.Error().Err(err).Msg("cancel command failed")
		return
	}

	r.sessions.EndProcess(context.WithoutCancel(ctx), &sessionRepo.EndProcessInput{UserID: msg.AuthorID})

	switch sess.Kind {
	case models.ProcessKindCreate:
		r.messenger.Send(ctx, msg.ChannelID, "✅ Trivia creation process cancelled.")
	case models.ProcessKindUpdate:
		r.messenger.Send(ctx, msg.ChannelID, "✅ Trivia update process cancelled.")
	case models.ProcessKindGame:
		if stopErr := r.games.StopGame(ctx, &game.StopGameInput{
			UserID:    msg.AuthorID,
			ChannelID: msg.ChannelID,
		}); stopErr != nil && !errors.Is(stopErr, game.ErrNoGame) {
			logger.Error().Err(stopErr).Msg("cancel stop_game failed")
		}
	default:
		r.messenger.Send(ctx, msg.ChannelID, "✅ Process cancelled.")
	}
}
