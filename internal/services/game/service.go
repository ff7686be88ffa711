// Package game implements the gameplay flow: a DM-driven setup
// conversation followed by a shared-channel question loop where the
// first correct answer wins the points.
package game

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hvaldez/triviabot/internal/apiclient"
	"github.com/hvaldez/triviabot/internal/chat"
	"github.com/hvaldez/triviabot/internal/models"
	"github.com/hvaldez/triviabot/internal/repositories/playergame"
	sessionRepo "github.com/hvaldez/triviabot/internal/repositories/session"
)

// Config holds the configuration for the game service
type Config struct {
	// StepTimeout bounds each selection step and each question
	StepTimeout time.Duration

	// GraceDelay is the pause announced before the first question
	GraceDelay time.Duration

	// RetryCount is the budget for rate-limited score writes
	RetryCount int

	// CommandPrefix marks messages the question loop must ignore
	CommandPrefix string
}

// service implements the Service interface
type service struct {
	config      *Config
	api         apiclient.Client
	messenger   chat.Messenger
	sessionRepo sessionRepo.Repository
	gameRepo    playergame.Repository
	logger      zerolog.Logger
	sleep       func(ctx context.Context, d time.Duration)
}

// NewService creates a new game service
func NewService(cfg *Config, api apiclient.Client, messenger chat.Messenger, sessions sessionRepo.Repository, games playergame.Repository) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if api == nil {
		return nil, ErrNilAPIClient
	}

	if messenger == nil {
		return nil, ErrNilMessenger
	}

	if sessions == nil {
		return nil, ErrNilSessionRepo
	}

	if games == nil {
		return nil, ErrNilGameRepo
	}

	if cfg.StepTimeout == 0 {
		cfg.StepTimeout = 30 * time.Second
	}

	if cfg.GraceDelay == 0 {
		cfg.GraceDelay = 5 * time.Second
	}

	if cfg.RetryCount == 0 {
		cfg.RetryCount = apiclient.DefaultRetryCount
	}

	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = "$"
	}

	return &service{
		config:      cfg,
		api:         api,
		messenger:   messenger,
		sessionRepo: sessions,
		gameRepo:    games,
		logger:      log.With().Str("component", "game").Logger(),
		sleep: func(ctx context.Context, d time.Duration) {
			select {
			case <-time.After(d):
			case <-ctx.Done():
			}
		},
	}, nil
}

// Play runs a full trivia game for the calling user.
func (s *service) Play(ctx context.Context, input *PlayInput) error {
	if input == nil || input.UserID == "" || input.ChannelID == "" {
		return errors.New("input, user ID and channel ID cannot be empty")
	}

	game := &models.PlayerGame{
		GameID:    uuid.New().String(),
		UserID:    input.UserID,
		ChannelID: input.ChannelID,
	}

	logger := s.logger.With().
		Str("game_id", game.GameID).
		Str("user_id", input.UserID).
		Logger()

	if err := s.gameRepo.SaveGame(ctx, &playergame.SaveGameInput{Game: game}); err != nil {
		return err
	}

	// Cleanup must survive a cancelled context.
	defer func() {
		if err := s.gameRepo.DeleteGame(context.WithoutCancel(ctx), &playergame.DeleteGameInput{UserID: input.UserID}); err != nil {
			logger.Error().Err(err).Msg("failed to delete game state")
		}
	}()

	err := s.run(ctx, input, game, logger)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrAwaitTimeout):
			s.messenger.SendDM(ctx, input.UserID, "Timeout. Try again with $trivia")
			s.messenger.Send(ctx, input.ChannelID, "🙈 Oops, this is embarrassing, but we have a problem. Let's play later, Shall we?")
		case errors.Is(err, ErrNoTrivias), errors.Is(err, ErrCancelled), errors.Is(err, context.Canceled):
			// Already acknowledged where it happened.
		default:
			logger.Error().Err(err).Msg("game failed")
			s.messenger.SendDM(ctx, input.UserID, "An error occurred. Please try again.")
			s.messenger.Send(ctx, input.ChannelID, "🙈 Oops, something went wrong. Let's try again later!")
		}
	}

	return err
}

func (s *service) run(ctx context.Context, input *PlayInput, game *models.PlayerGame, logger zerolog.Logger) error {
	if err := s.stepGameStart(ctx, input); err != nil {
		return err
	}

	theme, err := s.stepThemeSelection(ctx, input)
	if err != nil {
		return err
	}

	difficulty, err := s.stepDifficultySelection(ctx, input)
	if err != nil {
		return err
	}

	trivia, err := s.stepTriviaSelection(ctx, input, theme.ID, difficulty)
	if err != nil {
		return err
	}

	game.SelectedTrivia = trivia.Title
	game.SelectedTriviaID = trivia.ID
	if err := s.gameRepo.SaveGame(ctx, &playergame.SaveGameInput{Game: game}); err != nil {
		return err
	}

	logger.Info().
		Str("trivia", trivia.Title).
		Str("theme", theme.Name).
		Int("difficulty", difficulty).
		Msg("game configured")

	return s.runQuestions(ctx, input, game, trivia, logger)
}

func (s *service) stepGameStart(ctx context.Context, input *PlayInput) error {
	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, input.UserID, "Welcome to the trivia game! Type 'go' to start."); err != nil {
		return err
	}

	_, err := s.awaitDM(ctx, input.UserID, promptedAt, func(content string) bool {
		return strings.EqualFold(content, "go")
	})
	if err != nil {
		if errors.Is(err, chat.ErrAwaitTimeout) {
			s.messenger.SendDM(ctx, input.UserID, "I understand, it's not time to play yet. We'll play another time! 😃")
		}
		return err
	}

	s.messenger.Send(ctx, input.ChannelID, banner("------Hey!! Trivia it's about to start!---------"))
	s.messenger.Send(ctx, input.ChannelID, banner("-------------------\nGame Time!!!\n-------------------"))
	s.messenger.Send(ctx, input.ChannelID,
		"The game will start soon. There will be a minimum of 3 questions about different subjects.\n"+
			"Each correct answer is worth 10 points!\n"+
			"Ready!? 🚀")
	return nil
}

func (s *service) stepThemeSelection(ctx context.Context, input *PlayInput) (*models.Theme, error) {
	themes, err := s.api.GetThemes(ctx)
	if err != nil {
		return nil, err
	}

	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, input.UserID, "Select a theme by number:\n"+formatThemeList(themes)); err != nil {
		return nil, err
	}

	msg, err := s.awaitDM(ctx, input.UserID, promptedAt, numberInRange(1, len(themes)))
	if err != nil {
		return nil, err
	}

	choice, _ := strconv.Atoi(msg.Content)
	theme := themes[choice-1]

	s.messenger.Send(ctx, input.ChannelID, "Starting game in 3 ⏳")
	return &theme, nil
}

func (s *service) stepDifficultySelection(ctx context.Context, input *PlayInput) (int, error) {
	choices, err := s.api.GetDifficulties(ctx)
	if err != nil {
		return 0, err
	}

	valid := make(map[int]bool, len(choices))
	for _, c := range choices {
		valid[c.Level] = true
	}

	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, input.UserID, "Select difficulty by number:\n"+formatDifficultyList(choices)); err != nil {
		return 0, err
	}

	msg, err := s.awaitDM(ctx, input.UserID, promptedAt, func(content string) bool {
		n, convErr := strconv.Atoi(content)
		return convErr == nil && valid[n]
	})
	if err != nil {
		return 0, err
	}

	difficulty, _ := strconv.Atoi(msg.Content)
	s.messenger.Send(ctx, input.ChannelID, "2 ⏳")
	return difficulty, nil
}

func (s *service) stepTriviaSelection(ctx context.Context, input *PlayInput, themeID string, difficulty int) (*models.Trivia, error) {
	trivias, err := s.api.GetFilteredTrivias(ctx, themeID, difficulty)
	if err != nil {
		s.messenger.Send(ctx, input.ChannelID, "🙈 Oops, something went wrong. Let's try again later!")
		return nil, err
	}

	if len(trivias) == 0 {
		s.messenger.SendDM(ctx, input.UserID, "No trivias available for this combination")
		return nil, ErrNoTrivias
	}

	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, input.UserID, "Select a trivia by number:\n"+formatTriviaList(trivias)); err != nil {
		return nil, err
	}

	msg, err := s.awaitDM(ctx, input.UserID, promptedAt, numberInRange(1, len(trivias)))
	if err != nil {
		return nil, err
	}

	choice, _ := strconv.Atoi(msg.Content)
	trivia := trivias[choice-1]

	s.messenger.Send(ctx, input.ChannelID, "1 ⏳")
	return &trivia, nil
}

func (s *service) runQuestions(ctx context.Context, input *PlayInput, game *models.PlayerGame, trivia *models.Trivia, logger zerolog.Logger) error {
	s.messenger.SendDM(ctx, input.UserID, "The game will start in 5 seconds")
	s.sleep(ctx, s.config.GraceDelay)

	dest, err := s.messenger.Destination(ctx, input.ChannelID)
	if err != nil {
		return err
	}
	game.ChannelKey = dest.Key()

	if err := s.api.CreateLeaderboard(ctx, game.ChannelKey, input.UserName); err != nil {
		return err
	}

	questions, err := s.api.GetTriviaQuestions(ctx, trivia.ID)
	if err != nil {
		return err
	}

	game.TotalQuestions = len(questions)
	if err := s.gameRepo.SaveGame(ctx, &playergame.SaveGameInput{Game: game}); err != nil {
		return err
	}

	for game.CurrentQuestion < game.TotalQuestions {
		if err := s.askQuestion(ctx, input, game, &questions[game.CurrentQuestion], logger); err != nil {
			return err
		}

		game.CurrentQuestion++
		if err := s.gameRepo.SaveGame(ctx, &playergame.SaveGameInput{Game: game}); err != nil {
			return err
		}
	}

	return s.finishGame(ctx, input, game, trivia)
}

// askQuestion broadcasts one question and waits for answers until
// someone gets it right or the question deadline passes. Any author
// may answer, once each.
func (s *service) askQuestion(ctx context.Context, input *PlayInput, game *models.PlayerGame, question *models.Question, logger zerolog.Logger) error {
	askedAt := time.Now()
	s.messenger.Send(ctx, input.ChannelID, banner("------------ QUESTION -------------"))
	s.messenger.Send(ctx, input.ChannelID, "Question "+strconv.Itoa(game.CurrentQuestion+1))
	s.messenger.Send(ctx, input.ChannelID, codeBlock(question.Title))

	if len(question.Answers) == 0 {
		s.messenger.Send(ctx, input.ChannelID, "Error: No options available for this question")
		return nil
	}

	s.messenger.Send(ctx, input.ChannelID, codeBlock("Options:\n"+formatOptions(question.Answers)))

	correct := question.CorrectOption()
	numOptions := len(question.Answers)
	deadline := askedAt.Add(s.config.StepTimeout)
	attempted := make(map[string]bool)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			s.messenger.Send(ctx, input.ChannelID, "ohhh, it seems no one guessed this 😔. Well, let's move on to the next one 💪🏽")
			return nil
		}

		msg, err := s.awaitChannel(ctx, input.ChannelID, askedAt, remaining)
		if err != nil {
			if errors.Is(err, chat.ErrAwaitTimeout) {
				s.messenger.Send(ctx, input.ChannelID, "ohhh, it seems no one guessed this 😔. Well, let's move on to the next one 💪🏽")
				return nil
			}
			return err
		}

		answer, convErr := strconv.Atoi(strings.TrimSpace(msg.Content))
		if convErr != nil {
			// Nudges do not consume the wait or the author's attempt.
			s.messenger.Send(ctx, input.ChannelID, msg.AuthorName+", please enter a number between 1 and "+strconv.Itoa(numOptions)+" 🤔")
			continue
		}

		if answer < 1 || answer > numOptions {
			s.messenger.Send(ctx, input.ChannelID, msg.AuthorName+", the number must be between 1 and "+strconv.Itoa(numOptions)+" 🎯")
			continue
		}

		if attempted[msg.AuthorID] {
			s.messenger.Send(ctx, input.ChannelID, msg.AuthorName+", You can only try once 🙈")
			continue
		}
		attempted[msg.AuthorID] = true

		if answer != correct {
			s.messenger.Send(ctx, input.ChannelID, "Uh no "+msg.AuthorName+", that's not the answer 😞\n\n")
			continue
		}

		game.CurrentScore += question.Points
		s.messenger.Send(ctx, input.ChannelID, "Correct! "+msg.AuthorName+", you won "+strconv.Itoa(question.Points)+" points \n\n")

		// The game may have been cancelled while we were waiting; never
		// write a score for a game the user no longer owns.
		if err := s.checkOwnership(ctx, input.UserID); err != nil {
			return err
		}

		scoreErr := apiclient.WithRetry(ctx, s.config.RetryCount, func() error {
			return s.api.UpdateScore(ctx, msg.AuthorName, question.Points, game.ChannelKey)
		})
		if scoreErr != nil {
			logger.Error().Err(scoreErr).Str("player", msg.AuthorName).Msg("failed to persist score")
		}

		return nil
	}
}

func (s *service) finishGame(ctx context.Context, input *PlayInput, game *models.PlayerGame, trivia *models.Trivia) error {
	s.messenger.Send(ctx, input.ChannelID, banner("End of the Game. Thanks for participating 🧡"))
	s.messenger.Send(ctx, input.ChannelID, "It was very fun 💃🕺 Congratulations!")

	entries, err := s.api.GetLeaderboard(ctx, game.ChannelKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get leaderboard")
		s.messenger.Send(ctx, input.ChannelID, "Error getting the leaderboard. Please try again later.")
		return nil
	}

	if len(entries) > 0 {
		s.messenger.Send(ctx, input.ChannelID, "🏆 Final Leaderboard:")
		s.messenger.Send(ctx, input.ChannelID, codeBlock(formatLeaderboard(entries)))
	} else {
		s.messenger.Send(ctx, input.ChannelID, "No scores available in the leaderboard!")
	}

	s.messenger.Send(ctx, input.ChannelID, "This game was about: "+game.SelectedTrivia+" 📚")

	if trivia.URL != "" {
		s.messenger.Send(ctx, input.ChannelID, "The theme of this game was the course "+trivia.URL)
	}

	return nil
}

// StopGame ends the caller's running game early.
func (s *service) StopGame(ctx context.Context, input *StopGameInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	game, err := s.gameRepo.GetGame(ctx, &playergame.GetGameInput{UserID: input.UserID})
	if err != nil {
		if errors.Is(err, playergame.ErrGameNotFound) {
			s.messenger.Send(ctx, input.ChannelID, "There is no active game to end!")
			return ErrNoGame
		}
		return err
	}

	defer func() {
		s.gameRepo.DeleteGame(context.WithoutCancel(ctx), &playergame.DeleteGameInput{UserID: input.UserID})
		s.messenger.Send(ctx, input.ChannelID, "Thanks for playing! You can start a new game anytime with $trivia")
	}()

	s.messenger.Send(ctx, input.ChannelID, banner("Game ended early."))

	channelKey := game.ChannelKey
	if channelKey == "" {
		dest, destErr := s.messenger.Destination(ctx, input.ChannelID)
		if destErr != nil {
			return destErr
		}
		channelKey = dest.Key()
	}

	entries, err := s.api.GetLeaderboard(ctx, channelKey)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get final score")
		s.messenger.Send(ctx, input.ChannelID, "Could not display final score.")
		return nil
	}

	if len(entries) > 0 {
		s.messenger.Send(ctx, input.ChannelID, "🏆 Final Score:")
		s.messenger.Send(ctx, input.ChannelID, codeBlock(formatLeaderboard(entries)))
	}

	s.messenger.Send(ctx, input.ChannelID, "The game was about: "+game.SelectedTrivia+" 📚")
	return nil
}

// ShowScore posts the channel leaderboard.
func (s *service) ShowScore(ctx context.Context, input *ShowScoreInput) error {
	dest, err := s.messenger.Destination(ctx, input.ChannelID)
	if err != nil {
		return err
	}

	entries, err := s.api.GetLeaderboard(ctx, dest.Key())
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get leaderboard")
		s.messenger.Send(ctx, input.ChannelID, "Error getting the score table.")
		return err
	}

	if len(entries) == 0 {
		s.messenger.Send(ctx, input.ChannelID, "No scores yet!")
		return nil
	}

	s.messenger.Send(ctx, input.ChannelID, "🏆 Leaderboard:\n"+codeBlock(formatLeaderboard(entries)))
	return nil
}

// ShowThemes posts the available themes.
func (s *service) ShowThemes(ctx context.Context, input *ShowThemesInput) error {
	themes, err := s.api.GetThemes(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to get themes")
		s.messenger.Send(ctx, input.ChannelID, "Error getting the list of themes.")
		return err
	}

	s.messenger.Send(ctx, input.ChannelID, "Available themes:\n"+formatThemeList(themes))
	return nil
}

// ListTrivias DMs the caller the trivias they own.
func (s *service) ListTrivias(ctx context.Context, input *ListTriviasInput) error {
	s.messenger.Send(ctx, input.ChannelID, "I've sent you a DM to show you all trivias available!")

	trivias, err := s.api.GetUserTrivias(ctx, input.UserName)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list trivias")
		s.messenger.SendDM(ctx, input.UserID, "Error getting the list of trivias.")
		return err
	}

	if len(trivias) == 0 {
		s.messenger.SendDM(ctx, input.UserID, "You don't have any trivias created yet.")
		return nil
	}

	s.messenger.SendDM(ctx, input.UserID, "Your trivias:\n"+codeBlock(formatUserTriviaList(trivias)))
	return nil
}

// checkOwnership verifies the user still owns a live game session.
func (s *service) checkOwnership(ctx context.Context, userID string) error {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{UserID: userID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return ErrCancelled
		}
		return err
	}

	if sess.Kind != models.ProcessKindGame {
		return ErrCancelled
	}

	return nil
}

// awaitDM waits for the next DM from the user whose content passes
// accept. Only messages sent after since count as replies.
func (s *service) awaitDM(ctx context.Context, userID string, since time.Time, accept func(string) bool) (*chat.Message, error) {
	return s.messenger.Await(ctx, func(m *chat.Message) bool {
		return m.DM && m.AuthorID == userID && accept(strings.TrimSpace(m.Content))
	}, since, s.config.StepTimeout)
}

// awaitChannel waits for the next non-command message in the shared
// channel, from any author. Only messages sent after since count.
func (s *service) awaitChannel(ctx context.Context, channelID string, since time.Time, timeout time.Duration) (*chat.Message, error) {
	return s.messenger.Await(ctx, func(m *chat.Message) bool {
		return !m.DM && m.ChannelID == channelID && !strings.HasPrefix(m.Content, s.config.CommandPrefix)
	}, since, timeout)
}

func numberInRange(min, max int) func(string) bool {
	return func(content string) bool {
		n, err := strconv.Atoi(content)
		return err == nil && n >= min && n <= max
	}
}
