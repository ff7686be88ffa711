package game

import "context"

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/hvaldez/triviabot/internal/services/game Service

// Service defines the gameplay operations exposed to the command
// router.
type Service interface {
	// Play runs a full trivia game: welcome, theme/difficulty/trivia
	// selection over DM, then the shared-channel question loop. Cleanup
	// runs on every exit path.
	Play(ctx context.Context, input *PlayInput) error

	// StopGame ends the caller's running game early and reveals the
	// leaderboard with current progress.
	StopGame(ctx context.Context, input *StopGameInput) error

	// ShowScore posts the channel leaderboard without a game
	ShowScore(ctx context.Context, input *ShowScoreInput) error

	// ShowThemes posts the available themes
	ShowThemes(ctx context.Context, input *ShowThemesInput) error

	// ListTrivias DMs the caller the trivias they own
	ListTrivias(ctx context.Context, input *ListTriviasInput) error
}
