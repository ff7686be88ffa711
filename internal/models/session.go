package models

import (
	"time"
)

// ProcessKind identifies which flow a user currently has active
type ProcessKind string

const (
	// ProcessKindGame indicates an active trivia game
	ProcessKindGame ProcessKind = "game"

	// ProcessKindCreate indicates an active creation wizard
	ProcessKindCreate ProcessKind = "create"

	// ProcessKindUpdate indicates an active update wizard
	ProcessKindUpdate ProcessKind = "update"
)

// UserSession tracks the single active process a user may have
type UserSession struct {
	// UserID is the Discord user ID owning the session
	UserID string `json:"user_id"`

	// Kind is the active process kind
	Kind ProcessKind `json:"kind"`

	// ChannelID is the channel the process was started from
	ChannelID string `json:"channel_id"`

	// StartedAt is when the process was started
	StartedAt time.Time `json:"started_at"`
}

// PlayerGame tracks the progress of a live trivia game for one user.
// It exists only while a game is running and is always removed on exit.
type PlayerGame struct {
	// GameID is a unique identifier for this game run
	GameID string `json:"game_id"`

	// UserID is the Discord user ID of the player who started the game
	UserID string `json:"user_id"`

	// ChannelID is the shared channel where questions are broadcast
	ChannelID string `json:"channel_id"`

	// ChannelKey is the leaderboard key for the channel
	ChannelKey string `json:"channel_key"`

	// CurrentScore is the accumulated score for this run
	CurrentScore int `json:"current_score"`

	// CurrentQuestion is the 0-based index of the question in play
	CurrentQuestion int `json:"current_question"`

	// TotalQuestions is the number of questions in the selected trivia
	TotalQuestions int `json:"total_questions"`

	// SelectedTrivia is the title of the trivia being played
	SelectedTrivia string `json:"selected_trivia"`

	// SelectedTriviaID is the backend ID of the trivia being played
	SelectedTriviaID string `json:"selected_trivia_id"`
}
