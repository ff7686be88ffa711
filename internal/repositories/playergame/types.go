package playergame

import "github.com/hvaldez/triviabot/internal/models"

// SaveGameInput contains parameters for saving live game state
type SaveGameInput struct {
	Game *models.PlayerGame
}

// GetGameInput contains parameters for retrieving live game state
type GetGameInput struct {
	UserID string
}

// DeleteGameInput contains parameters for removing live game state
type DeleteGameInput struct {
	UserID string
}
