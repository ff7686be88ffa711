package playergame

import (
	"context"

	"github.com/hvaldez/triviabot/internal/models"
)

// Repository defines the interface for live game state persistence.
// Each user has at most one record, present only while a game runs.
type Repository interface {
	// SaveGame persists the live game state for a user
	SaveGame(ctx context.Context, input *SaveGameInput) error

	// GetGame retrieves the live game state for a user
	GetGame(ctx context.Context, input *GetGameInput) (*models.PlayerGame, error)

	// DeleteGame removes the live game state for a user. Deleting a
	// game that does not exist is not an error.
	DeleteGame(ctx context.Context, input *DeleteGameInput) error
}
