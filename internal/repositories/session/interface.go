package session

import (
	"context"

	"github.com/hvaldez/triviabot/internal/models"
)

// Repository defines the interface for user session persistence.
// StartProcess is the single atomic gate that keeps each user inside
// at most one bot process at a time.
type Repository interface {
	// StartProcess atomically claims the user's session slot. Returns
	// ErrProcessActive when the user already has a process running.
	StartProcess(ctx context.Context, input *StartProcessInput) error

	// GetSession retrieves a user's active session
	GetSession(ctx context.Context, input *GetSessionInput) (*models.UserSession, error)

	// EndProcess releases the user's session slot. Ending a session
	// that does not exist is not an error.
	EndProcess(ctx context.Context, input *EndProcessInput) error
}
