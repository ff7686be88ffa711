package session

import "github.com/hvaldez/triviabot/internal/models"

// StartProcessInput contains parameters for claiming a session slot
type StartProcessInput struct {
	Session *models.UserSession
}

// GetSessionInput contains parameters for retrieving a session
type GetSessionInput struct {
	UserID string
}

// EndProcessInput contains parameters for releasing a session slot
type EndProcessInput struct {
	UserID string
}
