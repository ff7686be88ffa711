package game

// GameError is a custom error type for gameplay errors
type GameError string

// Error implements the error interface
func (e GameError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNoTrivias      GameError = "no trivias available for this combination"
	ErrNoGame         GameError = "no active game for this user"
	ErrCancelled      GameError = "game was cancelled"
	ErrNilConfig      GameError = "config cannot be nil"
	ErrNilAPIClient   GameError = "api client cannot be nil"
	ErrNilMessenger   GameError = "messenger cannot be nil"
	ErrNilSessionRepo GameError = "session repository cannot be nil"
	ErrNilGameRepo    GameError = "player game repository cannot be nil"
)
