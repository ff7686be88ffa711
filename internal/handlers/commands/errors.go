package commands

// RouterError is a custom error type for command router errors
type RouterError string

// Error implements the error interface
func (e RouterError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrNilConfig         RouterError = "config cannot be nil"
	ErrNilSessionRepo    RouterError = "session repository cannot be nil"
	ErrNilGameService    RouterError = "game service cannot be nil"
	ErrNilCreatorService RouterError = "creator service cannot be nil"
	ErrNilUpdaterService RouterError = "updater service cannot be nil"
	ErrNilMessenger      RouterError = "messenger cannot be nil"
)
