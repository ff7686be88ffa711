package creator

// CreatorError is a custom error type for creation wizard errors
type CreatorError string

// Error implements the error interface
func (e CreatorError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrInvalidDraft   CreatorError = "draft does not satisfy trivia constraints"
	ErrDuplicateAgain CreatorError = "title still duplicated after retry"
	ErrCancelled      CreatorError = "creation was cancelled"
	ErrNilConfig      CreatorError = "config cannot be nil"
	ErrNilAPIClient   CreatorError = "api client cannot be nil"
	ErrNilMessenger   CreatorError = "messenger cannot be nil"
	ErrNilSessionRepo CreatorError = "session repository cannot be nil"
)
