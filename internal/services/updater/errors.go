package updater

// UpdaterError is a custom error type for update wizard errors
type UpdaterError string

// Error implements the error interface
func (e UpdaterError) Error() string {
	return string(e)
}

// Define errors
const (
	ErrCancelled      UpdaterError = "update was cancelled"
	ErrNilConfig      UpdaterError = "config cannot be nil"
	ErrNilAPIClient   UpdaterError = "api client cannot be nil"
	ErrNilMessenger   UpdaterError = "messenger cannot be nil"
	ErrNilSessionRepo UpdaterError = "session repository cannot be nil"
)
