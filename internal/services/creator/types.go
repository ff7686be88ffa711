package creator

// CreateInput contains parameters for running the creation wizard
type CreateInput struct {
	// UserID is the author running the wizard
	UserID string

	// UserName is recorded as the trivia owner
	UserName string

	// ChannelID is where the wizard was started from
	ChannelID string
}
