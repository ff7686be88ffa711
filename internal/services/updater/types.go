package updater

// UpdateInput contains parameters for running the update wizard
type UpdateInput struct {
	// UserID is the author running the wizard
	UserID string

	// UserName identifies the trivia owner for ownership checks
	UserName string

	// ChannelID is where the wizard was started from
	ChannelID string
}
