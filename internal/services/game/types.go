package game

// PlayInput contains parameters for running a trivia game
type PlayInput struct {
	// UserID is the player who started the game
	UserID string

	// UserName is the player's display name, used for scoring
	UserName string

	// ChannelID is the shared channel where questions are broadcast
	ChannelID string
}

// StopGameInput contains parameters for ending a game early
type StopGameInput struct {
	UserID    string
	ChannelID string
}

// ShowScoreInput contains parameters for showing the leaderboard
type ShowScoreInput struct {
	ChannelID string
}

// ShowThemesInput contains parameters for listing themes
type ShowThemesInput struct {
	ChannelID string
}

// ListTriviasInput contains parameters for listing a user's trivias
type ListTriviasInput struct {
	UserID    string
	UserName  string
	ChannelID string
}
