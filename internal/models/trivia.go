package models

// Theme represents a trivia theme as served by the backend
type Theme struct {
	// ID is the backend identifier for the theme
	ID string `json:"id"`

	// Name is the display name of the theme
	Name string `json:"name"`
}

// Trivia represents a trivia as listed by the backend
type Trivia struct {
	// ID is the backend identifier for the trivia
	ID string `json:"id"`

	// Title is the unique title of the trivia
	Title string `json:"title"`

	// Theme is the theme name (or ID, depending on the endpoint)
	Theme string `json:"theme"`

	// Difficulty is the difficulty level (1-3)
	Difficulty int `json:"difficulty"`

	// URL is an optional reference link for the trivia
	URL string `json:"url,omitempty"`

	// Username is the owner of the trivia
	Username string `json:"username,omitempty"`
}

// Answer represents one answer option of a question
type Answer struct {
	// ID is the backend identifier, present when fetched
	ID string `json:"id,omitempty"`

	// Title is the answer text
	Title string `json:"answer_title"`

	// IsCorrect marks the single correct answer of a question
	IsCorrect bool `json:"is_correct"`
}

// Question represents a question with its answer options
type Question struct {
	// ID is the backend identifier, present when fetched
	ID string `json:"id,omitempty"`

	// Title is the question text
	Title string `json:"question_title"`

	// Points is the score awarded for answering correctly
	Points int `json:"points"`

	// Answers are the selectable options, exactly one marked correct
	Answers []Answer `json:"answers"`
}

// CorrectOption returns the 1-based index of the correct answer,
// or 0 if none is marked correct.
func (q *Question) CorrectOption() int {
	for i, a := range q.Answers {
		if a.IsCorrect {
			return i + 1
		}
	}
	return 0
}

// LeaderboardEntry represents one row of a channel leaderboard
type LeaderboardEntry struct {
	// Name is the player name
	Name string `json:"name"`

	// Points is the accumulated score
	Points int `json:"points"`
}

// DraftAnswer is an answer being assembled during trivia creation
type DraftAnswer struct {
	Title     string `json:"answer_title"`
	IsCorrect bool   `json:"is_correct"`
}

// DraftQuestion is a question being assembled during trivia creation
type DraftQuestion struct {
	Title   string        `json:"question_title"`
	Answers []DraftAnswer `json:"answers"`
}

// DraftTrivia is an in-progress, unpersisted trivia assembled by the
// creation wizard. It is only ever submitted whole.
type DraftTrivia struct {
	Title      string          `json:"title"`
	Theme      string          `json:"theme"`
	Username   string          `json:"username"`
	Difficulty int             `json:"difficulty"`
	URL        string          `json:"url,omitempty"`
	Questions  []DraftQuestion `json:"questions"`
}
