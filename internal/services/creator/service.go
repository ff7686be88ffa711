// Package creator implements the trivia creation wizard: a DM
// conversation that assembles a complete draft and submits it whole.
// Nothing is persisted until the final submit call.
package creator

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hvaldez/triviabot/internal/apiclient"
	"github.com/hvaldez/triviabot/internal/chat"
	"github.com/hvaldez/triviabot/internal/models"
	sessionRepo "github.com/hvaldez/triviabot/internal/repositories/session"
)

// Config holds the configuration for the creation wizard
type Config struct {
	// StepTimeout bounds each wizard prompt
	StepTimeout time.Duration

	// MinQuestions and MaxQuestions bound the draft size
	MinQuestions int
	MaxQuestions int

	// MinAnswers and MaxAnswers bound each question's options
	MinAnswers int
	MaxAnswers int

	// RetryCount is the budget for rate-limited submit calls
	RetryCount int
}

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/hvaldez/triviabot/internal/services/creator Service

// Service defines the creation wizard operation.
type Service interface {
	// Create runs the full wizard over DM and submits the draft
	Create(ctx context.Context, input *CreateInput) error
}

// service implements the Service interface
type service struct {
	config      *Config
	api         apiclient.Client
	messenger   chat.Messenger
	sessionRepo sessionRepo.Repository
	logger      zerolog.Logger
}

// NewService creates a new creation wizard service
func NewService(cfg *Config, api apiclient.Client, messenger chat.Messenger, sessions sessionRepo.Repository) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if api == nil {
		return nil, ErrNilAPIClient
	}

	if messenger == nil {
		return nil, ErrNilMessenger
	}

	if sessions == nil {
		return nil, ErrNilSessionRepo
	}

	if cfg.StepTimeout == 0 {
		cfg.StepTimeout = 60 * time.Second
	}

	if cfg.MinQuestions == 0 {
		cfg.MinQuestions = 3
	}

	if cfg.MaxQuestions == 0 {
		cfg.MaxQuestions = 10
	}

	if cfg.MinAnswers == 0 {
		cfg.MinAnswers = 2
	}

	if cfg.MaxAnswers == 0 {
		cfg.MaxAnswers = 4
	}

	if cfg.RetryCount == 0 {
		cfg.RetryCount = apiclient.DefaultRetryCount
	}

	return &service{
		config:      cfg,
		api:         api,
		messenger:   messenger,
		sessionRepo: sessions,
		logger:      log.With().Str("component", "creator").Logger(),
	}, nil
}

// Create runs the full creation wizard for the calling user.
func (s *service) Create(ctx context.Context, input *CreateInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	err := s.run(ctx, input)
	if err != nil {
		if errors.Is(err, chat.ErrAwaitTimeout) {
			s.messenger.SendDM(ctx, input.UserID, "Time's up for creating the trivia. Try again with $create_trivia")
		} else if !errors.Is(err, context.Canceled) && !errors.Is(err, ErrCancelled) {
			s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("trivia creation failed")
			s.messenger.SendDM(ctx, input.UserID, "An error occurred while creating the trivia. Please try again.")
		}
	}
	return err
}

func (s *service) run(ctx context.Context, input *CreateInput) error {
	existingTitles, err := s.showExistingTitles(ctx, input.UserID)
	if err != nil {
		return err
	}

	title, err := s.stepTitle(ctx, input.UserID, existingTitles)
	if err != nil {
		return err
	}

	theme, err := s.stepTheme(ctx, input.UserID)
	if err != nil {
		return err
	}

	url, err := s.stepURL(ctx, input.UserID)
	if err != nil {
		return err
	}

	difficulty, err := s.stepDifficulty(ctx, input.UserID)
	if err != nil {
		return err
	}

	questions, err := s.stepQuestions(ctx, input.UserID)
	if err != nil {
		return err
	}

	draft := &models.DraftTrivia{
		Title:      title,
		Theme:      theme,
		Username:   input.UserName,
		Difficulty: difficulty,
		URL:        url,
		Questions:  questions,
	}

	if err := validateDraft(draft, s.config); err != nil {
		return err
	}

	if err := s.submit(ctx, input, draft, existingTitles); err != nil {
		return err
	}

	return s.sendSummary(ctx, input.UserID, draft)
}

// showExistingTitles fetches all trivias and DMs the titles grouped by
// theme, returning the lowercased title set for local validation.
func (s *service) showExistingTitles(ctx context.Context, userID string) (map[string]bool, error) {
	existing := make(map[string]bool)

	trivias, err := s.api.GetTrivias(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch existing trivias")
		s.messenger.SendDM(ctx, userID, "⚠️ Could not fetch existing titles, but you can continue creating your trivia.")
		return existing, nil
	}

	if len(trivias) == 0 {
		return existing, nil
	}

	byTheme := make(map[string][]string)
	for _, trivia := range trivias {
		existing[strings.ToLower(trivia.Title)] = true
		theme := trivia.Theme
		if theme == "" {
			theme = "No theme"
		}
		byTheme[theme] = append(byTheme[theme], trivia.Title)
	}

	themes := make([]string, 0, len(byTheme))
	for theme := range byTheme {
		themes = append(themes, theme)
	}
	sort.Strings(themes)

	lines := []string{"**Existing trivia titles by theme:**"}
	for _, theme := range themes {
		lines = append(lines, "\n__*"+theme+"*__")
		titles := byTheme[theme]
		sort.Strings(titles)
		for _, title := range titles {
			lines = append(lines, "• "+title)
		}
	}

	s.messenger.SendDM(ctx, userID, strings.Join(lines, "\n"))
	s.messenger.SendDM(ctx, userID, "⚠️ Please choose a different title from the ones listed above.")
	return existing, nil
}

// stepTitle prompts until the user provides a title not in the
// existing set (case-insensitive).
func (s *service) stepTitle(ctx context.Context, userID string, existing map[string]bool) (string, error) {
	for {
		promptedAt := time.Now()
		if err := s.messenger.SendDM(ctx, userID, "Please enter a new title for your trivia:"); err != nil {
			return "", err
		}

		msg, err := s.awaitDM(ctx, userID, promptedAt)
		if err != nil {
			return "", err
		}

		title := strings.TrimSpace(msg.Content)
		if existing[strings.ToLower(title)] {
			s.messenger.SendDM(ctx, userID, "❌ There is already a trivia with that title. Please choose a different title.")
			continue
		}

		s.messenger.SendDM(ctx, userID, "✅ Title '"+title+"' is available!")
		return title, nil
	}
}

// stepTheme offers existing themes by number but accepts free text for
// a new theme. New themes are created at submit time on the backend.
func (s *service) stepTheme(ctx context.Context, userID string) (string, error) {
	themes, err := s.api.GetThemes(ctx)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(themes))
	for i, theme := range themes {
		lines = append(lines, fmt.Sprintf("%d- %s", i+1, theme.Name))
	}

	prompt := "Available themes:\n" + strings.Join(lines, "\n") +
		"\n\nYou can either select a theme by number or type a new theme name."
	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, userID, prompt); err != nil {
		return "", err
	}

	msg, err := s.awaitDM(ctx, userID, promptedAt)
	if err != nil {
		return "", err
	}

	content := strings.TrimSpace(msg.Content)
	if n, convErr := strconv.Atoi(content); convErr == nil && n >= 1 && n <= len(themes) {
		return themes[n-1].Name, nil
	}

	s.messenger.SendDM(ctx, userID, "Creating new theme: "+content)
	return content, nil
}

func (s *service) stepURL(ctx context.Context, userID string) (string, error) {
	wantsURL, err := s.awaitYesNo(ctx, userID, "Would you like to add a URL for this trivia? (yes/no)")
	if err != nil {
		return "", err
	}

	if !wantsURL {
		return "", nil
	}

	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, userID, "Please enter the URL:"); err != nil {
		return "", err
	}

	msg, err := s.awaitDM(ctx, userID, promptedAt)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(msg.Content), nil
}

func (s *service) stepDifficulty(ctx context.Context, userID string) (int, error) {
	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, userID, "Select the difficulty (1-3):"); err != nil {
		return 0, err
	}

	msg, err := s.messenger.Await(ctx, func(m *chat.Message) bool {
		if !m.DM || m.AuthorID != userID {
			return false
		}
		n, convErr := strconv.Atoi(strings.TrimSpace(m.Content))
		return convErr == nil && n >= 1 && n <= 3
	}, promptedAt, s.config.StepTimeout)
	if err != nil {
		return 0, err
	}

	difficulty, _ := strconv.Atoi(strings.TrimSpace(msg.Content))
	return difficulty, nil
}

func (s *service) stepQuestions(ctx context.Context, userID string) ([]models.DraftQuestion, error) {
	s.messenger.SendDM(ctx, userID, fmt.Sprintf("Now let's add the questions. You must add at least %d questions.", s.config.MinQuestions))
	s.messenger.SendDM(ctx, userID, fmt.Sprintf("For each question, you'll need to add at least %d answers.", s.config.MinAnswers))

	var questions []models.DraftQuestion
	for len(questions) < s.config.MaxQuestions {
		question, err := s.stepOneQuestion(ctx, userID, len(questions)+1)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *question)

		if len(questions) >= s.config.MinQuestions {
			if len(questions) == s.config.MaxQuestions {
				break
			}

			more, err := s.awaitYesNo(ctx, userID, "Do you want to add another question? (yes/no)")
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}
	}

	return questions, nil
}

func (s *service) stepOneQuestion(ctx context.Context, userID string, number int) (*models.DraftQuestion, error) {
	s.messenger.SendDM(ctx, userID, fmt.Sprintf("Question #%d:", number))
	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, userID, "Write the question:"); err != nil {
		return nil, err
	}

	msg, err := s.awaitDM(ctx, userID, promptedAt)
	if err != nil {
		return nil, err
	}
	questionTitle := strings.TrimSpace(msg.Content)

	s.messenger.SendDM(ctx, userID, fmt.Sprintf("Now add the answers. You need at least %d answers and one must be correct.", s.config.MinAnswers))

	var answers []models.DraftAnswer
	hasCorrect := false

	for len(answers) < s.config.MaxAnswers {
		s.messenger.SendDM(ctx, userID, fmt.Sprintf("Answer #%d:", len(answers)+1))
		promptedAt := time.Now()
		if err := s.messenger.SendDM(ctx, userID, "Write the answer:"); err != nil {
			return nil, err
		}

		msg, err := s.awaitDM(ctx, userID, promptedAt)
		if err != nil {
			return nil, err
		}

		// Once a correct answer exists, every later answer is
		// incorrect without asking.
		isCorrect := false
		if !hasCorrect {
			isCorrect, err = s.awaitYesNo(ctx, userID, "Is this the correct answer? (yes/no)")
			if err != nil {
				return nil, err
			}
			if isCorrect {
				hasCorrect = true
			}
		}

		answers = append(answers, models.DraftAnswer{
			Title:     strings.TrimSpace(msg.Content),
			IsCorrect: isCorrect,
		})

		if len(answers) < s.config.MinAnswers {
			continue
		}

		if hasCorrect {
			if len(answers) == s.config.MaxAnswers {
				break
			}

			more, err := s.awaitYesNo(ctx, userID, "Do you want to add another answer? (yes/no)")
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		} else if len(answers) < s.config.MaxAnswers {
			s.messenger.SendDM(ctx, userID, "You need to mark one answer as correct. Let's continue with the next answer.")
		} else {
			// Full set with no correct answer; drop the last one and
			// ask again.
			s.messenger.SendDM(ctx, userID, "You must mark one answer as correct before continuing.")
			answers = answers[:len(answers)-1]
		}
	}

	return &models.DraftQuestion{
		Title:   questionTitle,
		Answers: answers,
	}, nil
}

// submit sends the draft, allowing exactly one re-prompt when the
// backend reports a duplicate title that slipped past the local check.
// Ownership is re-checked before each attempt; a wizard whose session
// was cancelled while collecting input must never create anything.
func (s *service) submit(ctx context.Context, input *CreateInput, draft *models.DraftTrivia, existing map[string]bool) error {
	if err := s.checkOwnership(ctx, input.UserID); err != nil {
		return err
	}

	_, err := s.createWithRetry(ctx, draft)
	if err == nil {
		return nil
	}

	if !errors.Is(err, apiclient.ErrDuplicateTitle) {
		return err
	}

	s.messenger.SendDM(ctx, input.UserID, "❌ There is already a trivia with that title. Please choose a different title.")
	existing[strings.ToLower(draft.Title)] = true

	newTitle, err := s.stepTitle(ctx, input.UserID, existing)
	if err != nil {
		return err
	}
	draft.Title = newTitle

	if err := s.checkOwnership(ctx, input.UserID); err != nil {
		return err
	}

	if _, err := s.createWithRetry(ctx, draft); err != nil {
		if errors.Is(err, apiclient.ErrDuplicateTitle) {
			return ErrDuplicateAgain
		}
		return err
	}

	return nil
}

// checkOwnership verifies the user still owns a live creation session.
func (s *service) checkOwnership(ctx context.Context, userID string) error {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{UserID: userID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return ErrCancelled
		}
		return err
	}

	if sess.Kind != models.ProcessKindCreate {
		return ErrCancelled
	}

	return nil
}

func (s *service) createWithRetry(ctx context.Context, draft *models.DraftTrivia) (*models.Trivia, error) {
	var created *models.Trivia
	err := apiclient.WithRetry(ctx, s.config.RetryCount, func() error {
		var callErr error
		created, callErr = s.api.CreateTrivia(ctx, draft)
		return callErr
	})
	return created, err
}

func (s *service) sendSummary(ctx context.Context, userID string, draft *models.DraftTrivia) error {
	lines := []string{
		"✨ Trivia created successfully! Here's a summary:",
		"",
		"Title: " + draft.Title,
		"Theme: " + draft.Theme,
		"Difficulty: " + strconv.Itoa(draft.Difficulty),
	}

	if draft.URL != "" {
		lines = append(lines, "URL: "+draft.URL)
	}

	lines = append(lines, "", "Questions:")
	for i, question := range draft.Questions {
		lines = append(lines, fmt.Sprintf("\n%d. %s", i+1, question.Title))
		for j, answer := range question.Answers {
			marker := "❌"
			if answer.IsCorrect {
				marker = "✅"
			}
			lines = append(lines, fmt.Sprintf("   %d. %s %s", j+1, answer.Title, marker))
		}
	}

	return s.messenger.SendDM(ctx, userID, strings.Join(lines, "\n"))
}

// validateDraft enforces the constraints the wizard is supposed to
// guarantee before anything reaches the backend.
func validateDraft(draft *models.DraftTrivia, cfg *Config) error {
	if draft.Title == "" || draft.Theme == "" {
		return ErrInvalidDraft
	}

	if len(draft.Questions) < cfg.MinQuestions || len(draft.Questions) > cfg.MaxQuestions {
		return ErrInvalidDraft
	}

	for _, question := range draft.Questions {
		if len(question.Answers) < cfg.MinAnswers || len(question.Answers) > cfg.MaxAnswers {
			return ErrInvalidDraft
		}

		correct := 0
		for _, answer := range question.Answers {
			if answer.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return ErrInvalidDraft
		}
	}

	return nil
}

// awaitDM waits for the next DM from the user, any content. Only
// messages sent after since count as replies.
func (s *service) awaitDM(ctx context.Context, userID string, since time.Time) (*chat.Message, error) {
	return s.messenger.Await(ctx, func(m *chat.Message) bool {
		return m.DM && m.AuthorID == userID
	}, since, s.config.StepTimeout)
}

// awaitYesNo prompts and loops until the user answers yes or no.
func (s *service) awaitYesNo(ctx context.Context, userID, prompt string) (bool, error) {
	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, userID, prompt); err != nil {
		return false, err
	}

	for {
		msg, err := s.awaitDM(ctx, userID, promptedAt)
		if err != nil {
			return false, err
		}

		switch strings.ToLower(strings.TrimSpace(msg.Content)) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		default:
			s.messenger.SendDM(ctx, userID, "Please answer 'yes' or 'no'")
		}
	}
}
