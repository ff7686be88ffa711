// Package updater implements the trivia update wizard: select one of
// your trivias, change a single field (or edit questions), and
// optionally go around again. The whole run is an explicit loop inside
// one session.
package updater

import (
	"context"
	"errors"
	"fmt"
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

// Field choices offered by the wizard.
const (
	fieldTitle      = 1
	fieldDifficulty = 2
	fieldTheme      = 3
	fieldQuestions  = 4
)

// Config holds the configuration for the update wizard
type Config struct {
	// StepTimeout bounds each wizard prompt
	StepTimeout time.Duration

	// RetryCount is the budget for rate-limited write calls
	RetryCount int
}

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/hvaldez/triviabot/internal/services/updater Service

// Service defines the update wizard operation.
type Service interface {
	// Update runs the wizard over DM until the user is done
	Update(ctx context.Context, input *UpdateInput) error
}

// service implements the Service interface
type service struct {
	config      *Config
	api         apiclient.Client
	messenger   chat.Messenger
	sessionRepo sessionRepo.Repository
	logger      zerolog.Logger
}

// NewService creates a new update wizard service
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

	if cfg.RetryCount == 0 {
		cfg.RetryCount = apiclient.DefaultRetryCount
	}

	return &service{
		config:      cfg,
		api:         api,
		messenger:   messenger,
		sessionRepo: sessions,
		logger:      log.With().Str("component", "updater").Logger(),
	}, nil
}

// Update runs the update wizard for the calling user.
func (s *service) Update(ctx context.Context, input *UpdateInput) error {
	if input == nil || input.UserID == "" {
		return errors.New("input and user ID cannot be empty")
	}

	for {
		done, err := s.updateOnce(ctx, input)
		if err != nil {
			if errors.Is(err, chat.ErrAwaitTimeout) {
				s.messenger.SendDM(ctx, input.UserID, "⏰ Time's up! Please try again.")
			} else if !errors.Is(err, context.Canceled) && !errors.Is(err, ErrCancelled) {
				s.logger.Error().Err(err).Str("user_id", input.UserID).Msg("trivia update failed")
				s.messenger.SendDM(ctx, input.UserID, "❌ Error updating the trivia.")
			}
			return err
		}
		if done {
			return nil
		}
	}
}

// updateOnce runs one pass of the wizard body. It returns done=true
// when the run should end, done=false to go around again.
func (s *service) updateOnce(ctx context.Context, input *UpdateInput) (bool, error) {
	trivias, err := s.listTrivias(ctx, input)
	if err != nil {
		return false, err
	}

	if len(trivias) == 0 {
		return true, nil
	}

	trivia, err := s.stepSelectTrivia(ctx, input.UserID, trivias)
	if err != nil {
		return false, err
	}

	choice, err := s.stepSelectField(ctx, input.UserID)
	if err != nil {
		return false, err
	}

	if choice == fieldQuestions {
		if err := s.editQuestions(ctx, input, trivia); err != nil {
			return false, err
		}
		return s.askContinue(ctx, input.UserID, false)
	}

	return s.editField(ctx, input, trivia, choice)
}

// listTrivias announces the DM in the channel and sends the user's
// trivias, returning them for selection.
func (s *service) listTrivias(ctx context.Context, input *UpdateInput) ([]models.Trivia, error) {
	s.messenger.Send(ctx, input.ChannelID, "I've sent you a DM to show you all trivias available!")

	trivias, err := s.api.GetUserTrivias(ctx, input.UserName)
	if err != nil {
		s.messenger.SendDM(ctx, input.UserID, "Error getting the list of trivias.")
		return nil, err
	}

	if len(trivias) == 0 {
		s.messenger.SendDM(ctx, input.UserID, "You don't have any trivias created yet.")
		return nil, nil
	}

	lines := make([]string, 0, len(trivias))
	for i, trivia := range trivias {
		lines = append(lines, fmt.Sprintf(
			"%d. %s - Difficulty: %d - Theme: %s",
			i+1, trivia.Title, trivia.Difficulty, trivia.Theme,
		))
	}
	s.messenger.SendDM(ctx, input.UserID, "Your trivias:\n```\n"+strings.Join(lines, "\n")+"\n```")

	return trivias, nil
}

func (s *service) stepSelectTrivia(ctx context.Context, userID string, trivias []models.Trivia) (*models.Trivia, error) {
	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, userID, "Which trivia would you like to update? (Enter the number)"); err != nil {
		return nil, err
	}

	msg, err := s.awaitNumber(ctx, userID, promptedAt, 1, len(trivias))
	if err != nil {
		return nil, err
	}

	index, _ := strconv.Atoi(strings.TrimSpace(msg.Content))
	trivia := trivias[index-1]
	return &trivia, nil
}

func (s *service) stepSelectField(ctx context.Context, userID string) (int, error) {
	prompt := "What would you like to update?\n" +
		"1. Title\n" +
		"2. Difficulty (1-3)\n" +
		"3. Theme\n" +
		"4. Questions and Answers"
	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, userID, prompt); err != nil {
		return 0, err
	}

	msg, err := s.awaitNumber(ctx, userID, promptedAt, fieldTitle, fieldQuestions)
	if err != nil {
		return 0, err
	}

	choice, _ := strconv.Atoi(strings.TrimSpace(msg.Content))
	return choice, nil
}

// editField updates a single basic field and asks whether to go
// around again.
func (s *service) editField(ctx context.Context, input *UpdateInput, trivia *models.Trivia, choice int) (bool, error) {
	fieldNames := map[int]string{
		fieldTitle:      "title",
		fieldDifficulty: "difficulty",
		fieldTheme:      "theme",
	}
	field := fieldNames[choice]

	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, input.UserID, "Enter the new value:"); err != nil {
		return false, err
	}

	msg, err := s.awaitDM(ctx, input.UserID, promptedAt)
	if err != nil {
		return false, err
	}
	newValue := strings.TrimSpace(msg.Content)

	var currentValue string
	switch choice {
	case fieldTitle:
		currentValue = trivia.Title
	case fieldDifficulty:
		currentValue = strconv.Itoa(trivia.Difficulty)
	case fieldTheme:
		currentValue = trivia.Theme
	}

	// Writing back the same value is a no-op, not an error.
	if strings.EqualFold(newValue, currentValue) {
		s.messenger.SendDM(ctx, input.UserID, "❗ The new value is the same as the current value. No update needed.")
		return s.askContinue(ctx, input.UserID, false)
	}

	fields := map[string]any{}
	switch choice {
	case fieldTitle:
		newValue, err = s.validateTitle(ctx, input, trivia, newValue)
		if err != nil {
			if errors.Is(err, chat.ErrAwaitTimeout) {
				s.messenger.SendDM(ctx, input.UserID, "⏰ Time's up! Update cancelled.")
				return s.askContinue(ctx, input.UserID, false)
			}
			return false, err
		}
		fields[field] = newValue
	case fieldDifficulty:
		difficulty, convErr := strconv.Atoi(newValue)
		for convErr != nil || difficulty < 1 || difficulty > 3 {
			nudgedAt := time.Now()
			s.messenger.SendDM(ctx, input.UserID, "❌ Invalid difficulty. Please enter a number between 1 and 3:")
			msg, err = s.awaitDM(ctx, input.UserID, nudgedAt)
			if err != nil {
				return false, err
			}
			difficulty, convErr = strconv.Atoi(strings.TrimSpace(msg.Content))
		}
		fields[field] = difficulty
	case fieldTheme:
		fields[field] = newValue
	}

	// The session may have been cancelled while we were collecting
	// input; never patch a trivia for a run the user no longer owns.
	if err := s.checkOwnership(ctx, input.UserID); err != nil {
		return false, err
	}

	patchErr := apiclient.WithRetry(ctx, s.config.RetryCount, func() error {
		return s.api.PatchTrivia(ctx, trivia.ID, fields, input.UserName)
	})
	if patchErr != nil {
		s.logger.Error().Err(patchErr).Str("trivia_id", trivia.ID).Msg("patch failed")
		s.messenger.SendDM(ctx, input.UserID, "❌ Error updating the trivia. Please try again.")
		return s.askContinue(ctx, input.UserID, true)
	}

	s.messenger.SendDM(ctx, input.UserID, "✅ Trivia updated successfully!")
	return s.askContinue(ctx, input.UserID, false)
}

// validateTitle loops until the new title does not collide with the
// user's other trivias.
func (s *service) validateTitle(ctx context.Context, input *UpdateInput, trivia *models.Trivia, newValue string) (string, error) {
	for {
		others, err := s.api.GetUserTrivias(ctx, input.UserName)
		if err != nil {
			return "", err
		}

		taken := false
		for _, other := range others {
			if other.ID != trivia.ID && strings.EqualFold(other.Title, newValue) {
				taken = true
				break
			}
		}

		if !taken {
			return newValue, nil
		}

		promptedAt := time.Now()
		if err := s.messenger.SendDM(ctx, input.UserID, "❌ That title already exists. Please enter a different title:"); err != nil {
			return "", err
		}

		msg, err := s.awaitDM(ctx, input.UserID, promptedAt)
		if err != nil {
			return "", err
		}
		newValue = strings.TrimSpace(msg.Content)
	}
}

// editQuestions runs the questions sub-flow: pick a question, edit its
// text or one of its answers, and push the whole set back.
func (s *service) editQuestions(ctx context.Context, input *UpdateInput, trivia *models.Trivia) error {
	questions, err := s.api.GetTriviaQuestions(ctx, trivia.ID)
	if err != nil {
		return err
	}

	if len(questions) == 0 {
		s.messenger.SendDM(ctx, input.UserID, "This trivia has no questions to edit.")
		return nil
	}

	lines := make([]string, 0, len(questions))
	for i, question := range questions {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, question.Title))
	}
	s.messenger.SendDM(ctx, input.UserID, "Questions:\n```\n"+strings.Join(lines, "\n")+"\n```")

	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, input.UserID, "Which question would you like to edit? (Enter the number)"); err != nil {
		return err
	}

	msg, err := s.awaitNumber(ctx, input.UserID, promptedAt, 1, len(questions))
	if err != nil {
		return err
	}
	questionIndex, _ := strconv.Atoi(strings.TrimSpace(msg.Content))
	question := &questions[questionIndex-1]

	prompt := "What would you like to edit?\n" +
		"1. Question text\n" +
		"2. The correct answer\n" +
		"3. An incorrect answer"
	promptedAt = time.Now()
	if err := s.messenger.SendDM(ctx, input.UserID, prompt); err != nil {
		return err
	}

	msg, err = s.awaitNumber(ctx, input.UserID, promptedAt, 1, 3)
	if err != nil {
		return err
	}
	editChoice, _ := strconv.Atoi(strings.TrimSpace(msg.Content))

	switch editChoice {
	case 1:
		promptedAt = time.Now()
		if err := s.messenger.SendDM(ctx, input.UserID, "Enter the new question text:"); err != nil {
			return err
		}
		msg, err = s.awaitDM(ctx, input.UserID, promptedAt)
		if err != nil {
			return err
		}
		question.Title = strings.TrimSpace(msg.Content)

	case 2:
		correct := question.CorrectOption()
		if correct == 0 {
			s.messenger.SendDM(ctx, input.UserID, "This question has no correct answer marked.")
			return nil
		}
		s.messenger.SendDM(ctx, input.UserID, "Current correct answer: "+question.Answers[correct-1].Title)
		promptedAt = time.Now()
		if err := s.messenger.SendDM(ctx, input.UserID, "Enter the new text for the correct answer:"); err != nil {
			return err
		}
		msg, err = s.awaitDM(ctx, input.UserID, promptedAt)
		if err != nil {
			return err
		}
		question.Answers[correct-1].Title = strings.TrimSpace(msg.Content)

	case 3:
		incorrect := make([]int, 0, len(question.Answers))
		lines = lines[:0]
		for i, answer := range question.Answers {
			if !answer.IsCorrect {
				incorrect = append(incorrect, i)
				lines = append(lines, fmt.Sprintf("%d. %s", len(incorrect), answer.Title))
			}
		}
		if len(incorrect) == 0 {
			s.messenger.SendDM(ctx, input.UserID, "This question has no incorrect answers to edit.")
			return nil
		}

		s.messenger.SendDM(ctx, input.UserID, "Incorrect answers:\n"+strings.Join(lines, "\n"))
		promptedAt = time.Now()
		if err := s.messenger.SendDM(ctx, input.UserID, "Which one would you like to edit? (Enter the number)"); err != nil {
			return err
		}

		msg, err = s.awaitNumber(ctx, input.UserID, promptedAt, 1, len(incorrect))
		if err != nil {
			return err
		}
		pick, _ := strconv.Atoi(strings.TrimSpace(msg.Content))

		promptedAt = time.Now()
		if err := s.messenger.SendDM(ctx, input.UserID, "Enter the new text for this answer:"); err != nil {
			return err
		}
		msg, err = s.awaitDM(ctx, input.UserID, promptedAt)
		if err != nil {
			return err
		}
		question.Answers[incorrect[pick-1]].Title = strings.TrimSpace(msg.Content)
	}

	// Same ownership rule as the single-field patch.
	if err := s.checkOwnership(ctx, input.UserID); err != nil {
		return err
	}

	updateErr := apiclient.WithRetry(ctx, s.config.RetryCount, func() error {
		return s.api.UpdateTriviaQuestions(ctx, trivia.ID, questions)
	})
	if updateErr != nil {
		s.logger.Error().Err(updateErr).Str("trivia_id", trivia.ID).Msg("questions update failed")
		s.messenger.SendDM(ctx, input.UserID, "❌ Error updating the questions. Please try again.")
		return nil
	}

	s.messenger.SendDM(ctx, input.UserID, "✅ Questions updated successfully!")
	return nil
}

// askContinue asks whether to run the wizard body again. Timeouts end
// the run quietly.
func (s *service) askContinue(ctx context.Context, userID string, afterError bool) (bool, error) {
	question := "Would you like to update something else? (yes/no)"
	if afterError {
		question = "Would you like to try updating something else? (yes/no)"
	}
	promptedAt := time.Now()
	if err := s.messenger.SendDM(ctx, userID, question); err != nil {
		return false, err
	}

	msg, err := s.messenger.Await(ctx, func(m *chat.Message) bool {
		if !m.DM || m.AuthorID != userID {
			return false
		}
		content := strings.ToLower(strings.TrimSpace(m.Content))
		return content == "yes" || content == "no"
	}, promptedAt, s.config.StepTimeout)
	if err != nil {
		if errors.Is(err, chat.ErrAwaitTimeout) {
			s.messenger.SendDM(ctx, userID, "⏰ No response received. Update process completed!")
			return true, nil
		}
		return false, err
	}

	if strings.EqualFold(strings.TrimSpace(msg.Content), "yes") {
		return false, nil
	}

	s.messenger.SendDM(ctx, userID, "✅ Update process completed!")
	return true, nil
}

// checkOwnership verifies the user still owns a live update session.
func (s *service) checkOwnership(ctx context.Context, userID string) error {
	sess, err := s.sessionRepo.GetSession(ctx, &sessionRepo.GetSessionInput{UserID: userID})
	if err != nil {
		if errors.Is(err, sessionRepo.ErrSessionNotFound) {
			return ErrCancelled
		}
		return err
	}

	if sess.Kind != models.ProcessKindUpdate {
		return ErrCancelled
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

// awaitNumber waits for a DM containing a number within [min, max].
func (s *service) awaitNumber(ctx context.Context, userID string, since time.Time, min, max int) (*chat.Message, error) {
	return s.messenger.Await(ctx, func(m *chat.Message) bool {
		if !m.DM || m.AuthorID != userID {
			return false
		}
		n, err := strconv.Atoi(strings.TrimSpace(m.Content))
		return err == nil && n >= min && n <= max
	}, since, s.config.StepTimeout)
}
