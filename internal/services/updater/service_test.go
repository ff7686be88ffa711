package updater

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/hvaldez/triviabot/internal/apiclient/mocks"
	"github.com/hvaldez/triviabot/internal/chat"
	"github.com/hvaldez/triviabot/internal/chat/fake"
	"github.com/hvaldez/triviabot/internal/models"
	sessionRepo "github.com/hvaldez/triviabot/internal/repositories/session"
)

type UpdaterServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	mockCtrl  *gomock.Controller
	mockAPI   *mocks.MockClient
	messenger *fake.Messenger
	mr        *miniredis.Miniredis
	client    *redis.Client
	sessions  sessionRepo.Repository
	svc       *service
}

func (s *UpdaterServiceTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockAPI = mocks.NewMockClient(s.mockCtrl)
	s.messenger = fake.New()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	s.sessions, err = sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	svc, err := NewService(&Config{
		StepTimeout: 300 * time.Millisecond,
		RetryCount:  1,
	}, s.mockAPI, s.messenger, s.sessions)
	s.Require().NoError(err)
	s.svc = svc
}

func (s *UpdaterServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.client.Close()
	s.mr.Close()
}

func TestUpdaterServiceTestSuite(t *testing.T) {
	suite.Run(t, new(UpdaterServiceTestSuite))
}

func (s *UpdaterServiceTestSuite) updateInput() *UpdateInput {
	return &UpdateInput{
		UserID:    "user-1",
		UserName:  "alice",
		ChannelID: "chan-1",
	}
}

func (s *UpdaterServiceTestSuite) claimUpdateSession() {
	s.Require().NoError(s.sessions.StartProcess(s.ctx, &sessionRepo.StartProcessInput{
		Session: &models.UserSession{UserID: "user-1", Kind: models.ProcessKindUpdate, ChannelID: "chan-1"},
	}))
}

func (s *UpdaterServiceTestSuite) script(replies ...string) {
	for _, reply := range replies {
		s.messenger.Deliver(&chat.Message{
			AuthorID:  "user-1",
			ChannelID: "dm-user-1",
			Content:   reply,
			DM:        true,
		})
	}
}

func (s *UpdaterServiceTestSuite) userTrivias() []models.Trivia {
	return []models.Trivia{
		{ID: "t-1", Title: "Capitals", Theme: "Geography", Difficulty: 2},
		{ID: "t-2", Title: "Flags", Theme: "Geography", Difficulty: 1},
	}
}

func (s *UpdaterServiceTestSuite) sentTexts() string {
	return strings.Join(s.messenger.SentTexts(), "\n")
}

func (s *UpdaterServiceTestSuite) TestUpdateTitle() {
	s.claimUpdateSession()
	gomock.InOrder(
		s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil),
		// Title validation re-fetches the user's trivias.
		s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil),
	)

	s.mockAPI.EXPECT().PatchTrivia(gomock.Any(), "t-1", gomock.Any(), "alice").DoAndReturn(
		func(_ context.Context, _ string, fields map[string]any, _ string) error {
			// Only the changed field is sent.
			s.Equal(map[string]any{"title": "World Capitals"}, fields)
			return nil
		})

	s.script("1", "1", "World Capitals", "no")

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().NoError(err)

	sent := s.sentTexts()
	s.Contains(sent, "✅ Trivia updated successfully!")
	s.Contains(sent, "✅ Update process completed!")
}

func (s *UpdaterServiceTestSuite) TestUpdateDifficultySendsInt() {
	s.claimUpdateSession()
	s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil)
	s.mockAPI.EXPECT().PatchTrivia(gomock.Any(), "t-2", gomock.Any(), "alice").DoAndReturn(
		func(_ context.Context, _ string, fields map[string]any, _ string) error {
			s.Equal(map[string]any{"difficulty": 3}, fields)
			return nil
		})

	s.script("2", "2", "3", "no")

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().NoError(err)
}

func (s *UpdaterServiceTestSuite) TestNoOpValueShortCircuits() {
	s.claimUpdateSession()
	s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil)
	// No PatchTrivia expectation: a same-value update never reaches
	// the backend.

	s.script("1", "1", "cApItAlS", "no")

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().NoError(err)

	s.Contains(s.sentTexts(), "❗ The new value is the same as the current value. No update needed.")
}

func (s *UpdaterServiceTestSuite) TestDuplicateTitleRePrompts() {
	s.claimUpdateSession()
	gomock.InOrder(
		s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil),
		s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil),
		s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil),
	)

	s.mockAPI.EXPECT().PatchTrivia(gomock.Any(), "t-1", gomock.Any(), "alice").DoAndReturn(
		func(_ context.Context, _ string, fields map[string]any, _ string) error {
			s.Equal(map[string]any{"title": "Unique Title"}, fields)
			return nil
		})

	// "Flags" collides with the user's other trivia.
	s.script("1", "1", "Flags", "Unique Title", "no")

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().NoError(err)

	s.Contains(s.sentTexts(), "❌ That title already exists. Please enter a different title:")
}

func (s *UpdaterServiceTestSuite) TestContinueRunsLoopAgain() {
	s.claimUpdateSession()
	gomock.InOrder(
		s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil),
		s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil),
	)

	gomock.InOrder(
		s.mockAPI.EXPECT().PatchTrivia(gomock.Any(), "t-1", gomock.Any(), "alice").Return(nil),
		s.mockAPI.EXPECT().PatchTrivia(gomock.Any(), "t-2", gomock.Any(), "alice").Return(nil),
	)

	s.script(
		"1", "3", "Maps", "yes", // first pass: theme of trivia 1
		"2", "3", "World", "no", // second pass: theme of trivia 2
	)

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().NoError(err)
}

func (s *UpdaterServiceTestSuite) TestNoTriviasEndsGracefully() {
	s.claimUpdateSession()
	s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(nil, nil)

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().NoError(err)

	s.Contains(s.sentTexts(), "You don't have any trivias created yet.")
}

func (s *UpdaterServiceTestSuite) TestEditQuestionText() {
	s.claimUpdateSession()
	s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil)
	s.mockAPI.EXPECT().GetTriviaQuestions(gomock.Any(), "t-1").Return([]models.Question{
		{
			ID:     "q-1",
			Title:  "Old question?",
			Points: 10,
			Answers: []models.Answer{
				{ID: "a-1", Title: "Right", IsCorrect: true},
				{ID: "a-2", Title: "Wrong"},
			},
		},
	}, nil)

	s.mockAPI.EXPECT().UpdateTriviaQuestions(gomock.Any(), "t-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, questions []models.Question) error {
			s.Require().Len(questions, 1)
			s.Equal("New question?", questions[0].Title)
			s.Equal("q-1", questions[0].ID)
			return nil
		})

	s.script("1", "4", "1", "1", "New question?", "no")

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().NoError(err)

	s.Contains(s.sentTexts(), "✅ Questions updated successfully!")
}

func (s *UpdaterServiceTestSuite) TestEditCorrectAnswer() {
	s.claimUpdateSession()
	s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil)
	s.mockAPI.EXPECT().GetTriviaQuestions(gomock.Any(), "t-1").Return([]models.Question{
		{
			ID:     "q-1",
			Title:  "Question?",
			Points: 10,
			Answers: []models.Answer{
				{ID: "a-1", Title: "Wrong"},
				{ID: "a-2", Title: "Old Right", IsCorrect: true},
			},
		},
	}, nil)

	s.mockAPI.EXPECT().UpdateTriviaQuestions(gomock.Any(), "t-1", gomock.Any()).DoAndReturn(
		func(_ context.Context, _ string, questions []models.Question) error {
			s.Equal("New Right", questions[0].Answers[1].Title)
			s.True(questions[0].Answers[1].IsCorrect)
			return nil
		})

	s.script("1", "4", "1", "2", "New Right", "no")

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().NoError(err)
}

// A run whose session was released by $cancel while it collected
// input must not patch anything.
func (s *UpdaterServiceTestSuite) TestCancelledUpdateNeverPatches() {
	s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil)

	// No session is claimed, as after a $cancel released the slot.
	// PatchTrivia has no expectation; calling it fails the test.
	s.script("1", "2", "3")

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().Error(err)
	s.ErrorIs(err, ErrCancelled)

	sent := s.sentTexts()
	s.NotContains(sent, "✅ Trivia updated successfully!")
	s.NotContains(sent, "❌ Error updating the trivia.")
}

// Same rule on the questions sub-flow.
func (s *UpdaterServiceTestSuite) TestCancelledQuestionEditNeverWrites() {
	s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil)
	s.mockAPI.EXPECT().GetTriviaQuestions(gomock.Any(), "t-1").Return([]models.Question{
		{
			ID:    "q-1",
			Title: "Question?",
			Answers: []models.Answer{
				{ID: "a-1", Title: "Right", IsCorrect: true},
				{ID: "a-2", Title: "Wrong"},
			},
		},
	}, nil)

	// No UpdateTriviaQuestions expectation.
	s.script("1", "4", "1", "1", "New question?")

	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().Error(err)
	s.ErrorIs(err, ErrCancelled)
}

func (s *UpdaterServiceTestSuite) TestTimeoutEndsRun() {
	s.claimUpdateSession()
	s.mockAPI.EXPECT().GetUserTrivias(gomock.Any(), "alice").Return(s.userTrivias(), nil)

	// Trivia selection never gets a reply.
	err := s.svc.Update(s.ctx, s.updateInput())
	s.Require().Error(err)
	s.ErrorIs(err, chat.ErrAwaitTimeout)
	s.Contains(s.sentTexts(), "⏰ Time's up! Please try again.")
}
