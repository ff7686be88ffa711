package commands

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"github.com/hvaldez/triviabot/internal/chat"
	"github.com/hvaldez/triviabot/internal/chat/fake"
	"github.com/hvaldez/triviabot/internal/models"
	sessionRepo "github.com/hvaldez/triviabot/internal/repositories/session"
	"github.com/hvaldez/triviabot/internal/services/creator"
	creatorMocks "github.com/hvaldez/triviabot/internal/services/creator/mocks"
	"github.com/hvaldez/triviabot/internal/services/game"
	gameMocks "github.com/hvaldez/triviabot/internal/services/game/mocks"
	"github.com/hvaldez/triviabot/internal/services/updater"
	updaterMocks "github.com/hvaldez/triviabot/internal/services/updater/mocks"
)

type RouterTestSuite struct {
	suite.Suite
	ctx         context.Context
	mockCtrl    *gomock.Controller
	mockGame    *gameMocks.MockService
	mockCreator *creatorMocks.MockService
	mockUpdater *updaterMocks.MockService
	messenger   *fake.Messenger
	mr          *miniredis.Miniredis
	client      *redis.Client
	sessions    sessionRepo.Repository
	router      *Router
}

func (s *RouterTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.mockCtrl = gomock.NewController(s.T())
	s.mockGame = gameMocks.NewMockService(s.mockCtrl)
	s.mockCreator = creatorMocks.NewMockService(s.mockCtrl)
	s.mockUpdater = updaterMocks.NewMockService(s.mockCtrl)
	s.messenger = fake.New()

	mr, err := miniredis.Run()
	s.Require().NoError(err)
	s.mr = mr

	s.client = redis.NewClient(&redis.Options{Addr: s.mr.Addr()})

	s.sessions, err = sessionRepo.NewRedis(&sessionRepo.Config{RedisClient: s.client})
	s.Require().NoError(err)

	router, err := NewRouter(&Config{}, s.sessions, s.mockGame, s.mockCreator, s.mockUpdater, s.messenger)
	s.Require().NoError(err)
	s.router = router
}

func (s *RouterTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
	s.client.Close()
	s.mr.Close()
}

func TestRouterTestSuite(t *testing.T) {
	suite.Run(t, new(RouterTestSuite))
}

func (s *RouterTestSuite) command(content string) *chat.Message {
	return &chat.Message{
		AuthorID:   "user-1",
		AuthorName: "alice",
		ChannelID:  "chan-1",
		Content:    content,
	}
}

func (s *RouterTestSuite) claimSession(kind models.ProcessKind) {
	s.Require().NoError(s.sessions.StartProcess(s.ctx, &sessionRepo.StartProcessInput{
		Session: &models.UserSession{UserID: "user-1", Kind: kind, ChannelID: "chan-1"},
	}))
}

func (s *RouterTestSuite) sessionGone() {
	_, err := s.sessions.GetSession(s.ctx, &sessionRepo.GetSessionInput{UserID: "user-1"})
	s.ErrorIs(err, sessionRepo.ErrSessionNotFound)
}

func (s *RouterTestSuite) sentTexts() string {
	return strings.Join(s.messenger.SentTexts(), "\n")
}

func (s *RouterTestSuite) TestTriviaClaimsAndReleasesSession() {
	s.mockGame.EXPECT().Play(gomock.Any(), &game.PlayInput{
		UserID:    "user-1",
		UserName:  "alice",
		ChannelID: "chan-1",
	}).DoAndReturn(func(ctx context.Context, _ *game.PlayInput) error {
		// The slot is held while the flow runs.
		sess, err := s.sessions.GetSession(ctx, &sessionRepo.GetSessionInput{UserID: "user-1"})
		s.Require().NoError(err)
		s.Equal(models.ProcessKindGame, sess.Kind)
		return nil
	})

	s.router.Handle(s.ctx, s.command("$trivia"))
	s.sessionGone()
}

func (s *RouterTestSuite) TestCreateTriviaRoutesToCreator() {
	s.mockCreator.EXPECT().Create(gomock.Any(), &creator.CreateInput{
		UserID:    "user-1",
		UserName:  "alice",
		ChannelID: "chan-1",
	}).Return(nil)

	s.router.Handle(s.ctx, s.command("$create_trivia"))
	s.sessionGone()
}

func (s *RouterTestSuite) TestUpdateTriviaRoutesToUpdater() {
	s.mockUpdater.EXPECT().Update(gomock.Any(), &updater.UpdateInput{
		UserID:    "user-1",
		UserName:  "alice",
		ChannelID: "chan-1",
	}).Return(nil)

	s.router.Handle(s.ctx, s.command("$update_trivia"))
	s.sessionGone()
}

func (s *RouterTestSuite) TestSessionReleasedWhenFlowFails() {
	s.mockCreator.EXPECT().Create(gomock.Any(), gomock.Any()).Return(chat.ErrAwaitTimeout)

	s.router.Handle(s.ctx, s.command("$create_trivia"))
	s.sessionGone()
}

func (s *RouterTestSuite) TestConflictBlocksSecondProcess() {
	s.claimSession(models.ProcessKindCreate)

	// No Play expectation: the flow must not start.
	s.router.Handle(s.ctx, s.command("$trivia"))

	s.Contains(s.sentTexts(), "❌ You already have an active process. Please finish or cancel it with $cancel first.")

	// The original claim survives.
	sess, err := s.sessions.GetSession(s.ctx, &sessionRepo.GetSessionInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Equal(models.ProcessKindCreate, sess.Kind)
}

func (s *RouterTestSuite) TestActiveGameConflictUsesDM() {
	s.claimSession(models.ProcessKindGame)

	s.router.Handle(s.ctx, s.command("$trivia"))

	last := s.messenger.LastSent()
	s.Require().NotNil(last)
	s.True(last.DM)
	s.Equal("You already have an active game!", last.Text)
}

func (s *RouterTestSuite) TestScoreNeedsNoSession() {
	s.mockGame.EXPECT().ShowScore(gomock.Any(), &game.ShowScoreInput{ChannelID: "chan-1"}).Return(nil)
	s.router.Handle(s.ctx, s.command("$score"))
}

func (s *RouterTestSuite) TestThemesNeedsNoSession() {
	s.mockGame.EXPECT().ShowThemes(gomock.Any(), &game.ShowThemesInput{ChannelID: "chan-1"}).Return(nil)
	s.router.Handle(s.ctx, s.command("$themes"))
}

func (s *RouterTestSuite) TestListTriviaNeedsNoSession() {
	s.mockGame.EXPECT().ListTrivias(gomock.Any(), &game.ListTriviasInput{
		UserID:    "user-1",
		UserName:  "alice",
		ChannelID: "chan-1",
	}).Return(nil)
	s.router.Handle(s.ctx, s.command("$list_trivia"))
}

func (s *RouterTestSuite) TestStopGameReleasesSession() {
	s.claimSession(models.ProcessKindGame)
	s.mockGame.EXPECT().StopGame(gomock.Any(), &game.StopGameInput{
		UserID:    "user-1",
		ChannelID: "chan-1",
	}).Return(nil)

	s.router.Handle(s.ctx, s.command("$stop_game"))
	s.sessionGone()
}

func (s *RouterTestSuite) TestStopGameWithoutGameKeepsSession() {
	s.claimSession(models.ProcessKindCreate)
	s.mockGame.EXPECT().StopGame(gomock.Any(), gomock.Any()).Return(game.ErrNoGame)

	s.router.Handle(s.ctx, s.command("$stop_game"))

	sess, err := s.sessions.GetSession(s.ctx, &sessionRepo.GetSessionInput{UserID: "user-1"})
	s.Require().NoError(err)
	s.Equal(models.ProcessKindCreate, sess.Kind)
}

func (s *RouterTestSuite) TestCancelWithoutProcess() {
	s.router.Handle(s.ctx, s.command("$cancel"))
	s.Contains(s.sentTexts(), "❌ No active process to cancel.")
}

func (s *RouterTestSuite) TestCancelCreation() {
	s.claimSession(models.ProcessKindCreate)

	s.router.Handle(s.ctx, s.command("$cancel"))

	s.Contains(s.sentTexts(), "✅ Trivia creation process cancelled.")
	s.sessionGone()
}

func (s *RouterTestSuite) TestCancelUpdate() {
	s.claimSession(models.ProcessKindUpdate)

	s.router.Handle(s.ctx, s.command("$cancel"))

	s.Contains(s.sentTexts(), "✅ Trivia update process cancelled.")
	s.sessionGone()
}

func (s *RouterTestSuite) TestCancelGameRoutesThroughStop() {
	s.claimSession(models.ProcessKindGame)
	s.mockGame.EXPECT().StopGame(gomock.Any(), &game.StopGameInput{
		UserID:    "user-1",
		ChannelID: "chan-1",
	}).Return(nil)

	s.router.Handle(s.ctx, s.command("$cancel"))
	s.sessionGone()
}

func (s *RouterTestSuite) TestUnknownCommandGetsHelp() {
	s.router.Handle(s.ctx, s.command("$bogus"))
	s.Contains(s.sentTexts(), "❌ Command not found. Available commands:")
	s.Contains(s.sentTexts(), "`$update_trivia` - Update existing trivia")
}

func (s *RouterTestSuite) TestNonCommandIgnored() {
	s.router.Handle(s.ctx, s.command("just chatting"))
	s.Empty(s.messenger.Sent())
}

func (s *RouterTestSuite) TestPanicRecoveredAndSessionReleased() {
	s.mockGame.EXPECT().Play(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, *game.PlayInput) error {
			panic("boom")
		})

	s.router.Handle(s.ctx, s.command("$trivia"))

	s.Contains(s.sentTexts(), "❌ An error occurred while processing your command.")
	s.sessionGone()
}
