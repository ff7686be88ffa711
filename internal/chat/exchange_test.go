package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
)

type ExchangeTestSuite struct {
	suite.Suite
	ctx      context.Context
	exchange *Exchange
}

func (s *ExchangeTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.exchange = NewExchange()
}

func fromAuthor(authorID string) Predicate {
	return func(m *Message) bool {
		return m.AuthorID == authorID
	}
}

func (s *ExchangeTestSuite) TestAwaitReceivesOfferedMessage() {
	since := time.Now()
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.exchange.Offer(&Message{ID: "1", AuthorID: "alice", Content: "hello"})
	}()

	msg, err := s.exchange.Await(s.ctx, fromAuthor("alice"), since, time.Second)

	s.Require().NoError(err)
	s.Equal("hello", msg.Content)
}

func (s *ExchangeTestSuite) TestAwaitSkipsNonMatchingMessages() {
	since := time.Now()
	go func() {
		time.Sleep(10 * time.Millisecond)
		s.exchange.Offer(&Message{ID: "1", AuthorID: "bob", Content: "noise"})
		s.exchange.Offer(&Message{ID: "2", AuthorID: "alice", Content: "signal"})
	}()

	msg, err := s.exchange.Await(s.ctx, fromAuthor("alice"), since, time.Second)

	s.Require().NoError(err)
	s.Equal("signal", msg.Content)
}

func (s *ExchangeTestSuite) TestAwaitTimesOut() {
	msg, err := s.exchange.Await(s.ctx, fromAuthor("alice"), time.Now(), 20*time.Millisecond)

	s.Require().Error(err)
	s.True(errors.Is(err, ErrAwaitTimeout))
	s.Nil(msg)
}

func (s *ExchangeTestSuite) TestAwaitHonorsContextCancellation() {
	ctx, cancel := context.WithCancel(s.ctx)
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	msg, err := s.exchange.Await(ctx, fromAuthor("alice"), time.Now(), time.Second)

	s.Require().Error(err)
	s.True(errors.Is(err, context.Canceled))
	s.Nil(msg)
}

func (s *ExchangeTestSuite) TestBufferedMessageClaimedByLaterAwait() {
	since := time.Now()
	s.exchange.Offer(&Message{ID: "1", AuthorID: "alice", Content: "early"})

	msg, err := s.exchange.Await(s.ctx, fromAuthor("alice"), since, 50*time.Millisecond)

	s.Require().NoError(err)
	s.Equal("early", msg.Content)
}

func (s *ExchangeTestSuite) TestBufferedMessagesClaimedInArrivalOrder() {
	since := time.Now()
	s.exchange.Offer(&Message{ID: "1", AuthorID: "alice", Content: "first"})
	s.exchange.Offer(&Message{ID: "2", AuthorID: "alice", Content: "second"})

	first, err := s.exchange.Await(s.ctx, fromAuthor("alice"), since, 50*time.Millisecond)
	s.Require().NoError(err)
	second, err := s.exchange.Await(s.ctx, fromAuthor("alice"), since, 50*time.Millisecond)
	s.Require().NoError(err)

	s.Equal("first", first.Content)
	s.Equal("second", second.Content)
}

func (s *ExchangeTestSuite) TestMessagesBeforeWatermarkNeverMatch() {
	current := time.Now()
	s.exchange.now = func() time.Time { return current }

	// Typed before the prompt this await belongs to.
	s.exchange.Offer(&Message{ID: "1", AuthorID: "alice", Content: "stale"})

	promptedAt := current.Add(time.Second)
	_, err := s.exchange.Await(s.ctx, fromAuthor("alice"), promptedAt, 20*time.Millisecond)
	s.True(errors.Is(err, ErrAwaitTimeout))
}

func (s *ExchangeTestSuite) TestSkippedStaleMessageStaysClaimable() {
	current := time.Now()
	s.exchange.now = func() time.Time { return current }

	s.exchange.Offer(&Message{ID: "1", AuthorID: "alice", Content: "old"})

	// A newer watermark skips the entry without consuming it.
	_, err := s.exchange.Await(s.ctx, fromAuthor("alice"), current.Add(time.Second), 20*time.Millisecond)
	s.True(errors.Is(err, ErrAwaitTimeout))

	msg, err := s.exchange.Await(s.ctx, fromAuthor("alice"), current, 20*time.Millisecond)
	s.Require().NoError(err)
	s.Equal("old", msg.Content)
}

func (s *ExchangeTestSuite) TestExpiredPendingMessagesAreDropped() {
	current := time.Now()
	s.exchange.now = func() time.Time { return current }

	s.exchange.Offer(&Message{ID: "1", AuthorID: "alice", Content: "stale"})
	current = current.Add(pendingTTL + time.Second)

	_, err := s.exchange.Await(s.ctx, fromAuthor("alice"), time.Time{}, 20*time.Millisecond)

	s.True(errors.Is(err, ErrAwaitTimeout))
}

func (s *ExchangeTestSuite) TestPendingBufferIsBounded() {
	for i := 0; i < maxPending+10; i++ {
		s.exchange.Offer(&Message{ID: "x", AuthorID: "bob", Content: "noise"})
	}

	s.exchange.mu.Lock()
	defer s.exchange.mu.Unlock()
	s.LessOrEqual(len(s.exchange.pending), maxPending)
}

func (s *ExchangeTestSuite) TestConcurrentWaitersEachGetOneMessage() {
	since := time.Now()
	results := make(chan string, 2)
	for i := 0; i < 2; i++ {
		go func() {
			msg, err := s.exchange.Await(s.ctx, fromAuthor("alice"), since, time.Second)
			if err != nil {
				results <- "err"
				return
			}
			results <- msg.ID
		}()
	}

	time.Sleep(20 * time.Millisecond)
	s.exchange.Offer(&Message{ID: "1", AuthorID: "alice"})
	s.exchange.Offer(&Message{ID: "2", AuthorID: "alice"})

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		got[<-results] = true
	}
	s.True(got["1"])
	s.True(got["2"])
}

// An offer racing an await's timeout must either win the await or land
// in the buffer; it can never vanish.
func (s *ExchangeTestSuite) TestOfferRacingTimeoutIsNeverLost() {
	for i := 0; i < 50; i++ {
		content := fmt.Sprintf("msg-%d", i)
		since := time.Now()

		go func() {
			time.Sleep(time.Millisecond)
			s.exchange.Offer(&Message{ID: content, AuthorID: "alice", Content: content})
		}()

		msg, err := s.exchange.Await(s.ctx, fromAuthor("alice"), since, time.Millisecond)
		if err != nil {
			// The offer missed the waiter, so it must be buffered.
			msg, err = s.exchange.Await(s.ctx, fromAuthor("alice"), since, time.Second)
		}

		s.Require().NoError(err)
		s.Equal(content, msg.Content)
	}
}

func TestExchangeTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeTestSuite))
}

func TestDestinationKey(t *testing.T) {
	named := Destination{ID: "123", Name: "general", Kind: "text"}
	if named.Key() != "general" {
		t.Errorf("expected channel name key, got %s", named.Key())
	}

	dm := Destination{ID: "456", Kind: "dm"}
	if dm.Key() != "dm-456" {
		t.Errorf("expected kind-id key, got %s", dm.Key())
	}
}
