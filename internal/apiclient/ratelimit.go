package apiclient

import (
	"sync"
	"time"
)

const (
	// defaultRetryAfterSeconds is assumed when a rate-limited response
	// carries no Retry-After header
	defaultRetryAfterSeconds = 60

	// maxBackoffSeconds caps exponential backoff at 5 minutes
	maxBackoffSeconds = 300
)

// Backoff returns the exponential backoff wait for a retry attempt:
// min(300s, baseWait * 2^attempt). It is monotonically non-decreasing
// in attempt and never exceeds the cap.
func Backoff(attempt, baseWaitSeconds int) time.Duration {
	if baseWaitSeconds < 0 {
		baseWaitSeconds = 0
	}
	wait := time.Duration(baseWaitSeconds) * time.Second
	max := maxBackoffSeconds * time.Second
	for i := 0; i < attempt; i++ {
		wait *= 2
		if wait >= max {
			return max
		}
	}
	if wait > max {
		return max
	}
	return wait
}

// rateLimitState tracks per-endpoint cool-down windows. While a window
// is open, requests to that endpoint fail fast locally instead of
// hitting a backend that has already signalled overload.
type rateLimitState struct {
	mu        sync.Mutex
	notBefore map[string]time.Time
	now       func() time.Time
}

func newRateLimitState() *rateLimitState {
	return &rateLimitState{
		notBefore: make(map[string]time.Time),
		now:       time.Now,
	}
}

// check returns a RateLimitError with the remaining wait if the
// endpoint is still inside its cool-down window.
func (s *rateLimitState) check(endpoint string) *RateLimitError {
	s.mu.Lock()
	defer s.mu.Unlock()

	until, ok := s.notBefore[endpoint]
	if !ok {
		return nil
	}

	remaining := until.Sub(s.now())
	if remaining <= 0 {
		delete(s.notBefore, endpoint)
		return nil
	}

	return &RateLimitError{
		WaitSeconds: int(remaining.Round(time.Second) / time.Second),
		Message:     "rate limit cool-down still active for " + endpoint,
	}
}

// set records a cool-down window for the endpoint.
func (s *rateLimitState) set(endpoint string, wait time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notBefore[endpoint] = s.now().Add(wait)
}
