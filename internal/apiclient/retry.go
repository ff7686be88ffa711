package apiclient

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultRetryCount is the default retry budget for rate-limited
// operations.
const DefaultRetryCount = 3

// WithRetry runs op up to retryCount times, sleeping with exponential
// backoff between attempts that fail with a RateLimitError. Any other
// error, and a rate limit on the final attempt, propagates to the
// caller.
func WithRetry(ctx context.Context, retryCount int, op func() error) error {
	if retryCount < 1 {
		retryCount = DefaultRetryCount
	}

	var err error
	for attempt := 0; attempt < retryCount; attempt++ {
		err = op()
		if err == nil {
			return nil
		}

		var rateErr *RateLimitError
		if !errors.As(err, &rateErr) {
			return err
		}

		if attempt == retryCount-1 {
			break
		}

		wait := Backoff(attempt, rateErr.WaitSeconds)
		log.Info().
			Dur("backoff", wait).
			Int("attempt", attempt+1).
			Int("retry_count", retryCount).
			Msg("rate limit backoff")

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return err
}
