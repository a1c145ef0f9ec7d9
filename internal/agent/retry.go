package agent

import (
	"context"
	"math/rand"
	"time"
)

// retryBaseDelay is SPEC_FULL.md §12's chosen base delay for the LLM
// transport call: bounded retries with full-jitter backoff, only for
// transport-level failures (tool/validation errors are never retried — they
// aren't transport failures in the first place). The attempt count is passed
// in by the caller (Config.TransportRetries).
const retryBaseDelay = 200 * time.Millisecond

// withTransportRetry calls fn up to attempts times, sleeping a full-jitter
// backoff (uniform in [0, base*2^n]) between attempts, and gives up the
// moment fn succeeds or ctx is done.
func withTransportRetry(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			backoff := retryBaseDelay * time.Duration(uint64(1)<<uint(attempt-1))
			wait := time.Duration(rand.Int63n(int64(backoff) + 1))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
	}
	return lastErr
}
