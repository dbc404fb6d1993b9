// Package retry provides the single retry policy used for provider calls,
// replacing per-call-site sleep loops. Only failures classified as retryable
// are attempted again.
package retry

import (
	"context"
	"time"

	"uniwork-backend/pkg/faults"
)

// Policy describes how many attempts to make and how long to wait between
// them. The backoff schedule doubles from Backoff up to MaxBackoff.
type Policy struct {
	MaxAttempts int
	Backoff     time.Duration
	MaxBackoff  time.Duration
}

// DefaultPolicy covers interactive provider calls: three attempts, starting
// at half a second.
var DefaultPolicy = Policy{MaxAttempts: 3, Backoff: 500 * time.Millisecond, MaxBackoff: 5 * time.Second}

// Do runs fn until it succeeds, returns a non-retryable error, or the policy
// is exhausted. The last error is returned unmodified so callers can keep
// classifying it.
func (p Policy) Do(ctx context.Context, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	delay := p.Backoff
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = fn()
		if err == nil || !faults.IsRetryable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if p.MaxBackoff > 0 && delay > p.MaxBackoff {
			delay = p.MaxBackoff
		}
	}
	return err
}
