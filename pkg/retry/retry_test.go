package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uniwork-backend/pkg/faults"
)

func TestDoRetriesTransportFailures(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return &faults.TransportError{Op: "list", Err: errors.New("timeout")}
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnTerminalError(t *testing.T) {
	p := Policy{MaxAttempts: 5, Backoff: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return &faults.TerminalAuthError{Op: "refresh", Reason: "invalid_grant"}
	})

	assert.True(t, faults.IsTerminalAuth(err))
	assert.Equal(t, 1, calls, "terminal failures must not be retried")
}

func TestDoExhaustsAttempts(t *testing.T) {
	p := Policy{MaxAttempts: 2, Backoff: time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return &faults.TransportError{Op: "list", Err: errors.New("refused")}
	})

	assert.True(t, faults.IsRetryable(err))
	assert.Equal(t, 2, calls)
}

func TestDoRespectsContextCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 10, Backoff: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := p.Do(ctx, func() error {
		return &faults.TransportError{Op: "list", Err: errors.New("refused")}
	})
	assert.ErrorIs(t, err, context.Canceled)
}
