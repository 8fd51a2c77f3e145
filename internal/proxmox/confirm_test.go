package proxmox

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm_SucceedsOnLaterAttempt(t *testing.T) {
	slept := stubSleep(t)

	states := []string{"prepare", "prepare", "ok"}
	polls := 0
	poll := func(ctx context.Context) (string, error) {
		state := states[polls]
		polls++
		return state, nil
	}

	err := Confirm(context.Background(), ConfirmPolicy{MaxAttempts: 10, Interval: 5 * time.Second},
		poll, func(v string) bool { return v != "prepare" })

	require.NoError(t, err)
	assert.Equal(t, 3, polls, "polling stops on the first accepted value")
	assert.Equal(t, []time.Duration{5 * time.Second, 5 * time.Second, 5 * time.Second}, *slept)
}

func TestConfirm_SucceedsImmediately(t *testing.T) {
	slept := stubSleep(t)

	polls := 0
	err := Confirm(context.Background(), ConfirmPolicy{MaxAttempts: 3, Interval: time.Second},
		func(ctx context.Context) (string, error) {
			polls++
			return "stopped", nil
		},
		func(v string) bool { return v == "stopped" })

	require.NoError(t, err)
	assert.Equal(t, 1, polls)
	assert.Len(t, *slept, 1, "the interval is always waited before the first poll")
}

func TestConfirm_TimeoutAfterExactlyMaxAttempts(t *testing.T) {
	slept := stubSleep(t)

	polls := 0
	err := Confirm(context.Background(), ConfirmPolicy{MaxAttempts: 4, Interval: 5 * time.Second},
		func(ctx context.Context) (string, error) {
			polls++
			return "prepare", nil
		},
		func(v string) bool { return false })

	var timeoutErr *ConfirmationTimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.Equal(t, 4, timeoutErr.Attempts)
	assert.Equal(t, 5*time.Second, timeoutErr.Interval)
	assert.Equal(t, "prepare", timeoutErr.LastValue)
	assert.Equal(t, 4, polls)

	var total time.Duration
	for _, d := range *slept {
		total += d
	}
	assert.Equal(t, 20*time.Second, total, "total wait is maxAttempts * interval")
}

func TestConfirm_PollErrorPropagates(t *testing.T) {
	stubSleep(t)

	pollErr := fmt.Errorf("status read failed")
	err := Confirm(context.Background(), ConfirmPolicy{MaxAttempts: 3, Interval: time.Second},
		func(ctx context.Context) (string, error) { return "", pollErr },
		func(v string) bool { return true })

	require.ErrorIs(t, err, pollErr)
}

func TestConfirm_ContextCancellationAbortsWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	polls := 0
	err := Confirm(ctx, ConfirmPolicy{MaxAttempts: 3, Interval: time.Hour},
		func(ctx context.Context) (string, error) {
			polls++
			return "", nil
		},
		func(v string) bool { return true })

	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, polls, "a cancelled context never reaches the poll")
}
