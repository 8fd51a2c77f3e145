package proxmox

import (
	"context"
	"time"
)

// sleep waits for the given duration or until the context is cancelled.
// Swapped out in tests so polling loops run without wall-clock waits.
var sleep = func(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

// PollFunc fetches the current value of a remote state field.
type PollFunc func(ctx context.Context) (string, error)

// ConfirmPolicy bounds a polling loop: MaxAttempts polls at a fixed
// Interval. The interval is deliberately fixed rather than exponential; VM
// boot, shutdown and snapshot operations complete on human-observable
// timescales where backoff buys nothing.
type ConfirmPolicy struct {
	MaxAttempts int
	Interval    time.Duration
}

// Confirm repeatedly waits the policy interval, invokes poll and evaluates
// done against the observed value. It returns nil as soon as done accepts a
// value, the poll error if a poll fails outright, or a
// ConfirmationTimeoutError carrying the last observed value once every
// attempt is exhausted.
func Confirm(ctx context.Context, policy ConfirmPolicy, poll PollFunc, done func(string) bool) error {
	var last string

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := sleep(ctx, policy.Interval); err != nil {
			return err
		}

		value, err := poll(ctx)
		if err != nil {
			return err
		}

		if done(value) {
			return nil
		}
		last = value
	}

	return &ConfirmationTimeoutError{
		Attempts:  policy.MaxAttempts,
		Interval:  policy.Interval,
		LastValue: last,
	}
}
