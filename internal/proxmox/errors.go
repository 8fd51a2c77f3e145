package proxmox

import (
	"fmt"
	"time"
)

// TransportError indicates a request could not be completed: the connection
// failed or the server answered with a non-2xx status.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s failed with status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s failed: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ParseError indicates a response payload was not in the expected shape.
// Callers treat it as an unknown state rather than a hard failure.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to extract field %q: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ConfirmationTimeoutError indicates bounded polling exhausted every attempt
// without the predicate accepting the observed value. LastValue carries the
// value seen on the final attempt.
type ConfirmationTimeoutError struct {
	Attempts  int
	Interval  time.Duration
	LastValue string
}

func (e *ConfirmationTimeoutError) Error() string {
	return fmt.Sprintf("confirmation not reached after %d attempts at %s intervals, last observed value %q",
		e.Attempts, e.Interval, e.LastValue)
}
