package wait

import (
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// ExhaustedError is returned by Retry when no attempt succeeded in time.
// It carries the error of every attempt, in attempt order.
type ExhaustedError struct {
	Attempts int
	Timeout  time.Duration
	Err      error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry exhausted after %d attempts within %s: %v", e.Attempts, e.Timeout, e.Err)
}

// Errors - returns the per-attempt errors
func (e *ExhaustedError) Errors() []error {
	return multierr.Errors(e.Err)
}

func (e *ExhaustedError) Unwrap() []error {
	return e.Errors()
}

// PanicError wraps a value recovered from a panicking condition or action
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}
