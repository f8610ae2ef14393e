// Package wait polls conditions and retries actions against a game whose
// state changes on its own schedule.
package wait

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
)

const (
	DefaultTimeout       = 60 * time.Second
	DefaultInterval      = 100 * time.Millisecond
	DefaultRetryInterval = 500 * time.Millisecond
)

// Waiter runs polling loops on an injectable clock
type Waiter struct {
	clock  Clock
	logger *logrus.Logger
}

// Option configures a Waiter
type Option func(*Waiter)

// WithClock - sets the clock used for timing and sleeping
func WithClock(clock Clock) Option {
	return func(w *Waiter) {
		if clock != nil {
			w.clock = clock
		}
	}
}

// WithLogger - sets the logger used for diagnostics
func WithLogger(logger *logrus.Logger) Option {
	return func(w *Waiter) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New - creates new waiter, defaulting to the system clock
func New(opts ...Option) *Waiter {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	w := &Waiter{
		clock:  SystemClock(),
		logger: discard,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

type settings struct {
	timeout      time.Duration
	interval     time.Duration
	ignoreErrors bool
}

// UntilOption tunes a single Until or Retry call
type UntilOption func(*settings)

// Timeout - sets how long to keep polling. Zero or negative means one attempt.
func Timeout(d time.Duration) UntilOption {
	return func(s *settings) { s.timeout = d }
}

// Interval - sets the pause between attempts. Non-positive values keep the default.
func Interval(d time.Duration) UntilOption {
	return func(s *settings) {
		if d > 0 {
			s.interval = d
		}
	}
}

// IgnoreErrors - keeps polling when the condition returns an error
func IgnoreErrors() UntilOption {
	return func(s *settings) { s.ignoreErrors = true }
}

func newSettings(interval time.Duration, opts []UntilOption) settings {
	s := settings{timeout: DefaultTimeout, interval: interval}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Clock - returns the waiter's clock
func (w *Waiter) Clock() Clock {
	return w.clock
}

// Sleep - pauses on the waiter's clock
func (w *Waiter) Sleep(d time.Duration) {
	w.clock.Sleep(d)
}

// Until - evaluates condition until it returns true or timeout elapses.
// It returns false on timeout. A condition error aborts the wait and is
// returned unless IgnoreErrors is set.
func (w *Waiter) Until(condition func() (bool, error), opts ...UntilOption) (bool, error) {
	s := newSettings(DefaultInterval, opts)
	start := w.clock.Now()

	for attempt := 1; ; attempt++ {
		ok, err := protect(condition)
		if err != nil {
			if !s.ignoreErrors {
				return false, err
			}
			w.logger.WithError(err).WithField("attempt", attempt).Debug("wait: condition failed, polling on")
		} else if ok {
			return true, nil
		}

		if w.expired(start, s.timeout) {
			break
		}
		w.clock.Sleep(s.interval)
		if w.expired(start, s.timeout) {
			break
		}
	}

	w.logger.WithField("timeout", s.timeout).Debug("wait: condition not met")
	return false, nil
}

// Do - retries action until it returns nil or timeout elapses
func (w *Waiter) Do(action func() error, opts ...UntilOption) error {
	_, err := Retry(w, func() (struct{}, error) {
		return struct{}{}, action()
	}, opts...)
	return err
}

// Retry - invokes action until it succeeds and returns its value.
// When timeout elapses first, it returns an *ExhaustedError holding every
// attempt's error.
func Retry[T any](w *Waiter, action func() (T, error), opts ...UntilOption) (T, error) {
	s := newSettings(DefaultRetryInterval, opts)
	start := w.clock.Now()

	var errs error
	attempts := 0
	for {
		value, err := protect(action)
		attempts++
		if err == nil {
			return value, nil
		}
		errs = multierr.Append(errs, err)
		w.logger.WithError(err).WithField("attempt", attempts).Debug("wait: attempt failed")

		if w.expired(start, s.timeout) {
			break
		}
		w.clock.Sleep(s.interval)
		if w.expired(start, s.timeout) {
			break
		}
	}

	var zero T
	return zero, &ExhaustedError{Attempts: attempts, Timeout: s.timeout, Err: errs}
}

func (w *Waiter) expired(start time.Time, timeout time.Duration) bool {
	return w.clock.Now().Sub(start) >= timeout
}

func protect[T any](fn func() (T, error)) (value T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}
