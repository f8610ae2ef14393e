// Package aiming composes driver input into gameplay macros that turn the
// view toward a target and fire at it.
package aiming

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"lyra_automation/application/components"
	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
	"lyra_automation/infrastructure/wait"
)

const (
	DefaultFireKey            = entities.KeyMouse0
	DefaultFirePressDuration  = 150 * time.Millisecond
	DefaultRotateDuration     = 1500 * time.Millisecond
	DefaultRotatePollInterval = 80 * time.Millisecond
	DefaultRotateMovePerStep  = 200 * time.Millisecond
	DefaultFocusMoveDuration  = 250 * time.Millisecond
)

var (
	// ErrPrecondition is returned when a required driver or target is missing
	ErrPrecondition = errors.New("aiming precondition failed")

	// ErrTargetLost is returned when the target leaves the screen while rotating
	ErrTargetLost = errors.New("enemy bot is not present, cannot rotate to it")
)

// Settings tunes the aiming macros
type Settings struct {
	FireKey            entities.KeyCode
	FirePressDuration  time.Duration
	RotateDuration     time.Duration
	RotatePollInterval time.Duration
	RotateMovePerStep  time.Duration
	FocusMoveDuration  time.Duration
}

// DefaultSettings - returns the tuned defaults for Lyra's shooter gym
func DefaultSettings() Settings {
	return Settings{
		FireKey:            DefaultFireKey,
		FirePressDuration:  DefaultFirePressDuration,
		RotateDuration:     DefaultRotateDuration,
		RotatePollInterval: DefaultRotatePollInterval,
		RotateMovePerStep:  DefaultRotateMovePerStep,
		FocusMoveDuration:  DefaultFocusMoveDuration,
	}
}

// Aimer runs aiming macros against a driver
type Aimer struct {
	driver   interfaces.GameDriver
	waiter   *wait.Waiter
	logger   *logrus.Logger
	settings Settings
}

// Option configures an Aimer
type Option func(*Aimer)

// WithWaiter - sets the waiter that bounds rotation time
func WithWaiter(w *wait.Waiter) Option {
	return func(a *Aimer) {
		if w != nil {
			a.waiter = w
		}
	}
}

// WithLogger - sets the logger
func WithLogger(logger *logrus.Logger) Option {
	return func(a *Aimer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithSettings - overrides the default settings
func WithSettings(s Settings) Option {
	return func(a *Aimer) { a.settings = s }
}

// NewAimer - creates new aimer; a nil driver is reported by the macros
func NewAimer(driver interfaces.GameDriver, opts ...Option) *Aimer {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	a := &Aimer{
		driver:   driver,
		logger:   discard,
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.waiter == nil {
		a.waiter = wait.New(wait.WithLogger(a.logger))
	}
	return a
}

// Settings - returns the active settings
func (a *Aimer) Settings() Settings {
	return a.settings
}

// RotateToEnemy - keeps steering the view toward the enemy for the rotate
// duration. Losing sight of the enemy is fatal. A nil enemy is a no-op.
func (a *Aimer) RotateToEnemy(ctx context.Context, enemy *components.EnemyBot) error {
	if a.driver == nil {
		return fmt.Errorf("%w: driver is required", ErrPrecondition)
	}
	if enemy == nil {
		return nil
	}

	steps := 0
	_, err := a.waiter.Until(func() (bool, error) {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		pos, visible, err := enemy.ScreenPosition(ctx)
		if err != nil {
			return false, fmt.Errorf("failed to read enemy position: %w", err)
		}
		if !visible {
			return false, ErrTargetLost
		}
		if err := a.driver.MoveMouse(ctx, pos, a.settings.RotateMovePerStep); err != nil {
			return false, fmt.Errorf("failed to move mouse to %s: %w", pos, err)
		}
		steps++
		return false, nil
	}, wait.Timeout(a.settings.RotateDuration), wait.Interval(a.settings.RotatePollInterval))

	a.logger.WithField("steps", steps).Debug("Rotation toward enemy finished")
	return err
}

// FocusOnEnemy - settles aim with one slower move; does nothing when the
// enemy is no longer visible
func (a *Aimer) FocusOnEnemy(ctx context.Context, enemy *components.EnemyBot) error {
	if a.driver == nil {
		return fmt.Errorf("%w: driver is required", ErrPrecondition)
	}
	if enemy == nil {
		return fmt.Errorf("%w: enemy bot is required", ErrPrecondition)
	}

	pos, visible, err := enemy.ScreenPosition(ctx)
	if err != nil {
		return fmt.Errorf("failed to read enemy position: %w", err)
	}
	if !visible {
		a.logger.Debug("Enemy not visible, skipping focus")
		return nil
	}
	if err := a.driver.MoveMouse(ctx, pos, a.settings.FocusMoveDuration); err != nil {
		return fmt.Errorf("failed to move mouse to %s: %w", pos, err)
	}
	return nil
}

// Fire - rotates toward the enemy, settles aim and holds the fire key
func (a *Aimer) Fire(ctx context.Context, enemy *components.EnemyBot) error {
	if a.driver == nil {
		return fmt.Errorf("%w: driver is required", ErrPrecondition)
	}
	if enemy == nil {
		return fmt.Errorf("%w: enemy bot is required", ErrPrecondition)
	}

	if err := a.RotateToEnemy(ctx, enemy); err != nil {
		return err
	}
	if err := a.FocusOnEnemy(ctx, enemy); err != nil {
		return err
	}

	a.logger.WithField("key", a.settings.FireKey).Info("Firing at enemy")
	if err := a.driver.PressKey(ctx, a.settings.FireKey, a.settings.FirePressDuration); err != nil {
		return fmt.Errorf("failed to press %s: %w", a.settings.FireKey, err)
	}
	return nil
}
