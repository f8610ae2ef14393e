// Package scenario runs named end-to-end game checks against a driver and
// records their outcome.
package scenario

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"lyra_automation/application/aiming"
	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
	"lyra_automation/infrastructure/wait"
)

var (
	// ErrUnknownScenario is returned for names no scenario is registered under
	ErrUnknownScenario = errors.New("unknown scenario")

	// ErrAssertion marks a scenario check that did not hold
	ErrAssertion = errors.New("assertion failed")
)

// Env is what a scenario runs against
type Env struct {
	Driver interfaces.GameDriver
	Logger *logrus.Logger
	Waiter *wait.Waiter
	Aimer  *aiming.Aimer
}

// Scenario is one named end-to-end check
type Scenario struct {
	Name        string
	Description string
	Run         func(ctx context.Context, env *Env) error
}

// Runner executes scenarios and keeps their history
type Runner struct {
	driver   interfaces.GameDriver
	storage  interfaces.Storage
	logger   *logrus.Logger
	waiter   *wait.Waiter
	aiming   aiming.Settings
	launcher interfaces.Launcher
	observe  func(entities.RunRecord)

	artifactDir string
	scenarios   map[string]Scenario
}

// Option configures a runner
type Option func(*Runner)

// WithWaiter - sets the waiter shared by every scenario
func WithWaiter(w *wait.Waiter) Option {
	return func(r *Runner) {
		if w != nil {
			r.waiter = w
		}
	}
}

// WithAimSettings - overrides the aiming settings
func WithAimSettings(s aiming.Settings) Option {
	return func(r *Runner) { r.aiming = s }
}

// WithLauncher - takes a screenshot into dir whenever a scenario fails
func WithLauncher(l interfaces.Launcher, dir string) Option {
	return func(r *Runner) {
		r.launcher = l
		r.artifactDir = dir
	}
}

// WithObserver - calls fn every time a run changes status
func WithObserver(fn func(entities.RunRecord)) Option {
	return func(r *Runner) { r.observe = fn }
}

// WithScenario - registers an extra scenario, replacing one of the same name
func WithScenario(s Scenario) Option {
	return func(r *Runner) { r.scenarios[s.Name] = s }
}

// NewRunner - creates a runner with the built-in scenarios registered
func NewRunner(driver interfaces.GameDriver, storage interfaces.Storage, logger *logrus.Logger, opts ...Option) (*Runner, error) {
	if driver == nil {
		return nil, errors.New("driver is required")
	}
	if storage == nil {
		return nil, errors.New("storage is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	r := &Runner{
		driver:    driver,
		storage:   storage,
		logger:    logger,
		waiter:    wait.New(wait.WithLogger(logger)),
		aiming:    aiming.DefaultSettings(),
		scenarios: make(map[string]Scenario),
	}
	for _, s := range Builtin() {
		r.scenarios[s.Name] = s
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Scenarios - returns the registered scenarios sorted by name
func (r *Runner) Scenarios() []Scenario {
	list := make([]Scenario, 0, len(r.scenarios))
	for _, s := range r.scenarios {
		list = append(list, s)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

// History - returns every recorded run
func (r *Runner) History() ([]entities.RunRecord, error) {
	return r.storage.LoadHistory()
}

// Run - executes one scenario and records the outcome. The returned
// record is valid even when the scenario failed.
func (r *Runner) Run(ctx context.Context, name string) (entities.RunRecord, error) {
	s, ok := r.scenarios[name]
	if !ok {
		return entities.RunRecord{}, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
	}

	clock := r.waiter.Clock()
	record := entities.RunRecord{
		ID:       uuid.NewString(),
		Scenario: s.Name,
		Status:   entities.RunStatusPending,
		Started:  clock.Now(),
	}
	r.notify(record)
	log := r.logger.WithFields(logrus.Fields{
		"run":      record.ID,
		"scenario": s.Name,
	})

	record.Status = entities.RunStatusRunning
	r.notify(record)
	log.Info("Scenario started")

	err := r.execute(ctx, s)
	record.Duration = clock.Now().Sub(record.Started)

	if err != nil {
		record.Status = entities.RunStatusFailed
		record.Error = err.Error()
		log.WithError(err).Error("Scenario failed")
		if artifact, ok := r.screenshot(ctx, record.ID); ok {
			record.Artifact = artifact
		}
	} else {
		record.Status = entities.RunStatusPassed
	}
	log.WithField("duration", record.Duration).Info("Scenario finished")
	r.notify(record)

	if saveErr := r.storage.AppendRecord(record); saveErr != nil {
		if errors.Is(saveErr, interfaces.ErrCorruptHistory) {
			log.WithError(saveErr).Warn("Run history was unreadable and has been restarted")
		} else {
			log.WithError(saveErr).Warn("Failed to save run history")
		}
	}

	if err != nil {
		return record, fmt.Errorf("scenario %s failed: %w", s.Name, err)
	}
	return record, nil
}

func (r *Runner) notify(record entities.RunRecord) {
	if r.observe != nil {
		r.observe(record)
	}
}

func (r *Runner) execute(ctx context.Context, s Scenario) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = &wait.PanicError{Value: rec}
		}
	}()

	env := &Env{
		Driver: r.driver,
		Logger: r.logger,
		Waiter: r.waiter,
		Aimer: aiming.NewAimer(r.driver,
			aiming.WithWaiter(r.waiter),
			aiming.WithLogger(r.logger),
			aiming.WithSettings(r.aiming),
		),
	}
	return s.Run(ctx, env)
}

func (r *Runner) screenshot(ctx context.Context, runID string) (string, bool) {
	if r.launcher == nil {
		return "", false
	}
	path := filepath.Join(r.artifactDir, runID+".png")
	if err := r.launcher.Screenshot(ctx, path); err != nil {
		r.logger.WithError(err).Warn("Failed to take failure screenshot")
		return "", false
	}
	return path, true
}
