// Package pages holds one page object per navigable game scene.
package pages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"lyra_automation/application/components"
	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
	"lyra_automation/infrastructure/wait"
)

const (
	MinimumWaitTimeout  = 1 * time.Second
	ExplicitWaitTimeout = 5 * time.Second
)

var (
	// ErrNavigation is returned when a page's scene did not become current in time
	ErrNavigation = errors.New("page not loaded")

	ErrNilDriver = errors.New("driver is required")
	ErrNilLogger = errors.New("logger is required")
)

// Option configures a page
type Option func(*Page)

// WithWaiter - sets the waiter used for scene polling
func WithWaiter(w *wait.Waiter) Option {
	return func(p *Page) {
		if w != nil {
			p.waiter = w
		}
	}
}

// WithNavigationTimeout - sets how long NavigateTo waits for the scene,
// never less than MinimumWaitTimeout
func WithNavigationTimeout(d time.Duration) Option {
	return func(p *Page) {
		if d < MinimumWaitTimeout {
			d = MinimumWaitTimeout
		}
		p.navigationTimeout = d
	}
}

// Page is the navigation core shared by every page object
type Page struct {
	driver interfaces.GameDriver
	logger *logrus.Logger
	waiter *wait.Waiter
	scene  string
	state  entities.PageState

	navigationTimeout time.Duration
}

func newPage(driver interfaces.GameDriver, logger *logrus.Logger, scene string, opts []Option) (*Page, error) {
	if driver == nil {
		return nil, ErrNilDriver
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	p := &Page{
		driver:            driver,
		logger:            logger,
		waiter:            wait.New(wait.WithLogger(logger)),
		scene:             scene,
		state:             entities.PageStateUnknown,
		navigationTimeout: wait.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Scene - returns the scene identifier the page is bound to
func (p *Page) Scene() string {
	return p.scene
}

// State - returns the last observed navigation state
func (p *Page) State() entities.PageState {
	return p.state
}

// NavigateTo - loads the page's scene and waits until the game reports it
func (p *Page) NavigateTo(ctx context.Context) error {
	log := p.logger.WithField("scene", p.scene)
	log.Infof("Loading page '%s' started", p.scene)

	p.state = entities.PageStateLoading
	if err := p.driver.LoadScene(ctx, p.scene); err != nil {
		p.state = entities.PageStateNotOpened
		log.WithError(err).Errorf("Page '%s' not loaded", p.scene)
		return fmt.Errorf("%w: %s: %w", ErrNavigation, p.scene, err)
	}

	loaded, err := p.waiter.Until(p.isCurrent(ctx, true), wait.Timeout(p.navigationTimeout))
	if err != nil || !loaded {
		p.state = entities.PageStateNotOpened
		log.WithError(err).Errorf("Page '%s' not loaded", p.scene)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrNavigation, p.scene, err)
		}
		return fmt.Errorf("%w: %s within %s", ErrNavigation, p.scene, p.navigationTimeout)
	}

	p.state = entities.PageStateOpened
	log.Infof("Loading page '%s' finished", p.scene)
	return nil
}

// IsPageOpened - polls up to the explicit wait for the page to be opened
// (or closed, when shouldBeOpened is false) and reports the outcome
func (p *Page) IsPageOpened(ctx context.Context, shouldBeOpened bool) bool {
	log := p.logger.WithField("scene", p.scene)
	log.Infof("Checking if page '%s' is opened: %t", p.scene, shouldBeOpened)

	result, err := p.waiter.Until(p.isCurrent(ctx, shouldBeOpened), wait.Timeout(ExplicitWaitTimeout))
	if err != nil {
		log.WithError(err).Warn("Failed to read current scene")
		p.state = entities.PageStateUnknown
		return false
	}

	if result {
		log.Infof("Page '%s' opened successfully", p.scene)
	} else {
		log.Infof("Page %s is not opened", p.scene)
	}

	if result == shouldBeOpened {
		p.state = entities.PageStateOpened
	} else {
		p.state = entities.PageStateNotOpened
	}
	return result
}

func (p *Page) isCurrent(ctx context.Context, expected bool) func() (bool, error) {
	return func() (bool, error) {
		current, err := p.driver.GetCurrentScene(ctx)
		if err != nil {
			return false, err
		}
		return (current == p.scene) == expected, nil
	}
}

func (p *Page) find(ctx context.Context, name string) interfaces.GameObject {
	obj, _ := components.TryFindObject(ctx, p.driver, entities.Name(name), ExplicitWaitTimeout)
	return obj
}
