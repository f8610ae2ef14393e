// Package components wraps located scene objects as typed UI widgets and
// gameplay actors.
package components

import (
	"context"
	"errors"
	"time"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

// ErrNotDisplayed is returned by actions on a component whose object was not found
var ErrNotDisplayed = errors.New("component is not displayed")

// Component pairs a driver with an optional located object
type Component struct {
	driver interfaces.GameDriver
	object interfaces.GameObject
}

// New - creates a component; object may be nil when the lookup failed
func New(driver interfaces.GameDriver, object interfaces.GameObject) Component {
	return Component{driver: driver, object: object}
}

// Displayed - reports whether the backing object was found
func (c Component) Displayed() bool {
	return c.object != nil
}

// Enabled - reports the object's enabled flag, false when not displayed
func (c Component) Enabled() bool {
	if c.object == nil {
		return false
	}
	return c.object.Enabled()
}

// Object - returns the backing object and whether it is present
func (c Component) Object() (interfaces.GameObject, bool) {
	return c.object, c.object != nil
}

// find performs a non-waiting lookup relative to the component's driver
func (c Component) find(ctx context.Context, selector entities.Selector) Component {
	object, _ := TryFindObject(ctx, c.driver, selector, 0)
	return New(c.driver, object)
}

// TryFindObject - looks up an object, waiting up to timeout when it is
// positive. Any failure, or an unset selector, is reported as absent.
func TryFindObject(ctx context.Context, driver interfaces.GameDriver, selector entities.Selector, timeout time.Duration) (interfaces.GameObject, bool) {
	if driver == nil || selector.IsZero() {
		return nil, false
	}

	var (
		object interfaces.GameObject
		err    error
	)
	if timeout > 0 {
		object, err = driver.WaitForObject(ctx, selector, timeout)
	} else {
		object, err = driver.FindObject(ctx, selector)
	}
	if err != nil || object == nil {
		return nil, false
	}
	return object, true
}
