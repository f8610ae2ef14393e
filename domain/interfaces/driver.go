package interfaces

import (
	"context"
	"errors"
	"time"

	"lyra_automation/domain/entities"
)

// ErrObjectNotFound is returned by lookups that matched nothing
var ErrObjectNotFound = errors.New("object not found")

// GameDriver defines the interface for remote control of a running game
type GameDriver interface {
	// LoadScene requests the game to load a scene
	LoadScene(ctx context.Context, scene string) error

	// GetCurrentScene returns the scene the game reports as active
	GetCurrentScene(ctx context.Context) (string, error)

	// FindObject looks up an object once
	FindObject(ctx context.Context, selector entities.Selector) (GameObject, error)

	// WaitForObject looks up an object until it appears or timeout elapses
	WaitForObject(ctx context.Context, selector entities.Selector, timeout time.Duration) (GameObject, error)

	// MoveMouse moves the cursor to a screen position over duration
	MoveMouse(ctx context.Context, position entities.Vector2, duration time.Duration) error

	// PressKey holds a key for duration
	PressKey(ctx context.Context, key entities.KeyCode, duration time.Duration) error

	// Close releases the connection to the game
	Close() error
}

// GameObject defines a located scene object
type GameObject interface {
	// Info returns the object data captured by the lookup
	Info() entities.ObjectInfo

	// Enabled reports the object's own enabled flag
	Enabled() bool

	// GetText reads the object's text
	GetText(ctx context.Context) (string, error)

	// Click clicks the object
	Click(ctx context.Context) error

	// ScreenPosition returns the current screen position, false if the object is gone
	ScreenPosition(ctx context.Context) (entities.Vector2, bool, error)
}
