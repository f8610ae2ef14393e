// Package simulator is an in-memory game driver. It models scenes, objects
// and input closely enough to run the suite's flows without a game process.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
	"lyra_automation/infrastructure/wait"
)

var (
	// ErrSceneNotFound is returned when loading a scene that was never registered
	ErrSceneNotFound = errors.New("scene not found")

	// ErrClosed is returned by any call after Close
	ErrClosed = errors.New("simulator closed")
)

const findPollInterval = 500 * time.Millisecond

// Object is a simulated scene object
type Object struct {
	Name     string
	Tag      string
	Text     string
	Enabled  bool
	Position entities.Vector2
	OnClick  func(g *Game)

	id int64
}

// MouseMove records one MoveMouse call
type MouseMove struct {
	Position entities.Vector2
	Duration time.Duration
	At       time.Time
}

// KeyPress records one PressKey call
type KeyPress struct {
	Key      entities.KeyCode
	Duration time.Duration
	Cursor   entities.Vector2
	At       time.Time
}

type scheduled struct {
	at time.Time
	fn func(g *Game)
}

// Game is a simulated game implementing interfaces.GameDriver
type Game struct {
	mu sync.Mutex

	clock     wait.Clock
	waiter    *wait.Waiter
	logger    *logrus.Logger
	loadDelay time.Duration

	scenes  map[string]func(g *Game)
	current string
	objects []*Object
	nextID  int64
	events  []scheduled

	cursor      entities.Vector2
	moves       []MouseMove
	presses     []KeyPress
	keyHandlers []func(g *Game, press KeyPress)
	closed      bool
}

// Option configures a Game
type Option func(*Game)

// WithClock - sets the clock scene loads and waits run on
func WithClock(clock wait.Clock) Option {
	return func(g *Game) { g.clock = clock }
}

// WithLoadDelay - sets how long a scene load takes to complete
func WithLoadDelay(d time.Duration) Option {
	return func(g *Game) { g.loadDelay = d }
}

// WithLogger - sets the logger
func WithLogger(logger *logrus.Logger) Option {
	return func(g *Game) { g.logger = logger }
}

// New - creates an empty simulated game
func New(opts ...Option) *Game {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	g := &Game{
		clock:  wait.SystemClock(),
		logger: discard,
		scenes: make(map[string]func(g *Game)),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.waiter = wait.New(wait.WithClock(g.clock), wait.WithLogger(g.logger))
	return g
}

// AddScene - registers a scene; setup spawns its objects on entry
func (g *Game) AddScene(name string, setup func(g *Game)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.scenes[name] = setup
}

// EnterScene - switches to a scene immediately, dropping the previous
// scene's objects and key handlers
func (g *Game) EnterScene(name string) error {
	g.mu.Lock()
	setup, ok := g.scenes[name]
	if !ok {
		g.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrSceneNotFound, name)
	}
	g.current = name
	g.objects = nil
	g.keyHandlers = nil
	g.mu.Unlock()

	g.logger.WithField("scene", name).Debug("simulator: scene entered")
	if setup != nil {
		setup(g)
	}
	return nil
}

// Spawn - adds an object to the current scene and returns its id
func (g *Game) Spawn(obj Object) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	obj.id = g.nextID
	g.objects = append(g.objects, &obj)
	return obj.id
}

// Despawn - removes every object with the given name
func (g *Game) Despawn(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	kept := g.objects[:0]
	for _, obj := range g.objects {
		if obj.Name != name {
			kept = append(kept, obj)
		}
	}
	g.objects = kept
}

// Update - mutates the first object with the given name; false if none
func (g *Game) Update(name string, fn func(obj *Object)) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, obj := range g.objects {
		if obj.Name == name {
			fn(obj)
			return true
		}
	}
	return false
}

// Lookup - returns a copy of the first object with the given name
func (g *Game) Lookup(name string) (Object, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, obj := range g.objects {
		if obj.Name == name {
			return *obj, true
		}
	}
	return Object{}, false
}

// After - schedules fn to run once the clock has moved d past now
func (g *Game) After(d time.Duration, fn func(g *Game)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.events = append(g.events, scheduled{at: g.clock.Now().Add(d), fn: fn})
}

// OnKeyPress - registers a handler called after every key press in the
// current scene
func (g *Game) OnKeyPress(handler func(g *Game, press KeyPress)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.keyHandlers = append(g.keyHandlers, handler)
}

// Cursor - returns the last mouse position
func (g *Game) Cursor() entities.Vector2 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cursor
}

// MouseMoves - returns every recorded mouse move
func (g *Game) MouseMoves() []MouseMove {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]MouseMove, len(g.moves))
	copy(out, g.moves)
	return out
}

// KeyPresses - returns every recorded key press
func (g *Game) KeyPresses() []KeyPress {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]KeyPress, len(g.presses))
	copy(out, g.presses)
	return out
}

// tick runs every scheduled event that is due
func (g *Game) tick() error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	now := g.clock.Now()
	var due []func(g *Game)
	pending := g.events[:0]
	for _, ev := range g.events {
		if now.Before(ev.at) {
			pending = append(pending, ev)
			continue
		}
		due = append(due, ev.fn)
	}
	g.events = pending
	g.mu.Unlock()

	for _, fn := range due {
		fn(g)
	}
	return nil
}

// LoadScene - starts loading a scene; it becomes current after the load delay
func (g *Game) LoadScene(ctx context.Context, scene string) error {
	if err := g.tick(); err != nil {
		return err
	}

	g.mu.Lock()
	_, ok := g.scenes[scene]
	g.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSceneNotFound, scene)
	}

	g.logger.WithField("scene", scene).Debug("simulator: loading scene")
	if g.loadDelay <= 0 {
		return g.EnterScene(scene)
	}
	g.After(g.loadDelay, func(g *Game) {
		_ = g.EnterScene(scene)
	})
	return nil
}

// GetCurrentScene - returns the active scene
func (g *Game) GetCurrentScene(ctx context.Context) (string, error) {
	if err := g.tick(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current, nil
}

// FindObject - looks up an object in the current scene
func (g *Game) FindObject(ctx context.Context, selector entities.Selector) (interfaces.GameObject, error) {
	if err := g.tick(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	for _, obj := range g.objects {
		if matches(obj, selector) {
			return &object{game: g, id: obj.id, info: g.infoLocked(obj)}, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, selector)
}

// WaitForObject - polls FindObject until the object appears or timeout elapses
func (g *Game) WaitForObject(ctx context.Context, selector entities.Selector, timeout time.Duration) (interfaces.GameObject, error) {
	obj, err := wait.Retry(g.waiter, func() (interfaces.GameObject, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return g.FindObject(ctx, selector)
	}, wait.Timeout(timeout), wait.Interval(findPollInterval))
	if err != nil {
		return nil, fmt.Errorf("%w: %s after %s", interfaces.ErrObjectNotFound, selector, timeout)
	}
	return obj, nil
}

// MoveMouse - records a mouse move and updates the cursor
func (g *Game) MoveMouse(ctx context.Context, position entities.Vector2, duration time.Duration) error {
	if err := g.tick(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cursor = position
	g.moves = append(g.moves, MouseMove{Position: position, Duration: duration, At: g.clock.Now()})
	return nil
}

// PressKey - records a key press and notifies key handlers
func (g *Game) PressKey(ctx context.Context, key entities.KeyCode, duration time.Duration) error {
	if err := g.tick(); err != nil {
		return err
	}
	g.mu.Lock()
	press := KeyPress{Key: key, Duration: duration, Cursor: g.cursor, At: g.clock.Now()}
	g.presses = append(g.presses, press)
	handlers := append([]func(g *Game, press KeyPress){}, g.keyHandlers...)
	g.mu.Unlock()

	for _, handler := range handlers {
		handler(g, press)
	}
	return nil
}

// Close - closes the simulator; later calls fail with ErrClosed
func (g *Game) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	return nil
}

func (g *Game) infoLocked(obj *Object) entities.ObjectInfo {
	return entities.ObjectInfo{
		Name:    obj.Name,
		ID:      obj.id,
		X:       int(obj.Position.X),
		Y:       int(obj.Position.Y),
		Type:    "object",
		Enabled: obj.Enabled,
	}
}

func (g *Game) liveLocked(id int64) (*Object, bool) {
	for _, obj := range g.objects {
		if obj.id == id {
			return obj, true
		}
	}
	return nil, false
}

func matches(obj *Object, selector entities.Selector) bool {
	switch selector.By() {
	case entities.ByName:
		return obj.Name == selector.Value()
	case entities.ByTag:
		return obj.Tag != "" && obj.Tag == selector.Value()
	case entities.ByID:
		return strconv.FormatInt(obj.id, 10) == selector.Value()
	case entities.ByPath:
		path := selector.Value()
		return path == "//"+obj.Name || path == entities.Name(obj.Name).ObjectPath()
	}
	return false
}

var _ interfaces.GameDriver = (*Game)(nil)
