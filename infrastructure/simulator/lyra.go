package simulator

import (
	"math"

	"lyra_automation/domain/entities"
)

// Defaults of the simulated Lyra maps
const (
	DefaultEnemyHealth = 3
	DefaultHitRadius   = 40.0
)

// DefaultEnemyPosition is where the shooter gym bot stands on screen
var DefaultEnemyPosition = entities.Vector2{X: 960, Y: 540}

var menuButtons = []struct{ name, label string }{
	{"StartGameButton", "Play Lyra"},
	{"OptionsButton", "Options"},
	{"CreditsButton", "Credits"},
	{"ReplaysButton", "Replays"},
	{"QuitGameButton", "Quit"},
}

var experienceButtons = []struct{ name, label, description string }{
	{"BrowseButton", "Browse", "Find an existing session"},
	{"HostButton", "Start Game", "Host a new session"},
	{"QuickplayButton", "Quick Play", "Join the first open session"},
}

// LyraOptions tunes the simulated Lyra maps
type LyraOptions struct {
	EnemyHealth   int
	EnemyPosition entities.Vector2
	HitRadius     float64
}

// NewLyra - creates a simulator with the Lyra front end and shooter gym
// registered, starting in the front end
func NewLyra(lyra LyraOptions, opts ...Option) *Game {
	if lyra.EnemyHealth <= 0 {
		lyra.EnemyHealth = DefaultEnemyHealth
	}
	if lyra.EnemyPosition == (entities.Vector2{}) {
		lyra.EnemyPosition = DefaultEnemyPosition
	}
	if lyra.HitRadius <= 0 {
		lyra.HitRadius = DefaultHitRadius
	}

	g := New(opts...)
	g.AddScene(entities.SceneFrontEnd, setupFrontEnd)
	g.AddScene(entities.SceneShooterGym, func(g *Game) {
		setupShooterGym(g, lyra)
	})
	_ = g.EnterScene(entities.SceneFrontEnd)
	return g
}

func setupFrontEnd(g *Game) {
	for _, b := range menuButtons {
		obj := Object{Name: b.name, Text: b.label, Enabled: true}
		if b.name == "StartGameButton" {
			obj.OnClick = showExperienceSelection
		}
		g.Spawn(obj)
	}
	g.Spawn(Object{Name: "ButtonTextBlock", Text: menuButtons[0].label, Enabled: true})
}

func showExperienceSelection(g *Game) {
	for _, b := range menuButtons {
		g.Despawn(b.name)
	}
	g.Despawn("ButtonTextBlock")
	for _, b := range experienceButtons {
		g.Spawn(Object{Name: b.name, Text: b.label, Enabled: true})
	}
	g.Spawn(Object{Name: "ButtonTextBlock", Text: experienceButtons[0].label, Enabled: true})
	g.Spawn(Object{Name: "ButtonDescriptionTextBlock", Text: experienceButtons[0].description, Enabled: true})
}

func setupShooterGym(g *Game, lyra LyraOptions) {
	g.Spawn(Object{Name: "Enemy", Tag: "Bot", Enabled: true, Position: lyra.EnemyPosition})

	hits := 0
	g.OnKeyPress(func(g *Game, press KeyPress) {
		if press.Key != entities.KeyMouse0 {
			return
		}
		enemy, ok := g.Lookup("Enemy")
		if !ok {
			return
		}
		if distance(press.Cursor, enemy.Position) > lyra.HitRadius {
			return
		}
		hits++
		if hits >= lyra.EnemyHealth {
			g.Despawn("Enemy")
		}
	})
}

func distance(a, b entities.Vector2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
