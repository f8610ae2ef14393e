package components

import (
	"context"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

// EnemyBot is a gameplay actor that can be aimed at
type EnemyBot struct {
	Component
}

// NewEnemyBot - creates an enemy bot component
func NewEnemyBot(driver interfaces.GameDriver, object interfaces.GameObject) *EnemyBot {
	return &EnemyBot{Component: New(driver, object)}
}

// ScreenPosition - returns the bot's current screen position.
// The bool is false when the bot is not displayed or has left the scene.
func (e *EnemyBot) ScreenPosition(ctx context.Context) (entities.Vector2, bool, error) {
	object, ok := e.Object()
	if !ok {
		return entities.Vector2{}, false, nil
	}
	return object.ScreenPosition(ctx)
}
