package simulator

import (
	"context"
	"fmt"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

// object is a handle to a simulated object captured at lookup time
type object struct {
	game *Game
	id   int64
	info entities.ObjectInfo
}

func (o *object) Info() entities.ObjectInfo {
	return o.info
}

func (o *object) Enabled() bool {
	return o.info.Enabled
}

func (o *object) GetText(ctx context.Context) (string, error) {
	if err := o.game.tick(); err != nil {
		return "", err
	}
	o.game.mu.Lock()
	defer o.game.mu.Unlock()
	live, ok := o.game.liveLocked(o.id)
	if !ok {
		return "", fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, o.info.Name)
	}
	return live.Text, nil
}

func (o *object) Click(ctx context.Context) error {
	if err := o.game.tick(); err != nil {
		return err
	}
	o.game.mu.Lock()
	live, ok := o.game.liveLocked(o.id)
	var onClick func(g *Game)
	if ok {
		onClick = live.OnClick
	}
	o.game.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", interfaces.ErrObjectNotFound, o.info.Name)
	}
	if onClick != nil {
		onClick(o.game)
	}
	return nil
}

func (o *object) ScreenPosition(ctx context.Context) (entities.Vector2, bool, error) {
	if err := o.game.tick(); err != nil {
		return entities.Vector2{}, false, err
	}
	o.game.mu.Lock()
	defer o.game.mu.Unlock()
	live, ok := o.game.liveLocked(o.id)
	if !ok {
		return entities.Vector2{}, false, nil
	}
	return live.Position, true, nil
}

var _ interfaces.GameObject = (*object)(nil)
