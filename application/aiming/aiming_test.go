package aiming_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyra_automation/application/aiming"
	"lyra_automation/application/components"
	"lyra_automation/domain/entities"
	"lyra_automation/infrastructure/simulator"
	"lyra_automation/infrastructure/wait"
)

var (
	epoch  = time.Unix(0, 0)
	target = entities.Vector2{X: 100, Y: 200}
)

type fixture struct {
	game  *simulator.Game
	clock *wait.ManualClock
	aimer *aiming.Aimer
}

func newFixture(t *testing.T, health int) *fixture {
	t.Helper()
	clock := wait.NewManualClock(epoch)
	game := simulator.NewLyra(simulator.LyraOptions{EnemyPosition: target, EnemyHealth: health}, simulator.WithClock(clock))
	require.NoError(t, game.EnterScene(entities.SceneShooterGym))
	return &fixture{
		game:  game,
		clock: clock,
		aimer: aiming.NewAimer(game, aiming.WithWaiter(wait.New(wait.WithClock(clock)))),
	}
}

func (f *fixture) enemy(t *testing.T) *components.EnemyBot {
	t.Helper()
	obj, ok := components.TryFindObject(context.Background(), f.game, entities.Name("Enemy"), 0)
	require.True(t, ok)
	return components.NewEnemyBot(f.game, obj)
}

func TestRotateToEnemyMovesEveryPoll(t *testing.T) {
	f := newFixture(t, 0)

	require.NoError(t, f.aimer.RotateToEnemy(context.Background(), f.enemy(t)))

	moves := f.game.MouseMoves()
	expected := int(aiming.DefaultRotateDuration / aiming.DefaultRotatePollInterval)
	if aiming.DefaultRotateDuration%aiming.DefaultRotatePollInterval != 0 {
		expected++
	}
	require.Len(t, moves, expected)
	for i, move := range moves {
		assert.Equal(t, target, move.Position)
		assert.Equal(t, aiming.DefaultRotateMovePerStep, move.Duration)
		assert.Equal(t, epoch.Add(time.Duration(i)*aiming.DefaultRotatePollInterval), move.At)
	}
	assert.Empty(t, f.game.KeyPresses())
}

func TestRotateToEnemyTargetLost(t *testing.T) {
	f := newFixture(t, 0)
	enemy := f.enemy(t)
	f.game.After(400*time.Millisecond, func(g *simulator.Game) {
		g.Despawn("Enemy")
	})

	err := f.aimer.RotateToEnemy(context.Background(), enemy)

	assert.ErrorIs(t, err, aiming.ErrTargetLost)
	assert.Len(t, f.game.MouseMoves(), 5)
}

func TestRotateToEnemyNilIsNoop(t *testing.T) {
	f := newFixture(t, 0)

	require.NoError(t, f.aimer.RotateToEnemy(context.Background(), nil))
	assert.Empty(t, f.game.MouseMoves())
}

func TestRotateToEnemyCancelled(t *testing.T) {
	f := newFixture(t, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := f.aimer.RotateToEnemy(ctx, f.enemy(t))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, f.game.MouseMoves())
}

func TestFocusOnEnemy(t *testing.T) {
	t.Run("moves once", func(t *testing.T) {
		f := newFixture(t, 0)

		require.NoError(t, f.aimer.FocusOnEnemy(context.Background(), f.enemy(t)))

		moves := f.game.MouseMoves()
		require.Len(t, moves, 1)
		assert.Equal(t, target, moves[0].Position)
		assert.Equal(t, aiming.DefaultFocusMoveDuration, moves[0].Duration)
	})

	t.Run("vanished enemy is skipped", func(t *testing.T) {
		f := newFixture(t, 0)
		enemy := f.enemy(t)
		f.game.Despawn("Enemy")

		require.NoError(t, f.aimer.FocusOnEnemy(context.Background(), enemy))
		assert.Empty(t, f.game.MouseMoves())
	})

	t.Run("nil enemy", func(t *testing.T) {
		f := newFixture(t, 0)

		assert.ErrorIs(t, f.aimer.FocusOnEnemy(context.Background(), nil), aiming.ErrPrecondition)
	})
}

func TestFirePreconditions(t *testing.T) {
	f := newFixture(t, 0)

	err := f.aimer.Fire(context.Background(), nil)
	assert.ErrorIs(t, err, aiming.ErrPrecondition)
	assert.Empty(t, f.game.MouseMoves())
	assert.Empty(t, f.game.KeyPresses())

	err = aiming.NewAimer(nil).Fire(context.Background(), f.enemy(t))
	assert.ErrorIs(t, err, aiming.ErrPrecondition)
	assert.Empty(t, f.game.MouseMoves())
	assert.Empty(t, f.game.KeyPresses())
}

func TestFireHitsEnemy(t *testing.T) {
	f := newFixture(t, 1)
	enemy := f.enemy(t)

	require.NoError(t, f.aimer.Fire(context.Background(), enemy))

	presses := f.game.KeyPresses()
	require.Len(t, presses, 1)
	assert.Equal(t, aiming.DefaultFireKey, presses[0].Key)
	assert.Equal(t, aiming.DefaultFirePressDuration, presses[0].Duration)
	assert.Equal(t, target, presses[0].Cursor)

	moves := f.game.MouseMoves()
	assert.Equal(t, aiming.DefaultFocusMoveDuration, moves[len(moves)-1].Duration)

	_, visible, err := enemy.ScreenPosition(context.Background())
	require.NoError(t, err)
	assert.False(t, visible)
}

func TestCustomSettings(t *testing.T) {
	f := newFixture(t, 0)
	settings := aiming.DefaultSettings()
	settings.RotateDuration = 200 * time.Millisecond
	settings.RotatePollInterval = 100 * time.Millisecond
	settings.FireKey = entities.KeySpace
	aimer := aiming.NewAimer(f.game, aiming.WithWaiter(wait.New(wait.WithClock(f.clock))), aiming.WithSettings(settings))

	require.NoError(t, aimer.Fire(context.Background(), f.enemy(t)))

	assert.Len(t, f.game.MouseMoves(), 3)
	assert.Equal(t, entities.KeySpace, f.game.KeyPresses()[0].Key)
	assert.Equal(t, settings, aimer.Settings())
}
