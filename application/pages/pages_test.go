package pages_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lyra_automation/application/pages"
	"lyra_automation/domain/entities"
	"lyra_automation/infrastructure/simulator"
	"lyra_automation/infrastructure/wait"
)

type fixture struct {
	game   *simulator.Game
	clock  *wait.ManualClock
	waiter *wait.Waiter
	logger *logrus.Logger
	hook   *test.Hook
}

func newFixture(loadDelay time.Duration) *fixture {
	clock := wait.NewManualClock(time.Unix(0, 0))
	logger, hook := test.NewNullLogger()
	return &fixture{
		game:   simulator.NewLyra(simulator.LyraOptions{}, simulator.WithClock(clock), simulator.WithLoadDelay(loadDelay)),
		clock:  clock,
		waiter: wait.New(wait.WithClock(clock), wait.WithLogger(logger)),
		logger: logger,
		hook:   hook,
	}
}

func (f *fixture) elapsed() time.Duration {
	return f.clock.Now().Sub(time.Unix(0, 0))
}

func TestNewPageRequiresCollaborators(t *testing.T) {
	f := newFixture(0)

	_, err := pages.NewMainMenuPage(nil, f.logger)
	assert.ErrorIs(t, err, pages.ErrNilDriver)

	_, err = pages.NewShooterGymPage(f.game, nil)
	assert.ErrorIs(t, err, pages.ErrNilLogger)
}

func TestNavigateToMainMenu(t *testing.T) {
	ctx := context.Background()
	f := newFixture(time.Second)
	require.NoError(t, f.game.EnterScene(entities.SceneShooterGym))

	menu, err := pages.NewMainMenuPage(f.game, f.logger, pages.WithWaiter(f.waiter))
	require.NoError(t, err)
	assert.Equal(t, entities.PageStateUnknown, menu.State())

	require.NoError(t, menu.NavigateTo(ctx))

	assert.Equal(t, entities.PageStateOpened, menu.State())
	assert.Equal(t, time.Second, f.elapsed())
	assert.Equal(t, "Loading page 'L_LyraFrontEnd' finished", f.hook.LastEntry().Message)
	assert.Equal(t, entities.SceneFrontEnd, f.hook.LastEntry().Data["scene"])
}

func TestNavigateToTimesOut(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2 * time.Minute)

	gym, err := pages.NewShooterGymPage(f.game, f.logger, pages.WithWaiter(f.waiter))
	require.NoError(t, err)

	err = gym.NavigateTo(ctx)

	assert.ErrorIs(t, err, pages.ErrNavigation)
	assert.Equal(t, entities.PageStateNotOpened, gym.State())
	assert.Equal(t, wait.DefaultTimeout, f.elapsed())
	assert.Equal(t, logrus.ErrorLevel, f.hook.LastEntry().Level)
}

func TestNavigateToCustomTimeout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2 * time.Second)

	gym, err := pages.NewShooterGymPage(f.game, f.logger, pages.WithWaiter(f.waiter), pages.WithNavigationTimeout(time.Second))
	require.NoError(t, err)

	assert.ErrorIs(t, gym.NavigateTo(ctx), pages.ErrNavigation)
	assert.Equal(t, time.Second, f.elapsed())
}

func TestNavigationTimeoutHasFloor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(2 * time.Second)

	gym, err := pages.NewShooterGymPage(f.game, f.logger, pages.WithWaiter(f.waiter), pages.WithNavigationTimeout(0))
	require.NoError(t, err)

	assert.ErrorIs(t, gym.NavigateTo(ctx), pages.ErrNavigation)
	assert.Equal(t, pages.MinimumWaitTimeout, f.elapsed())
}

func TestNavigateToClosedDriver(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)
	require.NoError(t, f.game.Close())

	gym, err := pages.NewShooterGymPage(f.game, f.logger, pages.WithWaiter(f.waiter))
	require.NoError(t, err)

	err = gym.NavigateTo(ctx)
	assert.ErrorIs(t, err, pages.ErrNavigation)
	assert.ErrorIs(t, err, simulator.ErrClosed)
}

func TestIsPageOpened(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)

	menu, err := pages.NewMainMenuPage(f.game, f.logger, pages.WithWaiter(f.waiter))
	require.NoError(t, err)
	gym, err := pages.NewShooterGymPage(f.game, f.logger, pages.WithWaiter(f.waiter))
	require.NoError(t, err)

	assert.True(t, menu.IsPageOpened(ctx, true))
	assert.Equal(t, entities.PageStateOpened, menu.State())
	assert.Equal(t, time.Duration(0), f.elapsed())

	assert.True(t, gym.IsPageOpened(ctx, false), "gym is expected to be closed")

	assert.False(t, gym.IsPageOpened(ctx, true))
	assert.Equal(t, entities.PageStateNotOpened, gym.State())
	assert.Equal(t, pages.ExplicitWaitTimeout, f.elapsed())
}

func TestMainMenuButtons(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)

	menu, err := pages.NewMainMenuPage(f.game, f.logger, pages.WithWaiter(f.waiter))
	require.NoError(t, err)
	require.NoError(t, menu.NavigateTo(ctx))

	play := menu.PlayButton(ctx)
	for _, displayed := range []bool{
		play.Displayed(),
		menu.OptionsButton(ctx).Displayed(),
		menu.CreditsButton(ctx).Displayed(),
		menu.ShowReplayButton(ctx).Displayed(),
		menu.QuitButton(ctx).Displayed(),
	} {
		assert.True(t, displayed)
	}
	assert.False(t, menu.BrowseExperienceButton(ctx).Displayed())

	require.NoError(t, play.Click(ctx))

	assert.True(t, menu.StartGameExperienceButton(ctx).Enabled())
	assert.True(t, menu.QuickPlayExperienceButton(ctx).Displayed())
	assert.False(t, menu.PlayButton(ctx).Displayed())
}

func TestShooterGymEnemyBot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(0)

	gym, err := pages.NewShooterGymPage(f.game, f.logger, pages.WithWaiter(f.waiter))
	require.NoError(t, err)
	assert.False(t, gym.EnemyBot(ctx).Displayed(), "no bot before navigation")

	require.NoError(t, gym.NavigateTo(ctx))
	assert.True(t, gym.EnemyBot(ctx).Displayed())
	assert.Equal(t, entities.SceneShooterGym, gym.Scene())
}
