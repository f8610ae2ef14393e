package scenario

import (
	"context"
	"errors"
	"fmt"

	"lyra_automation/application/components"
	"lyra_automation/application/pages"
)

// Names of the built-in scenarios
const (
	StartGame = "start-game"
	AimShoot  = "aim-shoot"
)

var errEnemyAlive = errors.New("enemy bot is still displayed")

// Builtin - returns the scenarios every runner starts with
func Builtin() []Scenario {
	return []Scenario{
		{
			Name:        StartGame,
			Description: "Main menu shows its buttons; Play swaps them for the experience selection",
			Run:         runStartGame,
		},
		{
			Name:        AimShoot,
			Description: "Shooter gym bot can be aimed at, shot and confirmed killed",
			Run:         runAimShoot,
		},
	}
}

type widget interface {
	Displayed() bool
	Enabled() bool
}

type namedWidget struct {
	name string
	get  func(ctx context.Context) widget
}

func menuWidgets(menu *pages.MainMenuPage) []namedWidget {
	return []namedWidget{
		{"Play", func(ctx context.Context) widget { return menu.PlayButton(ctx) }},
		{"Options", func(ctx context.Context) widget { return menu.OptionsButton(ctx) }},
		{"Credits", func(ctx context.Context) widget { return menu.CreditsButton(ctx) }},
		{"Show replay", func(ctx context.Context) widget { return menu.ShowReplayButton(ctx) }},
		{"Quit", func(ctx context.Context) widget { return menu.QuitButton(ctx) }},
	}
}

func experienceWidgets(menu *pages.MainMenuPage) []namedWidget {
	return []namedWidget{
		{"Browse experience", func(ctx context.Context) widget { return menu.BrowseExperienceButton(ctx) }},
		{"Start game experience", func(ctx context.Context) widget { return menu.StartGameExperienceButton(ctx) }},
		{"Quick play experience", func(ctx context.Context) widget { return menu.QuickPlayExperienceButton(ctx) }},
	}
}

func expectPresentAndEnabled(ctx context.Context, widgets []namedWidget) error {
	for _, w := range widgets {
		got := w.get(ctx)
		if !got.Displayed() {
			return fmt.Errorf("%w: %s button should be present but it is not", ErrAssertion, w.name)
		}
		if !got.Enabled() {
			return fmt.Errorf("%w: %s button should be enabled but it is not", ErrAssertion, w.name)
		}
	}
	return nil
}

func expectAbsent(ctx context.Context, widgets []namedWidget) error {
	for _, w := range widgets {
		if w.get(ctx).Displayed() {
			return fmt.Errorf("%w: %s button should not be present but it is", ErrAssertion, w.name)
		}
	}
	return nil
}

func runStartGame(ctx context.Context, env *Env) error {
	menu, err := pages.NewMainMenuPage(env.Driver, env.Logger, pages.WithWaiter(env.Waiter))
	if err != nil {
		return err
	}
	if err := menu.NavigateTo(ctx); err != nil {
		return err
	}

	if err := expectPresentAndEnabled(ctx, menuWidgets(menu)); err != nil {
		return err
	}
	if err := expectAbsent(ctx, experienceWidgets(menu)); err != nil {
		return err
	}

	if err := menu.PlayButton(ctx).Click(ctx); err != nil {
		return err
	}

	opened, err := env.Waiter.Until(func() (bool, error) {
		fresh, err := pages.NewMainMenuPage(env.Driver, env.Logger, pages.WithWaiter(env.Waiter))
		if err != nil {
			return false, err
		}
		menu = fresh
		return menu.IsPageOpened(ctx, true), nil
	})
	if err != nil {
		return err
	}
	if !opened {
		return fmt.Errorf("%w: main menu page should be opened but it is not", ErrAssertion)
	}

	if err := expectPresentAndEnabled(ctx, experienceWidgets(menu)); err != nil {
		return err
	}
	return expectAbsent(ctx, menuWidgets(menu))
}

func runAimShoot(ctx context.Context, env *Env) error {
	gym, err := pages.NewShooterGymPage(env.Driver, env.Logger, pages.WithWaiter(env.Waiter))
	if err != nil {
		return err
	}
	if err := gym.NavigateTo(ctx); err != nil {
		return err
	}

	if !gym.EnemyBot(ctx).Displayed() {
		return fmt.Errorf("%w: enemy bot should be present in the level so we can shoot at it", ErrAssertion)
	}

	shots := 0
	err = env.Waiter.Do(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := env.Aimer.Fire(ctx, gym.EnemyBot(ctx)); err != nil {
			return err
		}
		shots++
		if gym.EnemyBot(ctx).Displayed() {
			return errEnemyAlive
		}
		return nil
	})
	env.Logger.WithField("shots", shots).Info("Stopped firing at enemy")
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil && !errors.Is(err, errEnemyAlive) {
		return err
	}

	if enemy := gym.EnemyBot(ctx); enemy.Displayed() {
		return fmt.Errorf("%w: shooting should result in a confirmed kill", ErrAssertion)
	}
	return nil
}

var _ widget = (*components.Button)(nil)
