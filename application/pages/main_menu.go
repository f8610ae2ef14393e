package pages

import (
	"context"

	"github.com/sirupsen/logrus"

	"lyra_automation/application/components"
	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

// MainMenuPage is the Lyra front end
type MainMenuPage struct {
	*Page
}

// NewMainMenuPage - creates the main menu page object
func NewMainMenuPage(driver interfaces.GameDriver, logger *logrus.Logger, opts ...Option) (*MainMenuPage, error) {
	page, err := newPage(driver, logger, entities.SceneFrontEnd, opts)
	if err != nil {
		return nil, err
	}
	return &MainMenuPage{Page: page}, nil
}

func (p *MainMenuPage) button(ctx context.Context, name string) *components.Button {
	return components.NewButton(p.driver, p.find(ctx, name))
}

func (p *MainMenuPage) experienceButton(ctx context.Context, name string) *components.ExperienceSelectionButton {
	return components.NewExperienceSelectionButton(p.driver, p.find(ctx, name))
}

func (p *MainMenuPage) PlayButton(ctx context.Context) *components.Button {
	return p.button(ctx, "StartGameButton")
}

func (p *MainMenuPage) OptionsButton(ctx context.Context) *components.Button {
	return p.button(ctx, "OptionsButton")
}

func (p *MainMenuPage) CreditsButton(ctx context.Context) *components.Button {
	return p.button(ctx, "CreditsButton")
}

func (p *MainMenuPage) ShowReplayButton(ctx context.Context) *components.Button {
	return p.button(ctx, "ReplaysButton")
}

func (p *MainMenuPage) QuitButton(ctx context.Context) *components.Button {
	return p.button(ctx, "QuitGameButton")
}

func (p *MainMenuPage) BrowseExperienceButton(ctx context.Context) *components.ExperienceSelectionButton {
	return p.experienceButton(ctx, "BrowseButton")
}

func (p *MainMenuPage) StartGameExperienceButton(ctx context.Context) *components.ExperienceSelectionButton {
	return p.experienceButton(ctx, "HostButton")
}

func (p *MainMenuPage) QuickPlayExperienceButton(ctx context.Context) *components.ExperienceSelectionButton {
	return p.experienceButton(ctx, "QuickplayButton")
}
