package components

import (
	"context"
	"fmt"

	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

const (
	buttonLabelName       = "ButtonTextBlock"
	buttonDescriptionName = "ButtonDescriptionTextBlock"
)

// Text is a component exposing readable text
type Text struct {
	Component
}

// NewText - creates a text component
func NewText(driver interfaces.GameDriver, object interfaces.GameObject) *Text {
	return &Text{Component: New(driver, object)}
}

// GetText - reads the text of the backing object
func (t *Text) GetText(ctx context.Context) (string, error) {
	if !t.Displayed() {
		return "", ErrNotDisplayed
	}
	text, err := t.object.GetText(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get text of %s: %w", t.object.Info().Name, err)
	}
	return text, nil
}

// Button is a clickable component with a label
type Button struct {
	Component
}

// NewButton - creates a button component
func NewButton(driver interfaces.GameDriver, object interfaces.GameObject) *Button {
	return &Button{Component: New(driver, object)}
}

// Label - looks up the button's label text block
func (b *Button) Label(ctx context.Context) *Text {
	return &Text{Component: b.find(ctx, entities.Name(buttonLabelName))}
}

// Click - clicks the button
func (b *Button) Click(ctx context.Context) error {
	if !b.Displayed() {
		return ErrNotDisplayed
	}
	if err := b.object.Click(ctx); err != nil {
		return fmt.Errorf("failed to click %s: %w", b.object.Info().Name, err)
	}
	return nil
}

// ExperienceSelectionButton is a button on the experience selection screen
type ExperienceSelectionButton struct {
	Button
}

// NewExperienceSelectionButton - creates an experience selection button
func NewExperienceSelectionButton(driver interfaces.GameDriver, object interfaces.GameObject) *ExperienceSelectionButton {
	return &ExperienceSelectionButton{Button: Button{Component: New(driver, object)}}
}

// DescriptionText - looks up the button's description text block
func (b *ExperienceSelectionButton) DescriptionText(ctx context.Context) *Text {
	return &Text{Component: b.find(ctx, entities.Name(buttonDescriptionName))}
}
