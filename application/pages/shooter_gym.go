package pages

import (
	"context"

	"github.com/sirupsen/logrus"

	"lyra_automation/application/components"
	"lyra_automation/domain/entities"
	"lyra_automation/domain/interfaces"
)

// ShooterGymPage is the shooter gym map with a target bot
type ShooterGymPage struct {
	*Page
}

// NewShooterGymPage - creates the shooter gym page object
func NewShooterGymPage(driver interfaces.GameDriver, logger *logrus.Logger, opts ...Option) (*ShooterGymPage, error) {
	page, err := newPage(driver, logger, entities.SceneShooterGym, opts)
	if err != nil {
		return nil, err
	}
	return &ShooterGymPage{Page: page}, nil
}

// EnemyBot - looks up the target bot
func (p *ShooterGymPage) EnemyBot(ctx context.Context) *components.EnemyBot {
	return components.NewEnemyBot(p.driver, p.find(ctx, "Enemy"))
}
