package session

import (
	"fmt"

	"fantamatto_bot/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const DefaultSweepSchedule = "@every 1m"

// StartSweeper schedules Sweep on the given cron spec. The caller stops the
// returned cron on shutdown.
func (s *Store) StartSweeper(schedule string) (*cron.Cron, error) {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	c := cron.New()
	_, err := c.AddFunc(schedule, func() {
		if n := s.Sweep(); n > 0 {
			logger.Logger().Debug("expired conversation states dropped", zap.Int("count", n))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule session sweeper: %w", err)
	}

	c.Start()

	return c, nil
}
