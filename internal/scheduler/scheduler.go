package scheduler

import (
	"context"

	"wingmate/internal/logger"
	"wingmate/internal/service"

	"github.com/robfig/cron/v3"
)

// Runs the nightly expiry sweep well before morning traffic.
const expiryCronSpec = "0 3 * * *"

// Scheduler owns the recurring background jobs.
type Scheduler struct {
	cron   *cron.Cron
	expiry *service.ExpiryService
}

func NewScheduler(expiry *service.ExpiryService) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		expiry: expiry,
	}
}

// Start registers the expiry job and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(expiryCronSpec, func() {
		if err := s.expiry.Run(context.Background()); err != nil {
			logger.Error().Err(err).Msg("scheduled expiry sweep failed")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Str("cron", expiryCronSpec).Msg("scheduler started")
	return nil
}

// Stop halts the cron loop. Running jobs finish on their own.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	logger.Info().Msg("scheduler stopped")
}

// RunExpiryNow triggers the expiry sweep outside its schedule.
func (s *Scheduler) RunExpiryNow() error {
	return s.expiry.Run(context.Background())
}
