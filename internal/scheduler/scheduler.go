// Package scheduler runs periodic backend maintenance.
package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/soluna-app/soluna/internal/store"
)

// stalePruneAge is how long an incomplete backend session row may linger
// before the nightly sweep removes it.
const stalePruneAge = 48 * time.Hour

// Scheduler manages cron jobs for store maintenance.
type Scheduler struct {
	cron  *cron.Cron
	store store.Store
}

// New creates a scheduler with the nightly maintenance job registered.
func New(db store.Store) *Scheduler {
	s := &Scheduler{
		cron:  cron.New(),
		store: db,
	}
	s.scheduleNightly()
	return s
}

// Start starts the scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// scheduleNightly registers the 3 AM maintenance sweep.
func (s *Scheduler) scheduleNightly() {
	_, err := s.cron.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		pruned, err := s.store.PruneStaleSessions(ctx, time.Now().Add(-stalePruneAge))
		if err != nil {
			log.Error().Err(err).Msg("stale session prune failed")
		} else if pruned > 0 {
			log.Info().Int64("pruned", pruned).Msg("pruned stale sessions")
		}

		if err := s.store.Maintain(ctx); err != nil {
			log.Error().Err(err).Msg("store maintenance failed")
		}
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to register nightly maintenance job")
	}
}
