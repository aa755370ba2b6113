package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/stagesen/senior-living-colorado-sub000/internal/domain/entities"
)

// SyncTrigger starts an ingestion run over the given locations.
type SyncTrigger interface {
	Trigger(ctx context.Context, locations []string) (*entities.SyncRun, error)
}

// Scheduler starts periodic ingestion runs from a cron expression. An empty
// expression disables scheduling entirely.
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	locations []string
	trigger   SyncTrigger
}

// New creates a scheduler.
func New(schedule string, locations []string, trigger SyncTrigger) *Scheduler {
	return &Scheduler{
		cron:      cron.New(),
		schedule:  schedule,
		locations: locations,
		trigger:   trigger,
	}
}

// Start registers the cron entry and starts the timer goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.schedule == "" {
		log.Info().Msg("No sync schedule configured, ingestion runs on demand only")
		return nil
	}

	log.Info().Str("cron", s.schedule).Strs("locations", s.locations).Msg("Starting sync scheduler")
	_, err := s.cron.AddFunc(s.schedule, func() {
		run, err := s.trigger.Trigger(ctx, s.locations)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled sync failed to start")
			return
		}
		log.Info().Str("run_id", run.ID).Msg("Scheduled sync started")
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", s.schedule, err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the timer. Entries already running are not interrupted.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
