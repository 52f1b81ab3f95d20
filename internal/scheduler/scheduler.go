package scheduler

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"spoilerfree/ingestion/internal/analyzer"
)

// Runner executes one analysis pipeline run
type Runner interface {
	Run(ctx context.Context) (analyzer.Summary, error)
}

// Scheduler triggers analysis runs on a cron schedule. Completed games
// only need to be picked up once a day, so a single cron entry replaces
// the per-minute polling a live-score service would use.
type Scheduler struct {
	runner   Runner
	cronSpec string
	cron     *cron.Cron
}

// New creates a new scheduler instance
func New(runner Runner, cronSpec string) *Scheduler {
	return &Scheduler{
		runner:   runner,
		cronSpec: cronSpec,
		cron:     cron.New(),
	}
}

// Start registers the analysis job and starts the cron loop
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cronSpec, func() {
		log.Info().Msg("Running scheduled analysis...")
		summary, err := s.runner.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Scheduled analysis failed")
			return
		}
		log.Info().
			Int("analyzed", summary.AnalyzedCount).
			Int("total", summary.TotalGames).
			Msg("Scheduled analysis complete")
	}); err != nil {
		return fmt.Errorf("failed to schedule analysis run: %w", err)
	}

	s.cron.Start()
	log.Info().
		Str("schedule", s.cronSpec).
		Msg("Analysis schedule registered")

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
	log.Info().Msg("Scheduler stopped")
}
