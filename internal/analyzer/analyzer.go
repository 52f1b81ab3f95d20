// Package analyzer drives the game-analysis pipeline: scan a date range,
// fetch scoreboard events, dedupe against storage, rate each completed
// game, and upsert the result.
package analyzer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"spoilerfree/ingestion/internal/feed"
	"spoilerfree/ingestion/internal/metrics"
	"spoilerfree/ingestion/internal/models"
	"spoilerfree/ingestion/internal/rater"
	"spoilerfree/ingestion/internal/scoring"
)

// Feed fetches normalized scoreboard events for one sport and day.
// Implementations absorb feed failures and return an empty list.
type Feed interface {
	FetchGames(ctx context.Context, sport, leagueKey string, date time.Time) []models.RawEvent
}

// Rater produces the adjusted rating for one game; it never fails
type Rater interface {
	Rate(ctx context.Context, game rater.GameContext, m scoring.Metrics) *models.GameAnalysis
}

// GameStore is the persistence the pipeline depends on
type GameStore interface {
	FindByIdentity(ctx context.Context, sport, homeTeam, awayTeam string, gameDate time.Time) (*models.Game, error)
	Upsert(ctx context.Context, game *models.Game) error
	LatestAnalyzedGameDate(ctx context.Context) (time.Time, bool, error)
}

// Config controls the scan window and pacing of one pipeline run
type Config struct {
	// Sports scanned each run; "soccer" is expanded per SoccerLeagues entry
	Sports        []string
	SoccerLeagues []string

	// WindowDays is the trailing window scanned when incremental mode is
	// off or nothing has been analyzed yet
	WindowDays int

	// Incremental scans from the day after the latest analyzed game date
	Incremental bool

	// RatingCallDelay is slept after each successful rating to respect
	// the rating service's rate limits
	RatingCallDelay time.Duration
}

// Summary reports the outcome of one pipeline run
type Summary struct {
	AnalyzedCount int `json:"analyzedCount"`
	TotalGames    int `json:"totalGames"`
}

// Analyzer is the pipeline orchestrator
type Analyzer struct {
	feed  Feed
	rater Rater
	store GameStore
	cfg   Config

	now func() time.Time
}

// New creates an analyzer with explicitly injected collaborators
func New(feed Feed, rater Rater, store GameStore, cfg Config) *Analyzer {
	return &Analyzer{
		feed:  feed,
		rater: rater,
		store: store,
		cfg:   cfg,
		now:   time.Now,
	}
}

// Run executes one full pipeline pass. Per-game failures are logged and
// skipped; only a store failure while resolving the scan range aborts the
// run. Re-running over the same feed data analyzes nothing new.
func (a *Analyzer) Run(ctx context.Context) (Summary, error) {
	start := a.now()

	dates, err := a.scanDates(ctx)
	if err != nil {
		metrics.RecordAnalysisRun("error", time.Since(start).Seconds())
		return Summary{}, err
	}

	log.Info().
		Time("from", dates[0]).
		Time("to", dates[len(dates)-1]).
		Strs("sports", a.cfg.Sports).
		Msg("Starting analysis run")

	events := a.fetchAll(ctx, dates)
	summary := Summary{TotalGames: len(events)}

	log.Info().Int("count", len(events)).Msg("Scoreboard events fetched")

	for i := range events {
		if ctx.Err() != nil {
			metrics.RecordAnalysisRun("cancelled", time.Since(start).Seconds())
			return summary, ctx.Err()
		}

		event := &events[i]
		analyzed, err := a.processEvent(ctx, event)
		if err != nil {
			// Per-game failures never abort the loop
			log.Error().
				Err(err).
				Str("sport", event.Sport).
				Str("home", event.HomeTeam).
				Str("away", event.AwayTeam).
				Msg("Failed to analyze game, continuing")
			metrics.RecordError("analyzer", "game_failed")
			continue
		}

		if analyzed {
			summary.AnalyzedCount++
			metrics.RecordGameAnalyzed()

			// Pace rating calls; the loop is deliberately sequential
			if a.cfg.RatingCallDelay > 0 {
				select {
				case <-ctx.Done():
					metrics.RecordAnalysisRun("cancelled", time.Since(start).Seconds())
					return summary, ctx.Err()
				case <-time.After(a.cfg.RatingCallDelay):
				}
			}
		}
	}

	log.Info().
		Int("analyzed", summary.AnalyzedCount).
		Int("total", summary.TotalGames).
		Dur("duration", time.Since(start)).
		Msg("Analysis run complete")
	metrics.RecordAnalysisRun("success", time.Since(start).Seconds())

	return summary, nil
}

// scanDates resolves the calendar days to scan. Incremental mode resumes
// from the day after the latest analyzed game; otherwise (or when storage
// is empty) a trailing window ending today is used. A store error here is
// a top-level failure: without it the dedupe guarantee is gone.
func (a *Analyzer) scanDates(ctx context.Context) ([]time.Time, error) {
	today := a.now().UTC().Truncate(24 * time.Hour)
	from := today.AddDate(0, 0, -(a.cfg.WindowDays - 1))

	if a.cfg.Incremental {
		latest, ok, err := a.store.LatestAnalyzedGameDate(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve incremental scan start: %w", err)
		}
		if ok {
			from = latest.UTC().Truncate(24 * time.Hour).AddDate(0, 0, 1)
			if from.After(today) {
				// Latest analyzed game is from today; re-scan today for
				// later games on the same day
				from = today
			}
		}
	}

	var dates []time.Time
	for d := from; !d.After(today); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates, nil
}

// fetchJob is one sport/date scoreboard request
type fetchJob struct {
	sport     string
	leagueKey string
	date      time.Time
}

// fetchAll issues every sport x date scoreboard fetch concurrently and
// merges the results. Fetches are read-only and independent, so ordering
// between them does not matter; the per-game analysis that follows stays
// sequential.
func (a *Analyzer) fetchAll(ctx context.Context, dates []time.Time) []models.RawEvent {
	var jobs []fetchJob
	for _, date := range dates {
		for _, sport := range a.cfg.Sports {
			if sport == feed.SportSoccer {
				for _, league := range a.cfg.SoccerLeagues {
					jobs = append(jobs, fetchJob{sport: sport, leagueKey: league, date: date})
				}
				continue
			}
			jobs = append(jobs, fetchJob{sport: sport, date: date})
		}
	}

	var (
		mu     sync.Mutex
		events []models.RawEvent
		wg     sync.WaitGroup
	)
	for _, job := range jobs {
		wg.Add(1)
		go func(job fetchJob) {
			defer wg.Done()
			fetched := a.feed.FetchGames(ctx, job.sport, job.leagueKey, job.date)
			if len(fetched) == 0 {
				return
			}
			mu.Lock()
			events = append(events, fetched...)
			mu.Unlock()
		}(job)
	}
	wg.Wait()

	return events
}

// processEvent analyzes one scoreboard event. Returns true when a rating
// was produced and stored; false when the event was skipped (not finished,
// or already analyzed).
func (a *Analyzer) processEvent(ctx context.Context, event *models.RawEvent) (bool, error) {
	if !event.IsCompleted() {
		log.Debug().
			Str("home", event.HomeTeam).
			Str("away", event.AwayTeam).
			Str("status", event.Status).
			Msg("Skipping unfinished game")
		return false, nil
	}

	existing, err := a.store.FindByIdentity(ctx, event.Sport, event.HomeTeam, event.AwayTeam, event.GameDate)
	if err != nil {
		return false, fmt.Errorf("failed to look up existing record: %w", err)
	}
	if existing != nil && existing.IsAnalyzed() {
		// Idempotence: never re-rate, never re-charge the rating service
		log.Debug().
			Str("id", existing.ID).
			Msg("Skipping already analyzed game")
		return false, nil
	}

	log.Info().
		Str("sport", event.Sport).
		Str("home", event.HomeTeam).
		Str("away", event.AwayTeam).
		Msg("Analyzing game")

	m := scoring.Compute(event)
	analysis := a.rater.Rate(ctx, rater.GameContext{
		Sport:     event.Sport,
		HomeTeam:  event.HomeTeam,
		AwayTeam:  event.AwayTeam,
		HomeScore: event.HomeScore,
		AwayScore: event.AwayScore,
		Period:    event.Period,
		Status:    event.Status,
	}, m)

	game := models.NewAnalyzedGame(event, analysis)
	if err := a.store.Upsert(ctx, game); err != nil {
		return false, fmt.Errorf("failed to store analyzed game: %w", err)
	}

	log.Info().
		Str("id", game.ID).
		Int("quality_score", analysis.QualityScore).
		Str("excitement", string(analysis.Excitement)).
		Msg("Game analyzed")

	return true, nil
}
