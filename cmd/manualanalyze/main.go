// Command manualanalyze runs one analysis pass from the terminal: fetch
// recent completed games, rate the new ones, and store the results. Useful
// for backfilling after downtime or verifying a deploy without waiting for
// the schedule.
package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"spoilerfree/ingestion/internal/analyzer"
	"spoilerfree/ingestion/internal/config"
	"spoilerfree/ingestion/internal/feed"
	"spoilerfree/ingestion/internal/rater"
	"spoilerfree/ingestion/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Validate database connectivity before spending rating calls
	log.Info().Msg("Validating service health...")
	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	feedClient := feed.NewClient(cfg.ESPNBaseURL, cfg.ESPNTimeout)
	raterClient := rater.NewClient(
		cfg.DeepSeekBaseURL,
		cfg.DeepSeekAPIKey,
		cfg.DeepSeekModel,
		cfg.DeepSeekTemperature,
		cfg.DeepSeekTimeout,
	)
	raterService := rater.NewService(raterClient, cfg.RatingSource)

	pipeline := analyzer.New(feedClient, raterService, db.Games, analyzer.Config{
		Sports:          cfg.Sports,
		SoccerLeagues:   cfg.SoccerLeagues,
		WindowDays:      cfg.WindowDays,
		Incremental:     cfg.IncrementalEnabled,
		RatingCallDelay: cfg.RatingCallDelay,
	})

	summary, err := pipeline.Run(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis run failed")
	}

	log.Info().
		Int("analyzed", summary.AnalyzedCount).
		Int("total", summary.TotalGames).
		Msg("Manual analysis complete.")
}
