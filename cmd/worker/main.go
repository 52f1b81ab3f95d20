package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"spoilerfree/ingestion/internal/analyzer"
	"spoilerfree/ingestion/internal/cache"
	"spoilerfree/ingestion/internal/config"
	"spoilerfree/ingestion/internal/feed"
	"spoilerfree/ingestion/internal/metrics"
	"spoilerfree/ingestion/internal/rater"
	"spoilerfree/ingestion/internal/repository"
	"spoilerfree/ingestion/internal/scheduler"
	"spoilerfree/ingestion/internal/server"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting game analysis worker")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("rating_source", cfg.RatingSource).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Initialize scoreboard feed client
	feedClient := feed.NewClient(cfg.ESPNBaseURL, cfg.ESPNTimeout)
	log.Info().Msg("Scoreboard feed client initialized")

	// Initialize rating service
	raterClient := rater.NewClient(
		cfg.DeepSeekBaseURL,
		cfg.DeepSeekAPIKey,
		cfg.DeepSeekModel,
		cfg.DeepSeekTemperature,
		cfg.DeepSeekTimeout,
	)
	raterService := rater.NewService(raterClient, cfg.RatingSource)
	log.Info().Str("source", cfg.RatingSource).Msg("Rating service initialized")

	// Initialize database connection
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
	log.Info().Msg("Database connection established")

	// Initialize Redis client
	redisCache, err := cache.NewRedisCache(ctx, cache.Config{
		Host:     cfg.RedisHost,
		Port:     strconv.Itoa(cfg.RedisPort),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
	} else {
		defer redisCache.Close()
		log.Info().Msg("Redis cache connected")
	}

	// Build the pipeline orchestrator
	pipeline := analyzer.New(feedClient, raterService, db.Games, analyzer.Config{
		Sports:          cfg.Sports,
		SoccerLeagues:   cfg.SoccerLeagues,
		WindowDays:      cfg.WindowDays,
		Incremental:     cfg.IncrementalEnabled,
		RatingCallDelay: cfg.RatingCallDelay,
	})

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(cfg.MetricsPort)
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Update stored-games gauge
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				count, err := db.Games.Count(ctx)
				if err != nil {
					log.Warn().Err(err).Msg("Failed to count stored games")
					continue
				}
				metrics.UpdateGamesStored(int64(count))
			case <-ctx.Done():
				return
			}
		}
	}()

	// Create and start scheduler
	sched := scheduler.New(pipeline, cfg.AnalysisCron)

	if cfg.EnableScheduler {
		log.Info().Msg("Starting scheduler...")
		if err := sched.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("Failed to start scheduler")
		}
	}

	// Run initial analysis if enabled
	if cfg.RunOnStartup {
		log.Info().Msg("Running initial analysis...")
		summary, err := pipeline.Run(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Initial analysis failed, continuing anyway...")
		} else {
			log.Info().
				Int("analyzed", summary.AnalyzedCount).
				Int("total", summary.TotalGames).
				Msg("Initial analysis completed")
		}
	}

	// Start the API server
	apiServer := server.New(cfg, db.Games, pipeline, redisCache, db.Health)
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Error().Err(err).Msg("API server stopped")
			cancel()
		}
	}()

	// Keep running until context is cancelled
	<-ctx.Done()

	// Graceful shutdown
	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("API server shutdown failed")
	}

	log.Info().Msg("Worker shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port int) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", port)
	log.Info().Int("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
