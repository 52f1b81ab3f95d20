// Package server exposes the trigger and read surface over HTTP: manual
// and scheduled analysis triggers, the analyzed-games listing, by-id
// lookup, and health probes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	"github.com/rs/zerolog/log"

	"spoilerfree/ingestion/internal/analyzer"
	"spoilerfree/ingestion/internal/cache"
	"spoilerfree/ingestion/internal/config"
	"spoilerfree/ingestion/internal/models"
)

// GameReader is the query interface the read surface depends on
type GameReader interface {
	ListRecentAnalyzed(ctx context.Context, limit int) ([]*models.Game, error)
	GetByID(ctx context.Context, id string) (*models.Game, error)
}

// Runner executes one analysis pipeline run
type Runner interface {
	Run(ctx context.Context) (analyzer.Summary, error)
}

// HealthFunc probes a dependency
type HealthFunc func(ctx context.Context) error

// Server is the HTTP API for triggers and reads
type Server struct {
	cfg      *config.Config
	games    GameReader
	runner   Runner
	cache    *cache.RedisCache
	dbHealth HealthFunc

	httpServer *http.Server
}

// New creates the API server with explicitly injected collaborators
func New(cfg *config.Config, games GameReader, runner Runner, rc *cache.RedisCache, dbHealth HealthFunc) *Server {
	return &Server{
		cfg:      cfg,
		games:    games,
		runner:   runner,
		cache:    rc,
		dbHealth: dbHealth,
	}
}

// Router builds the chi router with the middleware stack and all routes
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute)) // trigger runs the pipeline synchronously

	c := corslib.New(corslib.Options{
		AllowedOrigins:   s.cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/cron", s.handleCron)
		r.Get("/games", s.handleListGames)
		r.Get("/games/{id}", s.handleGetGame)
	})

	return r
}

// Start runs the HTTP server until it fails or is shut down
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.ServerPort)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("addr", addr).Msg("Starting API server")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("API server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
