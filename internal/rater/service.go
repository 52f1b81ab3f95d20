package rater

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"spoilerfree/ingestion/internal/metrics"
	"spoilerfree/ingestion/internal/models"
	"spoilerfree/ingestion/internal/scoring"
)

// Rating sources
const (
	SourceLive         = "live"
	SourceFallbackOnly = "fallback-only"
)

// Service is the rating entry point the orchestrator uses. It routes
// between the live model and the deterministic fallback and applies the
// adjustment policy to whichever produced the rating, so Rate never fails.
type Service struct {
	client *Client
	source string
}

// NewService creates a rating service. With source SourceFallbackOnly the
// live client is never called, which keeps runs free and fully deterministic
// (useful for tests and for operating without a rating-service credential).
func NewService(client *Client, source string) *Service {
	return &Service{client: client, source: source}
}

// Rate produces the adjusted rating for one game
func (s *Service) Rate(ctx context.Context, game GameContext, m scoring.Metrics) *models.GameAnalysis {
	if s.source == SourceLive && s.client != nil {
		start := time.Now()
		analysis, err := s.client.Rate(ctx, game, m)
		duration := time.Since(start).Seconds()

		if err == nil {
			metrics.RecordRatingCall(SourceLive, "success", duration)
			return Adjust(analysis, m)
		}

		metrics.RecordRatingCall(SourceLive, "error", duration)
		metrics.RecordError("rater", "live_call_failed")
		log.Warn().
			Err(err).
			Str("sport", game.Sport).
			Str("home", game.HomeTeam).
			Str("away", game.AwayTeam).
			Msg("Rating service call failed, using fallback rating")
	}

	metrics.RecordRatingCall("fallback", "success", 0)
	return Adjust(Fallback(m), m)
}
