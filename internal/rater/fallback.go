package rater

import (
	"fmt"

	"spoilerfree/ingestion/internal/models"
	"spoilerfree/ingestion/internal/scoring"
)

// Fallback derives a rating from the closeness metrics alone. It is the
// correctness backstop when the rating service is unreachable or returns
// an unusable payload: fully deterministic for a given set of metrics,
// and spoiler-free like the live path (the templated text never names
// the winner). Lead changes are unknown without the model.
func Fallback(m scoring.Metrics) *models.GameAnalysis {
	var (
		score          int
		excitement     models.Excitement
		recommendation models.Recommendation
	)

	switch {
	case m.IsVeryClose:
		score = 9
		excitement = models.ExcitementThriller
		recommendation = models.RecommendationMustWatch
	case m.IsClose:
		score = 7
		excitement = models.ExcitementCompetitive
		recommendation = models.RecommendationWorthWatching
	case m.ScoreMargin <= m.Threshold*3:
		score = 5
		excitement = models.ExcitementCompetitive
		recommendation = models.RecommendationMaybeSkip
	default:
		score = 3
		excitement = models.ExcitementBlowout
		recommendation = models.RecommendationSkip
	}

	// Overtime guarantees a watchable floor even without the model
	if m.IsOvertime {
		if score < 8 {
			score = 8
		}
		if score >= 9 {
			recommendation = models.RecommendationMustWatch
		} else {
			recommendation = models.RecommendationWorthWatching
		}
	}

	tail := "Competitive matchup with good back-and-forth action."
	if excitement == models.ExcitementBlowout {
		tail = "One-sided contest."
	}

	return &models.GameAnalysis{
		QualityScore:   score,
		IsClose:        m.IsClose,
		Excitement:     excitement,
		Analysis:       fmt.Sprintf("Final margin of %d points. %s", m.ScoreMargin, tail),
		LeadChanges:    nil,
		Recommendation: recommendation,
	}
}
