package rater

import (
	"spoilerfree/ingestion/internal/models"
	"spoilerfree/ingestion/internal/scoring"
)

// Adjust reconciles a raw rating with the objective metrics. It runs on
// both the live and fallback paths so the stored score obeys the same
// policy regardless of where the rating came from:
//
//   - very-close finish: +1 (capped at 10)
//   - overtime: +1 (capped at 10, cumulative with the close-game boost)
//   - lopsided result (margin beyond 4x the one-possession threshold):
//     score capped at 5, applied as a ceiling AFTER the boosts so a boost
//     can never defeat the cap
//   - recommendation is recomputed from the final score, overriding
//     whatever the model proposed
//
// The input is not mutated.
func Adjust(analysis *models.GameAnalysis, m scoring.Metrics) *models.GameAnalysis {
	adjusted := *analysis

	if m.IsVeryClose && adjusted.QualityScore < 10 {
		adjusted.QualityScore++
	}
	if m.IsOvertime && adjusted.QualityScore < 10 {
		adjusted.QualityScore++
	}
	if m.ScoreMargin > m.Threshold*4 && adjusted.QualityScore > 5 {
		adjusted.QualityScore = 5
	}

	adjusted.Recommendation = models.RecommendationForScore(adjusted.QualityScore)
	return &adjusted
}
