package rater

import (
	"testing"

	"spoilerfree/ingestion/internal/models"
	"spoilerfree/ingestion/internal/scoring"

	"github.com/stretchr/testify/assert"
)

func baseAnalysis(score int) *models.GameAnalysis {
	return &models.GameAnalysis{
		QualityScore:   score,
		IsClose:        true,
		Excitement:     models.ExcitementCompetitive,
		Analysis:       "Solid game.",
		Recommendation: models.RecommendationForScore(score),
	}
}

func TestAdjust_VeryCloseBoost(t *testing.T) {
	m := scoring.Metrics{ScoreMargin: 2, Threshold: 7, IsVeryClose: true, IsClose: true}

	adjusted := Adjust(baseAnalysis(7), m)
	assert.Equal(t, 8, adjusted.QualityScore)
	assert.Equal(t, models.RecommendationWorthWatching, adjusted.Recommendation)
}

func TestAdjust_OvertimeBoostStacks(t *testing.T) {
	m := scoring.Metrics{ScoreMargin: 2, Threshold: 7, IsVeryClose: true, IsClose: true, IsOvertime: true}

	adjusted := Adjust(baseAnalysis(7), m)
	assert.Equal(t, 9, adjusted.QualityScore, "Close and overtime boosts stack")
	assert.Equal(t, models.RecommendationMustWatch, adjusted.Recommendation)
}

func TestAdjust_BoostsCapAtTen(t *testing.T) {
	m := scoring.Metrics{ScoreMargin: 1, Threshold: 7, IsVeryClose: true, IsClose: true, IsOvertime: true}

	adjusted := Adjust(baseAnalysis(10), m)
	assert.Equal(t, 10, adjusted.QualityScore)
}

func TestAdjust_BlowoutCapBeatsBoosts(t *testing.T) {
	// Margin of 35 against an NFL threshold of 7 is past the 4x cap line.
	// Even a model score of 10 must come out at 5 or below.
	m := scoring.Metrics{ScoreMargin: 35, Threshold: 7}

	adjusted := Adjust(baseAnalysis(10), m)
	assert.Equal(t, 5, adjusted.QualityScore)
	assert.Equal(t, models.RecommendationMaybeSkip, adjusted.Recommendation)
}

func TestAdjust_BlowoutCapLeavesLowScoresAlone(t *testing.T) {
	m := scoring.Metrics{ScoreMargin: 35, Threshold: 7}

	adjusted := Adjust(baseAnalysis(3), m)
	assert.Equal(t, 3, adjusted.QualityScore, "Cap is a ceiling, not a floor")
}

func TestAdjust_OvertimeOnBlowoutStillCapped(t *testing.T) {
	// The cap applies after the boosts, so overtime cannot lift a lopsided
	// game past 5
	m := scoring.Metrics{ScoreMargin: 35, Threshold: 7, IsOvertime: true}

	adjusted := Adjust(baseAnalysis(6), m)
	assert.Equal(t, 5, adjusted.QualityScore)
}

func TestAdjust_RecommendationFollowsFinalScore(t *testing.T) {
	// The model's own recommendation is discarded in favor of the banding
	a := baseAnalysis(8)
	a.Recommendation = models.RecommendationSkip

	m := scoring.Metrics{ScoreMargin: 2, Threshold: 7, IsVeryClose: true, IsClose: true}
	adjusted := Adjust(a, m)
	assert.Equal(t, 9, adjusted.QualityScore)
	assert.Equal(t, models.RecommendationMustWatch, adjusted.Recommendation)
}

func TestAdjust_DoesNotMutateInput(t *testing.T) {
	a := baseAnalysis(7)
	m := scoring.Metrics{ScoreMargin: 2, Threshold: 7, IsVeryClose: true, IsClose: true}

	_ = Adjust(a, m)
	assert.Equal(t, 7, a.QualityScore, "Input analysis must not be mutated")
}
