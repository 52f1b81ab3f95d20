package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGameAnalysis_Validate(t *testing.T) {
	valid := GameAnalysis{
		QualityScore:   8,
		IsClose:        true,
		Excitement:     ExcitementThriller,
		Analysis:       "Tight finish with momentum swings throughout.",
		Recommendation: RecommendationWorthWatching,
	}
	assert.NoError(t, valid.Validate())

	tooLow := valid
	tooLow.QualityScore = 0
	assert.Error(t, tooLow.Validate(), "Score below 1 must fail")

	tooHigh := valid
	tooHigh.QualityScore = 11
	assert.Error(t, tooHigh.Validate(), "Score above 10 must fail")

	unknownBin := valid
	unknownBin.Excitement = "electric"
	assert.Error(t, unknownBin.Validate(), "Unknown excitement bin must fail")

	emptyText := valid
	emptyText.Analysis = ""
	assert.Error(t, emptyText.Validate(), "Empty analysis text must fail")
}

func TestRecommendationForScore(t *testing.T) {
	tests := []struct {
		score    int
		expected Recommendation
	}{
		{10, RecommendationMustWatch},
		{9, RecommendationMustWatch},
		{8, RecommendationWorthWatching},
		{7, RecommendationWorthWatching},
		{6, RecommendationMaybeSkip},
		{5, RecommendationMaybeSkip},
		{4, RecommendationSkip},
		{1, RecommendationSkip},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, RecommendationForScore(tt.score), "score %d", tt.score)
	}
}
