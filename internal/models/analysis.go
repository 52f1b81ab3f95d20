package models

import "fmt"

// Excitement is the coarse watchability bin for a game
type Excitement string

const (
	ExcitementBlowout     Excitement = "blowout"
	ExcitementCompetitive Excitement = "competitive"
	ExcitementThriller    Excitement = "thriller"
)

// Recommendation is the viewer-facing watch label, always derived
// from the final quality score
type Recommendation string

const (
	RecommendationMustWatch     Recommendation = "Must Watch"
	RecommendationWorthWatching Recommendation = "Worth Watching"
	RecommendationMaybeSkip     Recommendation = "Maybe Skip"
	RecommendationSkip          Recommendation = "Skip"
)

// GameAnalysis is a qualitative watchability rating for a completed game,
// produced either by the rating service or by the deterministic fallback
type GameAnalysis struct {
	QualityScore   int            `json:"qualityScore"`
	IsClose        bool           `json:"isClose"`
	Excitement     Excitement     `json:"excitement"`
	Analysis       string         `json:"analysis"`
	LeadChanges    *int           `json:"leadChanges"`
	Recommendation Recommendation `json:"recommendation"`
}

// Validate checks that an analysis parsed from an external payload is usable.
// Anything failing here is treated as a rating-service error upstream.
func (a *GameAnalysis) Validate() error {
	if a.QualityScore < 1 || a.QualityScore > 10 {
		return fmt.Errorf("quality score %d out of range [1,10]", a.QualityScore)
	}
	switch a.Excitement {
	case ExcitementBlowout, ExcitementCompetitive, ExcitementThriller:
	default:
		return fmt.Errorf("unknown excitement bin %q", a.Excitement)
	}
	if a.Analysis == "" {
		return fmt.Errorf("empty analysis text")
	}
	return nil
}

// RecommendationForScore maps a final quality score to its watch label.
// This is the single source of truth for the recommendation banding.
func RecommendationForScore(score int) Recommendation {
	switch {
	case score >= 9:
		return RecommendationMustWatch
	case score >= 7:
		return RecommendationWorthWatching
	case score >= 5:
		return RecommendationMaybeSkip
	default:
		return RecommendationSkip
	}
}
