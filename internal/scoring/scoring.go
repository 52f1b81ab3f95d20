// Package scoring derives objective closeness signals from a final score.
// Everything here is pure and deterministic; the rating pipeline layers the
// model's qualitative judgment on top of these numbers.
package scoring

import (
	"strings"

	"spoilerfree/ingestion/internal/models"
)

// Metrics are the objective signals computed for one completed game
type Metrics struct {
	ScoreMargin  int
	TotalPoints  int
	WinningScore int
	Threshold    int
	IsVeryClose  bool
	IsClose      bool
	IsOvertime   bool
}

// closeGameThresholds maps a sport to its "one possession / one scoring
// unit" margin. Keys are matched case-insensitively and include common
// synonyms for each sport.
var closeGameThresholds = map[string]int{
	"nfl":        7,
	"football":   7,
	"nba":        10,
	"basketball": 10,
	"mlb":        2,
	"baseball":   2,
	"nhl":        1,
	"hockey":     1,
	"soccer":     1,
}

// defaultThreshold applies to unrecognized sports
const defaultThreshold = 7

// Threshold returns the one-possession margin for a sport
func Threshold(sport string) int {
	if t, ok := closeGameThresholds[strings.ToLower(sport)]; ok {
		return t
	}
	return defaultThreshold
}

// Compute derives closeness and overtime signals from a feed event
func Compute(event *models.RawEvent) Metrics {
	margin := event.HomeScore - event.AwayScore
	if margin < 0 {
		margin = -margin
	}

	winning := event.HomeScore
	if event.AwayScore > winning {
		winning = event.AwayScore
	}

	threshold := Threshold(event.Sport)

	return Metrics{
		ScoreMargin:  margin,
		TotalPoints:  event.HomeScore + event.AwayScore,
		WinningScore: winning,
		Threshold:    threshold,
		IsVeryClose:  margin <= threshold,
		IsClose:      margin <= threshold*2,
		IsOvertime:   wentToOvertime(event.Period) || wentToOvertime(event.Status),
	}
}

// wentToOvertime checks a period or status descriptor for an overtime marker
func wentToOvertime(descriptor string) bool {
	d := strings.ToLower(descriptor)
	return strings.Contains(d, "ot") || strings.Contains(d, "overtime")
}
