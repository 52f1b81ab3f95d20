package scoring

import (
	"testing"
	"time"

	"spoilerfree/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestThreshold(t *testing.T) {
	tests := []struct {
		sport    string
		expected int
	}{
		{"nfl", 7},
		{"football", 7},
		{"nba", 10},
		{"basketball", 10},
		{"mlb", 2},
		{"baseball", 2},
		{"nhl", 1},
		{"hockey", 1},
		{"soccer", 1},
		{"NFL", 7},
		{"Basketball", 10},
		{"cricket", 7}, // unknown sport falls back to the default
		{"", 7},
	}

	for _, tt := range tests {
		t.Run(tt.sport, func(t *testing.T) {
			assert.Equal(t, tt.expected, Threshold(tt.sport))
		})
	}
}

func TestCompute_OneGoalHockeyGame(t *testing.T) {
	event := &models.RawEvent{
		Sport:     "nhl",
		HomeTeam:  "Bruins",
		AwayTeam:  "Rangers",
		HomeScore: 3,
		AwayScore: 2,
		Status:    models.StatusPost,
		Period:    "Final",
		GameDate:  time.Now(),
	}

	m := Compute(event)

	assert.Equal(t, 1, m.ScoreMargin)
	assert.Equal(t, 5, m.TotalPoints)
	assert.Equal(t, 3, m.WinningScore)
	assert.Equal(t, 1, m.Threshold)
	assert.True(t, m.IsVeryClose, "One-goal game should be very close")
	assert.True(t, m.IsClose)
	assert.False(t, m.IsOvertime)
}

func TestCompute_TwentyPointBasketballGame(t *testing.T) {
	event := &models.RawEvent{
		Sport:     "nba",
		HomeScore: 100,
		AwayScore: 80,
		Status:    models.StatusPost,
		Period:    "Final",
	}

	m := Compute(event)

	assert.Equal(t, 20, m.ScoreMargin)
	assert.Equal(t, 180, m.TotalPoints)
	assert.Equal(t, 100, m.WinningScore)
	assert.Equal(t, 10, m.Threshold)
	assert.False(t, m.IsVeryClose, "20-point margin is beyond one possession")
	assert.True(t, m.IsClose, "20-point margin is within twice the threshold")
}

func TestCompute_MarginIsAbsolute(t *testing.T) {
	// Away-team win must produce the same margin as the mirrored score
	homeWin := Compute(&models.RawEvent{Sport: "nfl", HomeScore: 27, AwayScore: 20})
	awayWin := Compute(&models.RawEvent{Sport: "nfl", HomeScore: 20, AwayScore: 27})

	assert.Equal(t, homeWin.ScoreMargin, awayWin.ScoreMargin)
	assert.Equal(t, 7, awayWin.ScoreMargin)
	assert.Equal(t, 27, awayWin.WinningScore)
}

func TestCompute_OvertimeDetection(t *testing.T) {
	tests := []struct {
		name     string
		period   string
		status   string
		overtime bool
	}{
		{"regulation final", "Final", models.StatusPost, false},
		{"final slash ot", "Final/OT", models.StatusPost, true},
		{"spelled out", "Final/Overtime", models.StatusPost, true},
		{"double overtime", "Final/2OT", models.StatusPost, true},
		{"marker in status", "Final", "post/ot", true},
		{"empty descriptors", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Compute(&models.RawEvent{
				Sport:     "nfl",
				HomeScore: 24,
				AwayScore: 21,
				Period:    tt.period,
				Status:    tt.status,
			})
			assert.Equal(t, tt.overtime, m.IsOvertime)
		})
	}
}

func TestCompute_ClosenessBands(t *testing.T) {
	// NFL threshold is 7: margins band at <=7 very close, <=14 close
	tests := []struct {
		margin      int
		isVeryClose bool
		isClose     bool
	}{
		{0, true, true},
		{7, true, true},
		{8, false, true},
		{14, false, true},
		{15, false, false},
	}

	for _, tt := range tests {
		m := Compute(&models.RawEvent{
			Sport:     "nfl",
			HomeScore: 20 + tt.margin,
			AwayScore: 20,
		})
		assert.Equal(t, tt.isVeryClose, m.IsVeryClose, "margin %d very close", tt.margin)
		assert.Equal(t, tt.isClose, m.IsClose, "margin %d close", tt.margin)
	}
}
