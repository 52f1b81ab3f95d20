package models

import (
	"database/sql"
	"time"
)

// StatusFinal is the only status the pipeline writes: games are analyzed
// strictly after completion
const StatusFinal = "final"

// Game is the persisted record for an analyzed game.
// A row is either fully unanalyzed (all analysis fields NULL) or fully
// analyzed; the pipeline never leaves a partial state behind.
type Game struct {
	ID       string    `db:"id"`
	Sport    string    `db:"sport"`
	League   string    `db:"league"`
	HomeTeam string    `db:"home_team"`
	AwayTeam string    `db:"away_team"`
	GameDate time.Time `db:"game_date"`
	Status   string    `db:"status"`

	// Analysis fields, NULL until the game has been rated
	QualityScore sql.NullInt32  `db:"quality_score"`
	IsClose      sql.NullBool   `db:"is_close"`
	Excitement   sql.NullString `db:"excitement"`
	Analysis     sql.NullString `db:"analysis"`
	LeadChanges  sql.NullInt32  `db:"lead_changes"`

	FinalScore string `db:"final_score"`
	Winner     string `db:"winner"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// IsAnalyzed reports whether the game has been rated. Presence of the
// analysis text is the canonical flag the pipeline dedupes on.
func (g *Game) IsAnalyzed() bool {
	return g.Analysis.Valid
}

// NewAnalyzedGame builds a fully-populated game record from a completed
// feed event and its adjusted analysis
func NewAnalyzedGame(event *RawEvent, analysis *GameAnalysis) *Game {
	game := &Game{
		ID:           IdentityKey(event.Sport, event.HomeTeam, event.AwayTeam, event.GameDate),
		Sport:        event.Sport,
		League:       event.League,
		HomeTeam:     event.HomeTeam,
		AwayTeam:     event.AwayTeam,
		GameDate:     event.GameDate,
		Status:       StatusFinal,
		QualityScore: sql.NullInt32{Int32: int32(analysis.QualityScore), Valid: true},
		IsClose:      sql.NullBool{Bool: analysis.IsClose, Valid: true},
		Excitement:   sql.NullString{String: string(analysis.Excitement), Valid: true},
		Analysis:     sql.NullString{String: analysis.Analysis, Valid: true},
		FinalScore:   event.FinalScore(),
		Winner:       event.Winner(),
	}
	if analysis.LeadChanges != nil {
		game.LeadChanges = sql.NullInt32{Int32: int32(*analysis.LeadChanges), Valid: true}
	}
	return game
}
