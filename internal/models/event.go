package models

import (
	"fmt"
	"time"
)

// Lifecycle states reported by the scoreboard feed
const (
	StatusPre  = "pre"
	StatusIn   = "in"
	StatusPost = "post"
)

// DrawLabel is the winner label for level final scores (soccer)
const DrawLabel = "Draw"

// RawEvent is a normalized scoreboard event from the feed.
// Transient: it is consumed by the analysis pipeline and never persisted as-is.
type RawEvent struct {
	ExternalID string
	Sport      string
	League     string
	HomeTeam   string
	AwayTeam   string
	HomeScore  int
	AwayScore  int
	Status     string // pre, in, post
	Period     string // e.g. "Final", "Final/OT"
	GameDate   time.Time
}

// IsCompleted returns true if the event has finished
func (e *RawEvent) IsCompleted() bool {
	return e.Status == StatusPost
}

// Winner returns the display name of the winning team, or DrawLabel
// when the final score is level
func (e *RawEvent) Winner() string {
	switch {
	case e.HomeScore > e.AwayScore:
		return e.HomeTeam
	case e.AwayScore > e.HomeScore:
		return e.AwayTeam
	default:
		return DrawLabel
	}
}

// FinalScore returns the "<home>-<away>" score string
func (e *RawEvent) FinalScore() string {
	return fmt.Sprintf("%d-%d", e.HomeScore, e.AwayScore)
}
