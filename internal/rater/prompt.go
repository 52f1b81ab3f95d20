package rater

import (
	"fmt"
	"strings"

	"spoilerfree/ingestion/internal/scoring"
)

// buildPrompt renders the rating instruction for one game. The model is
// told to keep the description spoiler-free: no winner, no team names
// when describing the outcome.
func buildPrompt(game GameContext, m scoring.Metrics) string {
	status := game.Status
	if status == "" {
		status = game.Period
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a sports analyst rating game watchability. Analyze this %s game objectively.\n\n", game.Sport)
	fmt.Fprintf(&b, "GAME DATA:\n")
	fmt.Fprintf(&b, "- %s: %d\n", game.HomeTeam, game.HomeScore)
	fmt.Fprintf(&b, "- %s: %d\n", game.AwayTeam, game.AwayScore)
	fmt.Fprintf(&b, "- Final Margin: %d points\n", m.ScoreMargin)
	fmt.Fprintf(&b, "- Status: %s\n\n", status)
	b.WriteString(`SCORING CRITERIA:
Rate 1-10 based on:
- Score closeness (most important): Is the margin within 1-2 possessions?
- Competitiveness: Was it close throughout or just at the end?
- Lead changes: Multiple momentum swings indicate excitement
- Context: High-scoring thriller vs defensive battle

RATING SCALE:
10: Instant classic, must-watch (buzzer beaters, OT thrillers, huge comebacks)
9: Elite entertainment, highly recommended
8: Very good game, worth watching
7: Good game, competitive throughout
6: Decent game, some exciting moments
5: Average game, watchable but not special
4: Below average, one-sided stretches
3: Poor game, mostly a blowout
2: Very one-sided
1: Complete blowout, skip it

RESPOND IN JSON (no markdown, just pure JSON):
{
  "qualityScore": <1-10 integer>,
  "isClose": <boolean - was margin within 1-2 possessions?>,
  "excitement": "<thriller|competitive|blowout>",
  "analysis": "<2-4 sentence analysis WITHOUT revealing winner or final score>",
  "leadChanges": <estimated number, or null if unknown>,
  "recommendation": "<Must Watch|Worth Watching|Maybe Skip|Skip>"
}

CRITICAL: Do NOT reveal the winner or use team names when describing the outcome. Say "the winning team" not the actual team name.`)

	return b.String()
}
