package models

import (
	"strings"
	"time"
)

// IdentityKey derives the stable storage identity for a game from the
// (sport, home team, away team, calendar date) tuple. Repeated pipeline
// runs over the same game produce the same key, so re-analysis updates
// rather than duplicates.
//
// Two events with the same pairing on the same calendar day collide by
// design: the scoreboard feed lists at most one matchup per pairing per
// day for the covered leagues, so a double-header would merge into one
// record rather than duplicate a rating.
func IdentityKey(sport, homeTeam, awayTeam string, gameDate time.Time) string {
	return strings.Join([]string{
		Slugify(sport),
		Slugify(homeTeam),
		Slugify(awayTeam),
		gameDate.UTC().Format("20060102"),
	}, "-")
}

// Slugify normalizes a display name into the identity character set:
// lowercase ASCII letters and digits, with any run of other characters
// collapsed to a single hyphen and leading/trailing hyphens trimmed.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
