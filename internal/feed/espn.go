// Package feed adapts the ESPN site scoreboard API into normalized game
// events. External payloads are decoded into an explicit schema at this
// boundary; anything that does not fit is dropped here instead of leaking
// partially-populated events into the pipeline.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"spoilerfree/ingestion/internal/metrics"
	"spoilerfree/ingestion/internal/models"
)

// Sports with a scoreboard endpoint
const (
	SportNFL    = "nfl"
	SportNBA    = "nba"
	SportSoccer = "soccer"
)

// soccerLeagueCodes maps friendly league keys to ESPN competition codes
var soccerLeagueCodes = map[string]string{
	"premier-league":   "eng.1",
	"la-liga":          "esp.1",
	"bundesliga":       "ger.1",
	"serie-a":          "ita.1",
	"champions-league": "uefa.champions",
}

// Client is the ESPN scoreboard API client
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	retryDelay time.Duration
}

// NewClient creates a new scoreboard client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		maxRetries: 2,
		retryDelay: 1 * time.Second,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// Scoreboard response schema (the fields the pipeline consumes)

type scoreboardResponse struct {
	Events []scoreboardEvent `json:"events"`
}

type scoreboardEvent struct {
	ID           string        `json:"id"`
	Date         string        `json:"date"`
	Status       eventStatus   `json:"status"`
	Competitions []competition `json:"competitions"`
}

type eventStatus struct {
	Type statusType `json:"type"`
}

type statusType struct {
	State       string `json:"state"`       // pre, in, post
	ShortDetail string `json:"shortDetail"` // e.g. "Final", "Final/OT"
}

type competition struct {
	Competitors []competitor `json:"competitors"`
}

type competitor struct {
	HomeAway string `json:"homeAway"`
	Score    string `json:"score"`
	Team     struct {
		DisplayName string `json:"displayName"`
	} `json:"team"`
}

// FetchGames fetches the scoreboard for one sport and calendar day and
// normalizes it. Feed outages and malformed payloads are absorbed here:
// the error is logged and an empty list returned, so a single bad
// sport/date never aborts an analysis run. leagueKey is only used for
// soccer and selects the competition.
func (c *Client) FetchGames(ctx context.Context, sport, leagueKey string, date time.Time) []models.RawEvent {
	path, league, err := scoreboardPath(sport, leagueKey)
	if err != nil {
		log.Error().Err(err).Str("sport", sport).Msg("Unsupported sport for scoreboard fetch")
		metrics.RecordError("feed", "unsupported_sport")
		return nil
	}

	sb, err := c.fetchScoreboard(ctx, path, date)
	if err != nil {
		log.Warn().
			Err(err).
			Str("sport", sport).
			Str("date", date.Format("20060102")).
			Msg("Scoreboard fetch failed, continuing without this sport/date")
		metrics.RecordError("feed", "fetch_failed")
		return nil
	}

	events := make([]models.RawEvent, 0, len(sb.Events))
	for i := range sb.Events {
		event, err := normalizeEvent(&sb.Events[i], sport, league)
		if err != nil {
			log.Warn().
				Err(err).
				Str("sport", sport).
				Str("event_id", sb.Events[i].ID).
				Msg("Dropping malformed scoreboard event")
			metrics.RecordError("feed", "malformed_event")
			continue
		}
		events = append(events, *event)
	}

	log.Debug().
		Str("sport", sport).
		Str("date", date.Format("20060102")).
		Int("count", len(events)).
		Msg("Scoreboard fetched")

	return events
}

// scoreboardPath resolves the endpoint path and display league for a sport
func scoreboardPath(sport, leagueKey string) (path, league string, err error) {
	switch sport {
	case SportNFL:
		return "football/nfl", "NFL", nil
	case SportNBA:
		return "basketball/nba", "NBA", nil
	case SportSoccer:
		code, ok := soccerLeagueCodes[leagueKey]
		if !ok {
			// Unknown keys pass through; ESPN accepts raw competition codes
			code = leagueKey
		}
		return "soccer/" + code, leagueLabel(leagueKey), nil
	default:
		return "", "", fmt.Errorf("no scoreboard endpoint for sport %q", sport)
	}
}

// leagueLabel turns "premier-league" into "Premier League"
func leagueLabel(leagueKey string) string {
	words := strings.Split(leagueKey, "-")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// fetchScoreboard performs the GET with retry and backoff
func (c *Client) fetchScoreboard(ctx context.Context, path string, date time.Time) (*scoreboardResponse, error) {
	url := fmt.Sprintf("%s/%s/scoreboard?dates=%s", c.baseURL, path, date.Format("20060102"))

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := c.retryDelay * time.Duration(1<<uint(attempt-1))
			log.Debug().
				Str("url", url).
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("Retrying scoreboard request after backoff")

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		start := time.Now()
		body, retryable, err := c.doGet(ctx, url)
		metrics.RecordFeedCall(path, callStatus(err), time.Since(start).Seconds())
		if err != nil {
			lastErr = err
			if retryable && attempt < c.maxRetries {
				continue
			}
			return nil, lastErr
		}

		var sb scoreboardResponse
		if err := json.Unmarshal(body, &sb); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
		}
		return &sb, nil
	}

	return nil, lastErr
}

// doGet performs a single GET attempt. The second return reports whether
// the failure is worth retrying.
func (c *Client) doGet(ctx context.Context, url string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "spoilerfree-ingestion/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("scoreboard request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, true, fmt.Errorf("failed to read scoreboard response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return body, false, nil
	case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return nil, true, fmt.Errorf("scoreboard returned retryable status %d", resp.StatusCode)
	default:
		return nil, false, fmt.Errorf("scoreboard returned status %d: %s", resp.StatusCode, string(body))
	}
}

func callStatus(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

// normalizeEvent converts one scoreboard event into a RawEvent, failing
// closed when either competitor is missing
func normalizeEvent(ev *scoreboardEvent, sport, league string) (*models.RawEvent, error) {
	if len(ev.Competitions) == 0 {
		return nil, fmt.Errorf("event has no competitions")
	}

	var home, away *competitor
	for i := range ev.Competitions[0].Competitors {
		c := &ev.Competitions[0].Competitors[i]
		switch c.HomeAway {
		case "home":
			home = c
		case "away":
			away = c
		}
	}
	if home == nil || away == nil {
		return nil, fmt.Errorf("event is missing a home or away competitor")
	}
	if home.Team.DisplayName == "" || away.Team.DisplayName == "" {
		return nil, fmt.Errorf("event competitor has no display name")
	}

	gameDate, err := time.Parse(time.RFC3339, ev.Date)
	if err != nil {
		// ESPN sometimes omits seconds
		gameDate, err = time.Parse("2006-01-02T15:04Z07:00", ev.Date)
		if err != nil {
			return nil, fmt.Errorf("unparseable event date %q", ev.Date)
		}
	}

	return &models.RawEvent{
		ExternalID: ev.ID,
		Sport:      sport,
		League:     league,
		HomeTeam:   home.Team.DisplayName,
		AwayTeam:   away.Team.DisplayName,
		HomeScore:  parseScore(home.Score),
		AwayScore:  parseScore(away.Score),
		Status:     ev.Status.Type.State,
		Period:     ev.Status.Type.ShortDetail,
		GameDate:   gameDate,
	}, nil
}

// parseScore defaults to 0 when the feed omits a score
func parseScore(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
