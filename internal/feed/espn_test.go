package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spoilerfree/ingestion/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scoreboardFixture = `{
  "events": [
    {
      "id": "401547235",
      "date": "2025-01-12T20:30Z",
      "status": {"type": {"state": "post", "shortDetail": "Final"}},
      "competitions": [{
        "competitors": [
          {"homeAway": "home", "score": "27", "team": {"displayName": "Kansas City Chiefs"}},
          {"homeAway": "away", "score": "17", "team": {"displayName": "Buffalo Bills"}}
        ]
      }]
    },
    {
      "id": "401547236",
      "date": "2025-01-12T23:00Z",
      "status": {"type": {"state": "in", "shortDetail": "3rd Quarter"}},
      "competitions": [{
        "competitors": [
          {"homeAway": "home", "score": "14", "team": {"displayName": "Detroit Lions"}},
          {"homeAway": "away", "score": "10", "team": {"displayName": "Green Bay Packers"}}
        ]
      }]
    }
  ]
}`

func TestFetchGames(t *testing.T) {
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path + "?" + r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(scoreboardFixture))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	date := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)
	events := client.FetchGames(context.Background(), SportNFL, "", date)

	assert.Equal(t, "/football/nfl/scoreboard?dates=20250112", requestedPath)
	require.Len(t, events, 2)

	final := events[0]
	assert.Equal(t, "401547235", final.ExternalID)
	assert.Equal(t, "nfl", final.Sport)
	assert.Equal(t, "NFL", final.League)
	assert.Equal(t, "Kansas City Chiefs", final.HomeTeam)
	assert.Equal(t, "Buffalo Bills", final.AwayTeam)
	assert.Equal(t, 27, final.HomeScore)
	assert.Equal(t, 17, final.AwayScore)
	assert.Equal(t, models.StatusPost, final.Status)
	assert.Equal(t, "Final", final.Period)
	assert.True(t, final.IsCompleted())

	inProgress := events[1]
	assert.Equal(t, models.StatusIn, inProgress.Status)
	assert.False(t, inProgress.IsCompleted(), "In-progress games come through but are not completed")
}

func TestFetchGames_SoccerLeagueRouting(t *testing.T) {
	var requestedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestedPath = r.URL.Path
		w.Write([]byte(`{"events": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	date := time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC)

	client.FetchGames(context.Background(), SportSoccer, "premier-league", date)
	assert.Equal(t, "/soccer/eng.1/scoreboard", requestedPath)

	// Unknown keys pass through as raw competition codes
	client.FetchGames(context.Background(), SportSoccer, "ned.1", date)
	assert.Equal(t, "/soccer/ned.1/scoreboard", requestedPath)
}

func TestFetchGames_OutageReturnsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	events := client.FetchGames(context.Background(), SportNFL, "", time.Now())
	assert.Empty(t, events, "Feed outage must not surface an error to the pipeline")
}

func TestFetchGames_UnsupportedSport(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)
	events := client.FetchGames(context.Background(), "curling", "", time.Now())
	assert.Empty(t, events)
}

func TestFetchGames_MalformedEventsDropped(t *testing.T) {
	// First event has no competitors, second is fine
	payload := `{
	  "events": [
	    {"id": "1", "date": "2025-01-12T20:30Z", "status": {"type": {"state": "post", "shortDetail": "Final"}}, "competitions": [{"competitors": []}]},
	    {"id": "2", "date": "2025-01-12T20:30Z", "status": {"type": {"state": "post", "shortDetail": "Final"}}, "competitions": [{
	      "competitors": [
	        {"homeAway": "home", "score": "3", "team": {"displayName": "Bruins"}},
	        {"homeAway": "away", "score": "2", "team": {"displayName": "Rangers"}}
	      ]
	    }]}
	  ]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	events := client.FetchGames(context.Background(), SportNFL, "", time.Now())
	require.Len(t, events, 1, "Malformed events are dropped, valid ones kept")
	assert.Equal(t, "2", events[0].ExternalID)
}

func TestFetchGames_MissingScoreDefaultsToZero(t *testing.T) {
	payload := `{
	  "events": [
	    {"id": "1", "date": "2025-01-12T20:30Z", "status": {"type": {"state": "post", "shortDetail": "Final"}}, "competitions": [{
	      "competitors": [
	        {"homeAway": "home", "team": {"displayName": "Arsenal"}},
	        {"homeAway": "away", "score": "", "team": {"displayName": "Chelsea"}}
	      ]
	    }]}
	  ]
	}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	events := client.FetchGames(context.Background(), SportSoccer, "premier-league", time.Now())
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].HomeScore)
	assert.Equal(t, 0, events[0].AwayScore)
}

func TestFetchGames_RetriesOnRetryableStatus(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(`{"events": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 5*time.Second)
	client.retryDelay = time.Millisecond

	events := client.FetchGames(context.Background(), SportNBA, "", time.Now())
	assert.Equal(t, 2, attempts, "429 should be retried")
	assert.Empty(t, events)
}
