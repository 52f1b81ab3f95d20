package rater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"spoilerfree/ingestion/internal/models"
	"spoilerfree/ingestion/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService_Rate_FallbackOnly(t *testing.T) {
	// No client at all; the service must still always produce a rating
	svc := NewService(nil, SourceFallbackOnly)

	m := scoring.Metrics{ScoreMargin: 10, Threshold: 7, IsClose: true}
	analysis := svc.Rate(context.Background(), testGameContext(), m)

	require.NotNil(t, analysis)
	assert.NoError(t, analysis.Validate())
	assert.Equal(t, 7, analysis.QualityScore)
	assert.Equal(t, models.ExcitementCompetitive, analysis.Excitement)
}

func TestService_Rate_LiveFailureFallsBack(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key", "deepseek-chat", 0.3, time.Second)
	svc := NewService(client, SourceLive)

	m := scoring.Metrics{ScoreMargin: 10, Threshold: 7, IsClose: true}
	analysis := svc.Rate(context.Background(), testGameContext(), m)

	require.NotNil(t, analysis, "Rating must survive an unreachable rating service")
	assert.Equal(t, 7, analysis.QualityScore)
	assert.Equal(t, models.RecommendationWorthWatching, analysis.Recommendation)
}

func TestService_Rate_LiveResultIsAdjusted(t *testing.T) {
	payload := `{"qualityScore":8,"isClose":true,"excitement":"thriller","analysis":"Great finish.","recommendation":"Skip"}`
	srv := chatServer(t, payload)
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "deepseek-chat", 0.3, 5*time.Second)
	svc := NewService(client, SourceLive)

	// Very close game: the model's 8 gets the +1 boost, and its bogus
	// recommendation is replaced by the banding
	m := scoring.Metrics{ScoreMargin: 2, Threshold: 7, IsVeryClose: true, IsClose: true}
	analysis := svc.Rate(context.Background(), testGameContext(), m)

	assert.Equal(t, 9, analysis.QualityScore)
	assert.Equal(t, models.RecommendationMustWatch, analysis.Recommendation)
}

func TestService_Rate_FallbackIsAdjustedToo(t *testing.T) {
	svc := NewService(nil, SourceFallbackOnly)

	// Very close game: fallback rates 9, adjustment lifts it to 10. Both
	// paths share the one adjustment policy.
	m := scoring.Metrics{ScoreMargin: 2, Threshold: 7, IsVeryClose: true, IsClose: true}
	analysis := svc.Rate(context.Background(), testGameContext(), m)

	assert.Equal(t, 10, analysis.QualityScore)
	assert.Equal(t, models.RecommendationMustWatch, analysis.Recommendation)
}

func TestService_Rate_InvalidLivePayloadFallsBack(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"choices":[{"message":{"content":"not json"}}]}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", "deepseek-chat", 0.3, 5*time.Second)
	svc := NewService(client, SourceLive)

	m := scoring.Metrics{ScoreMargin: 30, Threshold: 7}
	analysis := svc.Rate(context.Background(), testGameContext(), m)

	assert.Equal(t, 1, hits)
	require.NotNil(t, analysis)
	assert.Equal(t, models.ExcitementBlowout, analysis.Excitement)
	assert.Equal(t, models.RecommendationSkip, analysis.Recommendation)
}
