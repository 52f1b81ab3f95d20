// Package rater produces watchability ratings for completed games. The
// live path asks a chat-completion model for a structured rating; the
// fallback path derives one deterministically from the closeness metrics.
// Both paths pass through the same adjustment policy, so callers always
// see consistent scores and labels.
package rater

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"spoilerfree/ingestion/internal/models"
	"spoilerfree/ingestion/internal/scoring"
)

// GameContext carries the game facts handed to the rating model.
// Stats is a bag for richer per-team numbers; nothing fills it yet.
type GameContext struct {
	Sport     string
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Period    string
	Status    string
	Stats     map[string]any
}

// Client calls the chat-completions rating endpoint
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewClient creates a rating service client
func NewClient(baseURL, apiKey, model string, temperature float64, timeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Chat-completions wire types (the fields this client uses)

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	ResponseFormat responseFormat `json:"response_format"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ratingPayload is the structured rating the prompt asks the model for
type ratingPayload struct {
	QualityScore   int    `json:"qualityScore"`
	IsClose        bool   `json:"isClose"`
	Excitement     string `json:"excitement"`
	Analysis       string `json:"analysis"`
	LeadChanges    *int   `json:"leadChanges"`
	Recommendation string `json:"recommendation"`
}

// Rate asks the model to rate one game. Any transport failure, non-success
// status, or payload that does not validate comes back as an error; the
// caller decides whether to fall back.
func (c *Client) Rate(ctx context.Context, game GameContext, m scoring.Metrics) (*models.GameAnalysis, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model:          c.model,
		Messages:       []chatMessage{{Role: "user", Content: buildPrompt(game, m)}},
		Temperature:    c.temperature,
		ResponseFormat: responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal rating request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/chat/completions", bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create rating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("rating request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read rating response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rating service returned status %d: %s", resp.StatusCode, string(body))
	}

	var cr chatResponse
	if err := json.Unmarshal(body, &cr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rating response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("rating response has no choices")
	}

	var payload ratingPayload
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("failed to parse structured rating: %w", err)
	}

	analysis := &models.GameAnalysis{
		QualityScore:   payload.QualityScore,
		IsClose:        payload.IsClose,
		Excitement:     models.Excitement(payload.Excitement),
		Analysis:       payload.Analysis,
		LeadChanges:    payload.LeadChanges,
		Recommendation: models.Recommendation(payload.Recommendation),
	}
	if err := analysis.Validate(); err != nil {
		return nil, fmt.Errorf("rating payload failed validation: %w", err)
	}

	return analysis, nil
}
