package server

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"spoilerfree/ingestion/internal/cache"
	"spoilerfree/ingestion/internal/metrics"
	"spoilerfree/ingestion/internal/models"
)

// defaultGamesLimit bounds the recent-games listing when no limit is given
const defaultGamesLimit = 50

// gameResponse is the wire shape for one game record. Analysis fields are
// pointers so unanalyzed NULLs would serialize as null, though the read
// surface never returns such rows.
type gameResponse struct {
	ID           string  `json:"id"`
	Sport        string  `json:"sport"`
	League       string  `json:"league"`
	HomeTeam     string  `json:"homeTeam"`
	AwayTeam     string  `json:"awayTeam"`
	GameDate     string  `json:"gameDate"`
	Status       string  `json:"status"`
	QualityScore *int    `json:"qualityScore"`
	IsClose      *bool   `json:"isClose"`
	Excitement   *string `json:"excitement"`
	Analysis     *string `json:"analysis"`
	LeadChanges  *int    `json:"leadChanges"`
	FinalScore   string  `json:"finalScore"`
	Winner       string  `json:"winner"`
	CreatedAt    string  `json:"createdAt"`
	UpdatedAt    string  `json:"updatedAt"`
}

func toGameResponse(g *models.Game) gameResponse {
	resp := gameResponse{
		ID:         g.ID,
		Sport:      g.Sport,
		League:     g.League,
		HomeTeam:   g.HomeTeam,
		AwayTeam:   g.AwayTeam,
		GameDate:   g.GameDate.UTC().Format(time.RFC3339),
		Status:     g.Status,
		FinalScore: g.FinalScore,
		Winner:     g.Winner,
		CreatedAt:  g.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:  g.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if g.QualityScore.Valid {
		v := int(g.QualityScore.Int32)
		resp.QualityScore = &v
	}
	if g.IsClose.Valid {
		v := g.IsClose.Bool
		resp.IsClose = &v
	}
	if g.Excitement.Valid {
		v := g.Excitement.String
		resp.Excitement = &v
	}
	if g.Analysis.Valid {
		v := g.Analysis.String
		resp.Analysis = &v
	}
	if g.LeadChanges.Valid {
		v := int(g.LeadChanges.Int32)
		resp.LeadChanges = &v
	}
	return resp
}

// handleAnalyze is the manual trigger, protected by the shared admin
// password carried in the JSON body
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if subtle.ConstantTimeCompare([]byte(body.Password), []byte(s.cfg.AdminPassword)) != 1 {
		s.writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	log.Info().Msg("Manual analysis triggered")
	s.runAndRespond(w, r)
}

// handleCron is the scheduled trigger, protected by a bearer token
func (s *Server) handleCron(w http.ResponseWriter, r *http.Request) {
	expected := "Bearer " + s.cfg.CronSecret
	if subtle.ConstantTimeCompare([]byte(r.Header.Get("Authorization")), []byte(expected)) != 1 {
		s.writeError(w, http.StatusUnauthorized, "Unauthorized", nil)
		return
	}

	log.Info().Msg("Scheduled analysis triggered")
	s.runAndRespond(w, r)
}

// runAndRespond runs the pipeline and reports its summary
func (s *Server) runAndRespond(w http.ResponseWriter, r *http.Request) {
	summary, err := s.runner.Run(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Analysis run failed")
		s.writeError(w, http.StatusInternalServerError, "Analysis failed", err)
		return
	}

	// New ratings are visible on the next listing
	s.cache.Delete(r.Context(), cache.KeyRecentGames)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf(
			"Analyzed %d new games out of %d total games found.",
			summary.AnalyzedCount, summary.TotalGames,
		),
		"analyzedCount": summary.AnalyzedCount,
		"totalGames":    summary.TotalGames,
	})
}

// handleListGames returns the most recent analyzed games
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	limit := defaultGamesLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			s.writeError(w, http.StatusBadRequest, "Invalid limit parameter", err)
			return
		}
		limit = parsed
	}

	// Only the default listing is cached so invalidation stays a single key
	useCache := limit == defaultGamesLimit
	if useCache {
		if cached, ok := s.cache.Get(r.Context(), cache.KeyRecentGames); ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
	}

	games, err := s.games.ListRecentAnalyzed(r.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list games")
		s.writeError(w, http.StatusInternalServerError, "Failed to fetch games", err)
		return
	}

	responses := make([]gameResponse, 0, len(games))
	for _, g := range games {
		responses = append(responses, toGameResponse(g))
	}

	payload, err := json.Marshal(map[string]any{
		"games": responses,
		"count": len(responses),
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "Failed to encode games", err)
		return
	}

	if useCache {
		s.cache.Set(r.Context(), cache.KeyRecentGames, payload, time.Duration(s.cfg.CacheTTLGames)*time.Second)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// handleGetGame returns one game by its identity slug
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	game, err := s.games.GetByID(r.Context(), id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("Failed to get game")
		s.writeError(w, http.StatusInternalServerError, "Failed to fetch game", err)
		return
	}
	if game == nil {
		s.writeError(w, http.StatusNotFound, "Game not found", nil)
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{"game": toGameResponse(game)})
}

// handleHealth reports service and dependency health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := map[string]string{}

	if s.dbHealth != nil {
		if err := s.dbHealth(r.Context()); err != nil {
			checks["database"] = "unhealthy"
			status = http.StatusServiceUnavailable
		} else {
			checks["database"] = "healthy"
		}
	}

	if err := s.cache.Health(r.Context()); err != nil {
		// The cache is optional; degraded, not down
		checks["cache"] = "unavailable"
	} else {
		checks["cache"] = "healthy"
	}

	body := map[string]any{"status": "healthy", "checks": checks}
	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	s.writeJSON(w, status, body)
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

// writeError writes a JSON error. Underlying error detail is only exposed
// when diagnostics are enabled; operators read the logs instead.
func (s *Server) writeError(w http.ResponseWriter, status int, message string, err error) {
	metrics.RecordError("server", http.StatusText(status))

	body := map[string]any{"error": message}
	if err != nil && s.cfg.EnableDiagnostics {
		body["details"] = err.Error()
	}
	s.writeJSON(w, status, body)
}
