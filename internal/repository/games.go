package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"spoilerfree/ingestion/internal/metrics"
	"spoilerfree/ingestion/internal/models"
)

// GameRepository handles game database operations
type GameRepository struct {
	db *Database
}

const gameColumns = `
	id, sport, league, home_team, away_team, game_date, status,
	quality_score, is_close, excitement, analysis, lead_changes,
	final_score, winner, created_at, updated_at
`

func scanGame(row pgx.Row) (*models.Game, error) {
	var game models.Game
	err := row.Scan(
		&game.ID, &game.Sport, &game.League, &game.HomeTeam, &game.AwayTeam,
		&game.GameDate, &game.Status,
		&game.QualityScore, &game.IsClose, &game.Excitement, &game.Analysis, &game.LeadChanges,
		&game.FinalScore, &game.Winner, &game.CreatedAt, &game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}

// Upsert inserts or updates a game keyed by its identity slug. Calling it
// repeatedly with the same identity always yields one logical row.
func (r *GameRepository) Upsert(ctx context.Context, game *models.Game) error {
	query := `
		INSERT INTO games (
			id, sport, league, home_team, away_team, game_date, status,
			quality_score, is_close, excitement, analysis, lead_changes,
			final_score, winner
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			quality_score = EXCLUDED.quality_score,
			is_close = EXCLUDED.is_close,
			excitement = EXCLUDED.excitement,
			analysis = EXCLUDED.analysis,
			lead_changes = EXCLUDED.lead_changes,
			final_score = EXCLUDED.final_score,
			winner = EXCLUDED.winner,
			updated_at = NOW()
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(
		ctx, query,
		game.ID, game.Sport, game.League, game.HomeTeam, game.AwayTeam, game.GameDate, game.Status,
		game.QualityScore, game.IsClose, game.Excitement, game.Analysis, game.LeadChanges,
		game.FinalScore, game.Winner,
	).Scan(&game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		metrics.RecordDBQuery("upsert_game", "error")
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	metrics.RecordDBQuery("upsert_game", "success")

	log.Debug().
		Str("id", game.ID).
		Str("home", game.HomeTeam).
		Str("away", game.AwayTeam).
		Msg("Game upserted")

	return nil
}

// GetByID retrieves a game by its identity slug, returning nil when absent
func (r *GameRepository) GetByID(ctx context.Context, id string) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		metrics.RecordDBQuery("get_game", "success")
		return nil, nil
	}
	if err != nil {
		metrics.RecordDBQuery("get_game", "error")
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	metrics.RecordDBQuery("get_game", "success")
	return game, nil
}

// FindByIdentity looks up a game by its (sport, home, away, date) identity
// tuple, returning nil when no record exists
func (r *GameRepository) FindByIdentity(ctx context.Context, sport, homeTeam, awayTeam string, gameDate time.Time) (*models.Game, error) {
	return r.GetByID(ctx, models.IdentityKey(sport, homeTeam, awayTeam, gameDate))
}

// ListRecentAnalyzed retrieves analyzed games, newest game date first.
// Records without analysis text never surface here, so readers cannot see
// a partially-processed game.
func (r *GameRepository) ListRecentAnalyzed(ctx context.Context, limit int) ([]*models.Game, error) {
	query := `
		SELECT ` + gameColumns + `
		FROM games
		WHERE analysis IS NOT NULL
		ORDER BY game_date DESC
		LIMIT $1
	`

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		metrics.RecordDBQuery("list_recent_analyzed", "error")
		return nil, fmt.Errorf("failed to list analyzed games: %w", err)
	}
	defer rows.Close()

	var games []*models.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		metrics.RecordDBQuery("list_recent_analyzed", "error")
		return nil, fmt.Errorf("error iterating games: %w", err)
	}

	metrics.RecordDBQuery("list_recent_analyzed", "success")
	log.Debug().Int("count", len(games)).Msg("Retrieved analyzed games")
	return games, nil
}

// LatestAnalyzedGameDate returns the game date of the most recently played
// analyzed game. The second return is false when nothing has been analyzed
// yet, which switches the orchestrator to its trailing-window scan.
func (r *GameRepository) LatestAnalyzedGameDate(ctx context.Context) (time.Time, bool, error) {
	query := `SELECT MAX(game_date) FROM games WHERE analysis IS NOT NULL`

	var latest *time.Time
	if err := r.db.Pool.QueryRow(ctx, query).Scan(&latest); err != nil {
		metrics.RecordDBQuery("latest_analyzed", "error")
		return time.Time{}, false, fmt.Errorf("failed to get latest analyzed game date: %w", err)
	}

	metrics.RecordDBQuery("latest_analyzed", "success")
	if latest == nil {
		return time.Time{}, false, nil
	}
	return *latest, true, nil
}

// Count returns the total number of games
func (r *GameRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM games`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count games: %w", err)
	}
	return count, nil
}
