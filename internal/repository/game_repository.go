package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanGame = "failed to scan game: %w"

const gameColumns = `
	id, season, week, game_type, kickoff, home_team, away_team,
	home_score, away_score, spread_line, total_line,
	close_spread_line, close_total_line, created_at, updated_at`

const upsertGameQuery = `
	INSERT INTO games (id, season, week, game_type, kickoff, home_team, away_team,
	                   home_score, away_score, spread_line, total_line,
	                   close_spread_line, close_total_line, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW(), NOW())
	ON CONFLICT (id) DO UPDATE SET
		home_score        = EXCLUDED.home_score,
		away_score        = EXCLUDED.away_score,
		spread_line       = COALESCE(EXCLUDED.spread_line, games.spread_line),
		total_line        = COALESCE(EXCLUDED.total_line, games.total_line),
		close_spread_line = COALESCE(EXCLUDED.close_spread_line, games.close_spread_line),
		close_total_line  = COALESCE(EXCLUDED.close_total_line, games.close_total_line),
		updated_at        = NOW()`

// PostgresGameRepository implements GameRepository for PostgreSQL
type PostgresGameRepository struct {
	db *database.DB
}

// NewPostgresGameRepository creates a new game repository
func NewPostgresGameRepository(db *database.DB) GameRepository {
	return &PostgresGameRepository{db: db}
}

// Upsert inserts or updates one game. Lines only move forward: an
// incoming NULL never erases a line already on record.
func (r *PostgresGameRepository) Upsert(ctx context.Context, game *models.Game) error {
	_, err := r.db.GetPool().Exec(ctx, upsertGameQuery,
		game.ID, game.Season, game.Week, game.GameType, game.Kickoff,
		game.HomeTeam, game.AwayTeam, game.HomeScore, game.AwayScore,
		game.SpreadLine, game.TotalLine, game.CloseSpreadLine, game.CloseTotalLine,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}

// UpsertBatch inserts or updates games over a single round trip
func (r *PostgresGameRepository) UpsertBatch(ctx context.Context, games []models.Game) error {
	if len(games) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range games {
		game := &games[i]
		batch.Queue(upsertGameQuery,
			game.ID, game.Season, game.Week, game.GameType, game.Kickoff,
			game.HomeTeam, game.AwayTeam, game.HomeScore, game.AwayScore,
			game.SpreadLine, game.TotalLine, game.CloseSpreadLine, game.CloseTotalLine,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range games {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert game batch: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a game by ID
func (r *PostgresGameRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game := &models.Game{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&game.ID, &game.Season, &game.Week, &game.GameType, &game.Kickoff,
		&game.HomeTeam, &game.AwayTeam, &game.HomeScore, &game.AwayScore,
		&game.SpreadLine, &game.TotalLine, &game.CloseSpreadLine, &game.CloseTotalLine,
		&game.CreatedAt, &game.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game: %w", err)
	}

	return game, nil
}

// GetBySeason retrieves all games for a season ordered by week
func (r *PostgresGameRepository) GetBySeason(ctx context.Context, season int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1
		ORDER BY week ASC, kickoff ASC, home_team ASC`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by season: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// GetByWeek retrieves all games for one week
func (r *PostgresGameRepository) GetByWeek(ctx context.Context, season, week int) ([]*models.Game, error) {
	query := `SELECT ` + gameColumns + `
		FROM games
		WHERE season = $1 AND week = $2
		ORDER BY kickoff ASC, home_team ASC`

	rows, err := r.db.GetPool().Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query games by week: %w", err)
	}
	defer rows.Close()

	return scanGames(rows)
}

// UpdateClosingLines records the final pre-game market for a game
func (r *PostgresGameRepository) UpdateClosingLines(ctx context.Context, id uuid.UUID, spread, total *float64) error {
	query := `
		UPDATE games SET
			close_spread_line = COALESCE($2, close_spread_line),
			close_total_line  = COALESCE($3, close_total_line),
			updated_at        = NOW()
		WHERE id = $1`

	commandTag, err := r.db.GetPool().Exec(ctx, query, id, spread, total)
	if err != nil {
		return fmt.Errorf("failed to update closing lines: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func scanGames(rows pgx.Rows) ([]*models.Game, error) {
	var games []*models.Game
	for rows.Next() {
		game := &models.Game{}
		err := rows.Scan(
			&game.ID, &game.Season, &game.Week, &game.GameType, &game.Kickoff,
			&game.HomeTeam, &game.AwayTeam, &game.HomeScore, &game.AwayScore,
			&game.SpreadLine, &game.TotalLine, &game.CloseSpreadLine, &game.CloseTotalLine,
			&game.CreatedAt, &game.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanGame, err)
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
