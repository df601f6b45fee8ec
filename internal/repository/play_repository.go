package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// PostgresPlayRepository implements PlayRepository for PostgreSQL
type PostgresPlayRepository struct {
	db *database.DB
}

// NewPostgresPlayRepository creates a new play repository
func NewPostgresPlayRepository(db *database.DB) PlayRepository {
	return &PostgresPlayRepository{db: db}
}

// InsertBatch bulk-loads plays via COPY and returns the row count
func (r *PostgresPlayRepository) InsertBatch(ctx context.Context, plays []models.PlayRecord) (int, error) {
	if len(plays) == 0 {
		return 0, nil
	}

	columns := []string{
		"game_id", "season", "week", "offense_team", "defense_team",
		"down", "yards_gained", "yardline", "epa", "success",
		"play_type", "touchdown", "first_down",
	}

	count, err := r.db.GetPool().CopyFrom(
		ctx,
		pgx.Identifier{"plays"},
		columns,
		pgx.CopyFromSlice(len(plays), func(i int) ([]any, error) {
			p := plays[i]
			return []any{
				p.GameID, p.Season, p.Week, p.OffenseTeam, p.DefenseTeam,
				p.Down, p.YardsGained, p.Yardline, p.EPA, p.Success,
				string(p.PlayType), p.Touchdown, p.FirstDown,
			}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy plays: %w", err)
	}

	return int(count), nil
}

// GetBySeason retrieves all plays for a season in week order
func (r *PostgresPlayRepository) GetBySeason(ctx context.Context, season int) ([]models.PlayRecord, error) {
	query := `
		SELECT game_id, season, week, offense_team, defense_team,
		       down, yards_gained, yardline, epa, success,
		       play_type, touchdown, first_down
		FROM plays
		WHERE season = $1
		ORDER BY week ASC, id ASC`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query plays by season: %w", err)
	}
	defer rows.Close()

	var plays []models.PlayRecord
	for rows.Next() {
		var play models.PlayRecord
		var playType string
		err := rows.Scan(
			&play.GameID, &play.Season, &play.Week, &play.OffenseTeam, &play.DefenseTeam,
			&play.Down, &play.YardsGained, &play.Yardline, &play.EPA, &play.Success,
			&playType, &play.Touchdown, &play.FirstDown,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan play: %w", err)
		}
		play.PlayType = models.PlayType(playType)
		plays = append(plays, play)
	}

	return plays, rows.Err()
}

// DeleteSeason removes all plays for a season, used before a re-ingest
func (r *PostgresPlayRepository) DeleteSeason(ctx context.Context, season int) error {
	if _, err := r.db.GetPool().Exec(ctx, "DELETE FROM plays WHERE season = $1", season); err != nil {
		return fmt.Errorf("failed to delete plays for season %d: %w", season, err)
	}
	return nil
}

// CountBySeason returns the number of stored plays for a season
func (r *PostgresPlayRepository) CountBySeason(ctx context.Context, season int) (int, error) {
	var count int
	err := r.db.GetPool().QueryRow(ctx, "SELECT COUNT(*) FROM plays WHERE season = $1", season).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count plays: %w", err)
	}
	return count, nil
}
