package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const upsertRatingQuery = `
	INSERT INTO team_week_ratings (season, week, team, side, plays,
		epa_per_play, success_rate, explosive_rate, yards_per_play,
		pass_epa, rush_epa, third_down_rate, red_zone_td_rate, undefined_epa)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (season, week, team, side) DO UPDATE SET
		plays            = EXCLUDED.plays,
		epa_per_play     = EXCLUDED.epa_per_play,
		success_rate     = EXCLUDED.success_rate,
		explosive_rate   = EXCLUDED.explosive_rate,
		yards_per_play   = EXCLUDED.yards_per_play,
		pass_epa         = EXCLUDED.pass_epa,
		rush_epa         = EXCLUDED.rush_epa,
		third_down_rate  = EXCLUDED.third_down_rate,
		red_zone_td_rate = EXCLUDED.red_zone_td_rate,
		undefined_epa    = EXCLUDED.undefined_epa`

// PostgresRatingRepository implements RatingRepository for PostgreSQL
type PostgresRatingRepository struct {
	db *database.DB
}

// NewPostgresRatingRepository creates a new rating repository
func NewPostgresRatingRepository(db *database.DB) RatingRepository {
	return &PostgresRatingRepository{db: db}
}

// UpsertBatch stores weekly ratings, mapping undefined metrics to NULL
func (r *PostgresRatingRepository) UpsertBatch(ctx context.Context, season int, ratings []models.TeamWeekRating) error {
	if len(ratings) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range ratings {
		rating := &ratings[i]
		batch.Queue(upsertRatingQuery,
			season, rating.Week, rating.Team, string(rating.Side), rating.Plays,
			metricToNull(rating.EPAPerPlay), metricToNull(rating.SuccessRate),
			metricToNull(rating.ExplosiveRate), metricToNull(rating.YardsPerPlay),
			metricToNull(rating.PassEPA), metricToNull(rating.RushEPA),
			metricToNull(rating.ThirdDownRate), metricToNull(rating.RedZoneTDRate),
			rating.UndefinedEPA,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range ratings {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert rating batch: %w", err)
		}
	}
	return nil
}

// GetBySeason retrieves all weekly ratings for a season, restoring the
// undefined-metric marker from NULL columns
func (r *PostgresRatingRepository) GetBySeason(ctx context.Context, season int) ([]models.TeamWeekRating, error) {
	query := `
		SELECT season, week, team, side, plays,
		       epa_per_play, success_rate, explosive_rate, yards_per_play,
		       pass_epa, rush_epa, third_down_rate, red_zone_td_rate, undefined_epa
		FROM team_week_ratings
		WHERE season = $1
		ORDER BY week ASC, team ASC, side ASC`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings by season: %w", err)
	}
	defer rows.Close()

	var ratings []models.TeamWeekRating
	for rows.Next() {
		var rating models.TeamWeekRating
		var side string
		var epa, success, explosive, yards, passEPA, rushEPA, thirdDown, redZone *float64
		err := rows.Scan(
			&rating.Season, &rating.Week, &rating.Team, &side, &rating.Plays,
			&epa, &success, &explosive, &yards,
			&passEPA, &rushEPA, &thirdDown, &redZone, &rating.UndefinedEPA,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		rating.Side = models.Side(side)
		rating.EPAPerPlay = nullToMetric(epa)
		rating.SuccessRate = nullToMetric(success)
		rating.ExplosiveRate = nullToMetric(explosive)
		rating.YardsPerPlay = nullToMetric(yards)
		rating.PassEPA = nullToMetric(passEPA)
		rating.RushEPA = nullToMetric(rushEPA)
		rating.ThirdDownRate = nullToMetric(thirdDown)
		rating.RedZoneTDRate = nullToMetric(redZone)
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}
