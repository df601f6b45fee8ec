package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const upsertBacktestResultQuery = `
	INSERT INTO backtest_results (prediction_id, game_id, season, week, home_team, away_team,
		predicted_margin, actual_margin, margin_error, signed_error,
		home_win_probability, correct_winner,
		predicted_total, actual_total, vegas_total, total_edge, total_pick, total_covered,
		model_spread, vegas_spread, edge, ats_pick, covered, clv, used_priors)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		$16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	ON CONFLICT (prediction_id) DO UPDATE SET
		actual_margin  = EXCLUDED.actual_margin,
		margin_error   = EXCLUDED.margin_error,
		signed_error   = EXCLUDED.signed_error,
		correct_winner = EXCLUDED.correct_winner,
		actual_total   = EXCLUDED.actual_total,
		vegas_total    = EXCLUDED.vegas_total,
		total_edge     = EXCLUDED.total_edge,
		total_pick     = EXCLUDED.total_pick,
		total_covered  = EXCLUDED.total_covered,
		vegas_spread   = EXCLUDED.vegas_spread,
		edge           = EXCLUDED.edge,
		ats_pick       = EXCLUDED.ats_pick,
		covered        = EXCLUDED.covered,
		clv            = EXCLUDED.clv`

// PostgresBacktestResultRepository implements BacktestResultRepository for PostgreSQL
type PostgresBacktestResultRepository struct {
	db *database.DB
}

// NewPostgresBacktestResultRepository creates a new backtest result repository
func NewPostgresBacktestResultRepository(db *database.DB) BacktestResultRepository {
	return &PostgresBacktestResultRepository{db: db}
}

// UpsertBatch stores graded records, one row per prediction. Undefined
// edges persist as NULL so re-reads cannot mistake them for zero edge.
func (r *PostgresBacktestResultRepository) UpsertBatch(ctx context.Context, records []models.BacktestRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for i := range records {
		rec := &records[i]
		batch.Queue(upsertBacktestResultQuery,
			rec.PredictionID, rec.GameID, rec.Season, rec.Week, rec.HomeTeam, rec.AwayTeam,
			rec.PredictedMargin, rec.ActualMargin, rec.MarginError, rec.SignedError,
			rec.HomeWinProbability, rec.CorrectWinner,
			rec.PredictedTotal, rec.ActualTotal, rec.VegasTotal,
			metricToNull(rec.TotalEdge), string(rec.TotalPick), rec.TotalCovered,
			rec.ModelSpread, rec.VegasSpread,
			metricToNull(rec.Edge), string(rec.ATSPick), rec.Covered, rec.CLV, rec.UsedPriors,
		)
	}

	results := r.db.GetPool().SendBatch(ctx, batch)
	defer results.Close()

	for range records {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to upsert backtest results: %w", err)
		}
	}
	return nil
}

// GetBySeason retrieves all graded records for a season
func (r *PostgresBacktestResultRepository) GetBySeason(ctx context.Context, season int) ([]models.BacktestRecord, error) {
	query := `
		SELECT prediction_id, game_id, season, week, home_team, away_team,
		       predicted_margin, actual_margin, margin_error, signed_error,
		       home_win_probability, correct_winner,
		       predicted_total, actual_total, vegas_total, total_edge, total_pick, total_covered,
		       model_spread, vegas_spread, edge, ats_pick, covered, clv, used_priors
		FROM backtest_results
		WHERE season = $1
		ORDER BY week ASC, home_team ASC`

	rows, err := r.db.GetPool().Query(ctx, query, season)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest results: %w", err)
	}
	defer rows.Close()

	var records []models.BacktestRecord
	for rows.Next() {
		var rec models.BacktestRecord
		var totalEdge, edge *float64
		var totalPick, atsPick string
		err := rows.Scan(
			&rec.PredictionID, &rec.GameID, &rec.Season, &rec.Week, &rec.HomeTeam, &rec.AwayTeam,
			&rec.PredictedMargin, &rec.ActualMargin, &rec.MarginError, &rec.SignedError,
			&rec.HomeWinProbability, &rec.CorrectWinner,
			&rec.PredictedTotal, &rec.ActualTotal, &rec.VegasTotal, &totalEdge, &totalPick, &rec.TotalCovered,
			&rec.ModelSpread, &rec.VegasSpread, &edge, &atsPick, &rec.Covered, &rec.CLV, &rec.UsedPriors,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan backtest result: %w", err)
		}
		rec.TotalEdge = nullToMetric(totalEdge)
		rec.Edge = nullToMetric(edge)
		rec.TotalPick = models.TotalPick(totalPick)
		rec.ATSPick = models.ATSPick(atsPick)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// DeleteSeason removes all graded records for a season before a re-run
func (r *PostgresBacktestResultRepository) DeleteSeason(ctx context.Context, season int) error {
	if _, err := r.db.GetPool().Exec(ctx, "DELETE FROM backtest_results WHERE season = $1", season); err != nil {
		return fmt.Errorf("failed to delete backtest results for season %d: %w", season, err)
	}
	return nil
}
