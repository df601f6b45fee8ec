package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const errScanPrediction = "failed to scan prediction: %w"

const insertPredictionQuery = `
	INSERT INTO predictions (id, game_id, season, week, home_team, away_team,
		predicted_margin, predicted_total, predicted_home_score, predicted_away_score,
		home_win_probability, model_spread, win_prob_model, used_priors, inputs, predicted_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

const selectPredictionColumns = `
	id, game_id, season, week, home_team, away_team,
	predicted_margin, predicted_total, predicted_home_score, predicted_away_score,
	home_win_probability, model_spread, win_prob_model, used_priors, inputs, predicted_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Create inserts a new prediction
func (r *PostgresPredictionRepository) Create(ctx context.Context, prediction *models.Prediction) error {
	inputs, err := prediction.MarshalInputs()
	if err != nil {
		return fmt.Errorf("failed to marshal prediction inputs: %w", err)
	}

	_, err = r.db.GetPool().Exec(ctx, insertPredictionQuery,
		prediction.ID, prediction.GameID, prediction.Season, prediction.Week,
		prediction.HomeTeam, prediction.AwayTeam,
		prediction.PredictedMargin, prediction.PredictedTotal,
		prediction.PredictedHomeScore, prediction.PredictedAwayScore,
		prediction.HomeWinProbability, prediction.ModelSpread,
		prediction.WinProbModel, prediction.UsedPriors, inputs, prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction: %w", err)
	}
	return nil
}

// CreateWithTx inserts a new prediction using a provided transaction
func (r *PostgresPredictionRepository) CreateWithTx(ctx context.Context, tx pgx.Tx, prediction *models.Prediction) error {
	inputs, err := prediction.MarshalInputs()
	if err != nil {
		return fmt.Errorf("failed to marshal prediction inputs: %w", err)
	}

	_, err = tx.Exec(ctx, insertPredictionQuery,
		prediction.ID, prediction.GameID, prediction.Season, prediction.Week,
		prediction.HomeTeam, prediction.AwayTeam,
		prediction.PredictedMargin, prediction.PredictedTotal,
		prediction.PredictedHomeScore, prediction.PredictedAwayScore,
		prediction.HomeWinProbability, prediction.ModelSpread,
		prediction.WinProbModel, prediction.UsedPriors, inputs, prediction.PredictedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create prediction within transaction: %w", err)
	}
	return nil
}

// GetByGame retrieves all predictions for a game, newest first
func (r *PostgresPredictionRepository) GetByGame(ctx context.Context, gameID uuid.UUID) ([]*models.Prediction, error) {
	query := `SELECT ` + selectPredictionColumns + `
		FROM predictions
		WHERE game_id = $1
		ORDER BY predicted_at DESC`

	rows, err := r.db.GetPool().Query(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by game: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

// GetBySeasonWeek retrieves all predictions for one week
func (r *PostgresPredictionRepository) GetBySeasonWeek(ctx context.Context, season, week int) ([]*models.Prediction, error) {
	query := `SELECT ` + selectPredictionColumns + `
		FROM predictions
		WHERE season = $1 AND week = $2
		ORDER BY home_team ASC, predicted_at DESC`

	rows, err := r.db.GetPool().Query(ctx, query, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions by week: %w", err)
	}
	defer rows.Close()

	return scanPredictions(rows)
}

func scanPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		prediction := &models.Prediction{}
		var inputs []byte
		err := rows.Scan(
			&prediction.ID, &prediction.GameID, &prediction.Season, &prediction.Week,
			&prediction.HomeTeam, &prediction.AwayTeam,
			&prediction.PredictedMargin, &prediction.PredictedTotal,
			&prediction.PredictedHomeScore, &prediction.PredictedAwayScore,
			&prediction.HomeWinProbability, &prediction.ModelSpread,
			&prediction.WinProbModel, &prediction.UsedPriors, &inputs, &prediction.PredictedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanPrediction, err)
		}
		if len(inputs) > 0 {
			if err := json.Unmarshal(inputs, &prediction.Inputs); err != nil {
				return nil, fmt.Errorf("failed to decode prediction inputs: %w", err)
			}
		}
		predictions = append(predictions, prediction)
	}
	return predictions, rows.Err()
}
