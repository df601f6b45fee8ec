// Package repository provides PostgreSQL persistence for games, plays,
// ratings, predictions, and backtest results.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// GameRepository defines operations for game data access
type GameRepository interface {
	Upsert(ctx context.Context, game *models.Game) error
	UpsertBatch(ctx context.Context, games []models.Game) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Game, error)
	GetBySeason(ctx context.Context, season int) ([]*models.Game, error)
	GetByWeek(ctx context.Context, season, week int) ([]*models.Game, error)
	UpdateClosingLines(ctx context.Context, id uuid.UUID, spread, total *float64) error
}

// PlayRepository defines operations for play-by-play data access
type PlayRepository interface {
	InsertBatch(ctx context.Context, plays []models.PlayRecord) (int, error)
	GetBySeason(ctx context.Context, season int) ([]models.PlayRecord, error)
	DeleteSeason(ctx context.Context, season int) error
	CountBySeason(ctx context.Context, season int) (int, error)
}

// RatingRepository defines operations for weekly rating persistence
type RatingRepository interface {
	UpsertBatch(ctx context.Context, season int, ratings []models.TeamWeekRating) error
	GetBySeason(ctx context.Context, season int) ([]models.TeamWeekRating, error)
}

// PredictionRepository defines operations for prediction persistence
type PredictionRepository interface {
	Create(ctx context.Context, prediction *models.Prediction) error
	CreateWithTx(ctx context.Context, tx pgx.Tx, prediction *models.Prediction) error
	GetByGame(ctx context.Context, gameID uuid.UUID) ([]*models.Prediction, error)
	GetBySeasonWeek(ctx context.Context, season, week int) ([]*models.Prediction, error)
}

// BacktestResultRepository defines operations for graded backtest rows
type BacktestResultRepository interface {
	UpsertBatch(ctx context.Context, records []models.BacktestRecord) error
	GetBySeason(ctx context.Context, season int) ([]models.BacktestRecord, error)
	DeleteSeason(ctx context.Context, season int) error
}
