// Package backtest grades predictions against actual results and
// market lines, and aggregates accuracy and profitability metrics.
package backtest

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/oddsmath"
)

// Evaluator joins predictions with completed games and grades winner,
// spread, and totals outcomes. Games below the edge threshold are not
// bet at all: they never enter a win-rate denominator. Pushes are
// graded nil and likewise excluded.
type Evaluator struct {
	cfg config.ModelConfig
	log *logrus.Logger
}

// NewEvaluator creates a backtest evaluator
func NewEvaluator(cfg config.ModelConfig, log *logrus.Logger) (*Evaluator, error) {
	if cfg.MinEdgeThreshold < 0 {
		return nil, fmt.Errorf("min edge threshold must not be negative, got %v", cfg.MinEdgeThreshold)
	}
	return &Evaluator{cfg: cfg, log: log}, nil
}

// Evaluate grades each prediction against its game. Predictions whose
// game is missing or unscored are skipped with a warning rather than
// failing the batch; skipped counts are reported by the caller's
// metrics via the record count difference.
func (e *Evaluator) Evaluate(predictions []models.Prediction, games map[uuid.UUID]*models.Game) ([]models.BacktestRecord, error) {
	records := make([]models.BacktestRecord, 0, len(predictions))

	for i := range predictions {
		prediction := &predictions[i]
		game, ok := games[prediction.GameID]
		if !ok {
			e.warn(prediction, "no game found for prediction")
			continue
		}

		record, err := e.grade(prediction, game)
		if err != nil {
			e.warn(prediction, err.Error())
			continue
		}
		records = append(records, *record)
	}

	return records, nil
}

func (e *Evaluator) warn(prediction *models.Prediction, reason string) {
	if e.log == nil {
		return
	}
	e.log.WithFields(logrus.Fields{
		"game_id":   prediction.GameID,
		"week":      prediction.Week,
		"home_team": prediction.HomeTeam,
		"away_team": prediction.AwayTeam,
		"reason":    reason,
	}).Warn("Skipping ungradeable prediction")
}

// grade produces the full per-game record for one prediction
func (e *Evaluator) grade(prediction *models.Prediction, game *models.Game) (*models.BacktestRecord, error) {
	actualMargin, ok := game.ActualMargin()
	if !ok {
		return nil, fmt.Errorf("game %s has no final score: %w", game.ID, models.ErrMissingScore)
	}
	actualTotal, _ := game.ActualTotal()

	record := &models.BacktestRecord{
		PredictionID:       prediction.ID,
		GameID:             game.ID,
		Season:             game.Season,
		Week:               game.Week,
		HomeTeam:           game.HomeTeam,
		AwayTeam:           game.AwayTeam,
		PredictedMargin:    prediction.PredictedMargin,
		ActualMargin:       actualMargin,
		MarginError:        math.Abs(prediction.PredictedMargin - actualMargin),
		SignedError:        prediction.PredictedMargin - actualMargin,
		HomeWinProbability: prediction.HomeWinProbability,
		CorrectWinner:      gradeWinner(prediction.PredictedMargin, actualMargin),
		PredictedTotal:     prediction.PredictedTotal,
		ActualTotal:        actualTotal,
		ModelSpread:        prediction.ModelSpread,
		Edge:               models.Undefined(),
		TotalEdge:          models.Undefined(),
		UsedPriors:         prediction.UsedPriors,
	}

	e.gradeSpread(record, game, actualMargin)
	e.gradeTotal(record, game, actualTotal)
	return record, nil
}

// gradeWinner compares margin signs; a zero on either side is a push
// and is excluded from the winner accuracy denominator
func gradeWinner(predicted, actual float64) *bool {
	if predicted == 0 || actual == 0 {
		return nil
	}
	correct := (predicted > 0) == (actual > 0)
	return &correct
}

// gradeSpread grades the ATS side of the record. A bet exists only
// when the edge clears the configured threshold; the pick is the side
// the model thinks the market underrates.
func (e *Evaluator) gradeSpread(record *models.BacktestRecord, game *models.Game, actualMargin float64) {
	if game.SpreadLine == nil {
		return
	}
	vegasSpread := *game.SpreadLine
	record.VegasSpread = game.SpreadLine
	record.Edge = record.ModelSpread - vegasSpread

	if math.Abs(record.Edge) < e.cfg.MinEdgeThreshold {
		return
	}

	if record.Edge > 0 {
		record.ATSPick = models.ATSPickAway
	} else {
		record.ATSPick = models.ATSPickHome
	}

	// Cover margin relative to the home spread; exactly zero is a push.
	coverMargin := actualMargin + vegasSpread
	switch {
	case coverMargin == 0:
		record.Covered = nil
	case record.ATSPick == models.ATSPickHome:
		covered := coverMargin > 0
		record.Covered = &covered
	default:
		covered := coverMargin < 0
		record.Covered = &covered
	}

	if game.CloseSpreadLine != nil {
		clv := oddsmath.SpreadCLV(vegasSpread, *game.CloseSpreadLine, record.ATSPick == models.ATSPickHome)
		record.CLV = &clv
	}
}

// gradeTotal grades the totals side with the same edge threshold and
// push rule as spreads
func (e *Evaluator) gradeTotal(record *models.BacktestRecord, game *models.Game, actualTotal float64) {
	if game.TotalLine == nil {
		return
	}
	totalLine := *game.TotalLine
	record.VegasTotal = game.TotalLine
	record.TotalEdge = record.PredictedTotal - totalLine

	if math.Abs(record.TotalEdge) < e.cfg.MinEdgeThreshold {
		return
	}

	if record.TotalEdge > 0 {
		record.TotalPick = models.TotalPickOver
	} else {
		record.TotalPick = models.TotalPickUnder
	}

	switch {
	case actualTotal == totalLine:
		record.TotalCovered = nil
	case record.TotalPick == models.TotalPickOver:
		covered := actualTotal > totalLine
		record.TotalCovered = &covered
	default:
		covered := actualTotal < totalLine
		record.TotalCovered = &covered
	}
}
