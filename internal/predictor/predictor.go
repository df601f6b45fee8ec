// Package predictor converts matchup form into margin, total, and win
// probability predictions.
package predictor

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Predictor applies the linear rating formula to a matchup. All
// constants come from the injected configuration; there is no
// package-level state, so two predictors with different constants can
// coexist in one process.
type Predictor struct {
	cfg     config.ModelConfig
	winProb WinProbModel
	log     *logrus.Logger
}

// NewPredictor creates a predictor from model configuration
func NewPredictor(cfg config.ModelConfig, log *logrus.Logger) (*Predictor, error) {
	winProb, err := NewWinProbModel(cfg.WinProbModel, cfg.Sigma)
	if err != nil {
		return nil, fmt.Errorf("failed to create predictor: %w", err)
	}
	return &Predictor{cfg: cfg, winProb: winProb, log: log}, nil
}

// Predict produces a prediction for one matchup.
//
// Margin is computed as (away_power − home_power) × Scale −
// HomeFieldAdv, where a side's power is its cumulative offensive EPA
// minus its cumulative defensive EPA allowed. The sign convention
// follows directly from that formula; ModelSpread is always the exact
// negation of the margin. When either team lacks usable form the
// prediction falls back to neutral priors (home edge of HomeFieldAdv
// only) and is flagged with UsedPriors.
func (p *Predictor) Predict(m *models.Matchup) (*models.Prediction, error) {
	if m.HomeTeam == "" || m.AwayTeam == "" {
		return nil, fmt.Errorf("matchup for game %s: missing team names", m.GameID)
	}

	prediction := &models.Prediction{
		ID:           uuid.New(),
		GameID:       m.GameID,
		Season:       m.Season,
		Week:         m.Week,
		HomeTeam:     m.HomeTeam,
		AwayTeam:     m.AwayTeam,
		WinProbModel: p.winProb.Name(),
		PredictedAt:  time.Now().UTC(),
	}

	if !m.HasFullForm() {
		p.applyPriors(prediction)
	} else {
		p.applyForm(m, prediction)
	}

	prediction.ModelSpread = -prediction.PredictedMargin
	prediction.PredictedHomeScore = (prediction.PredictedTotal + prediction.PredictedMargin) / 2
	prediction.PredictedAwayScore = (prediction.PredictedTotal - prediction.PredictedMargin) / 2
	prediction.HomeWinProbability = p.winProb.Probability(prediction.PredictedMargin)

	if p.log != nil {
		p.log.WithFields(logrus.Fields{
			"game_id":          m.GameID,
			"home_team":        m.HomeTeam,
			"away_team":        m.AwayTeam,
			"predicted_margin": prediction.PredictedMargin,
			"used_priors":      prediction.UsedPriors,
		}).Debug("Matchup predicted")
	}

	return prediction, nil
}

// PredictAll predicts every matchup in order, attributing any failure
// to the game that caused it
func (p *Predictor) PredictAll(matchups []models.Matchup) ([]models.Prediction, error) {
	predictions := make([]models.Prediction, 0, len(matchups))
	for i := range matchups {
		prediction, err := p.Predict(&matchups[i])
		if err != nil {
			return nil, fmt.Errorf("week %d %s at %s: %w", matchups[i].Week, matchups[i].AwayTeam, matchups[i].HomeTeam, err)
		}
		predictions = append(predictions, *prediction)
	}
	return predictions, nil
}

func (p *Predictor) applyForm(m *models.Matchup, prediction *models.Prediction) {
	homeOff := m.HomeOffense.Cumulative.EPAPerPlay
	homeDef := m.HomeDefense.Cumulative.EPAPerPlay
	awayOff := m.AwayOffense.Cumulative.EPAPerPlay
	awayDef := m.AwayDefense.Cumulative.EPAPerPlay

	homePower := homeOff - homeDef
	awayPower := awayOff - awayDef

	prediction.PredictedMargin = (awayPower-homePower)*p.cfg.Scale - p.cfg.HomeFieldAdv
	prediction.PredictedTotal = p.cfg.LeagueAvgTotal + ((homeOff+awayOff)-(homeDef+awayDef))*p.cfg.TotalScale
	prediction.Inputs = models.PredictionInputs{
		HomeOffEPA:        homeOff,
		HomeDefEPAAllowed: homeDef,
		AwayOffEPA:        awayOff,
		AwayDefEPAAllowed: awayDef,
		HomePower:         homePower,
		AwayPower:         awayPower,
		Scale:             p.cfg.Scale,
		HomeFieldAdv:      p.cfg.HomeFieldAdv,
		LeagueAvgTotal:    p.cfg.LeagueAvgTotal,
		TotalScale:        p.cfg.TotalScale,
	}
}

// applyPriors builds a neutral-prior prediction: equal teams, home
// edge of HomeFieldAdv only, league-average total
func (p *Predictor) applyPriors(prediction *models.Prediction) {
	prediction.UsedPriors = true
	prediction.PredictedMargin = p.cfg.HomeFieldAdv
	prediction.PredictedTotal = p.cfg.LeagueAvgTotal
	prediction.Inputs = models.PredictionInputs{
		Scale:          p.cfg.Scale,
		HomeFieldAdv:   p.cfg.HomeFieldAdv,
		LeagueAvgTotal: p.cfg.LeagueAvgTotal,
		TotalScale:     p.cfg.TotalScale,
	}
}
