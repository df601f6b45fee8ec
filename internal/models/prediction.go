package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PredictionInputs carries the raw ratings and constants a prediction
// was derived from, so the backtest can audit the computation without
// hidden state.
type PredictionInputs struct {
	HomeOffEPA        float64 `json:"home_off_epa"`
	HomeDefEPAAllowed float64 `json:"home_def_epa_allowed"`
	AwayOffEPA        float64 `json:"away_off_epa"`
	AwayDefEPAAllowed float64 `json:"away_def_epa_allowed"`
	HomePower         float64 `json:"home_power"`
	AwayPower         float64 `json:"away_power"`
	Scale             float64 `json:"scale"`
	HomeFieldAdv      float64 `json:"home_field_adv"`
	LeagueAvgTotal    float64 `json:"league_avg_total"`
	TotalScale        float64 `json:"total_scale"`
}

// Prediction is a model forecast for one game. PredictedMargin is
// signed from the home perspective (positive = home predicted winner);
// ModelSpread is its negation, matching the home-favorite spread
// convention. UsedPriors flags predictions built from neutral priors
// rather than real form.
type Prediction struct {
	ID                 uuid.UUID        `db:"id" json:"id" validate:"required"`
	GameID             uuid.UUID        `db:"game_id" json:"game_id" validate:"required"`
	Season             int              `db:"season" json:"season"`
	Week               int              `db:"week" json:"week"`
	HomeTeam           string           `db:"home_team" json:"home_team"`
	AwayTeam           string           `db:"away_team" json:"away_team"`
	PredictedMargin    float64          `db:"predicted_margin" json:"predicted_margin"`
	PredictedTotal     float64          `db:"predicted_total" json:"predicted_total"`
	PredictedHomeScore float64          `db:"predicted_home_score" json:"predicted_home_score"`
	PredictedAwayScore float64          `db:"predicted_away_score" json:"predicted_away_score"`
	HomeWinProbability float64          `db:"home_win_probability" json:"home_win_probability" validate:"gte=0,lte=1"`
	ModelSpread        float64          `db:"model_spread" json:"model_spread"`
	WinProbModel       string           `db:"win_prob_model" json:"win_prob_model"`
	UsedPriors         bool             `db:"used_priors" json:"used_priors"`
	Inputs             PredictionInputs `db:"inputs" json:"inputs"`
	PredictedAt        time.Time        `db:"predicted_at" json:"predicted_at"`
}

// MarshalInputs serializes the audit inputs for persistence
func (p *Prediction) MarshalInputs() ([]byte, error) {
	return json.Marshal(p.Inputs)
}

// HomeFavored reports whether the model favors the home team
func (p *Prediction) HomeFavored() bool {
	return p.PredictedMargin > 0
}
