package models

import (
	"github.com/google/uuid"
)

// ATSPick is the side of a spread bet the model recommends
type ATSPick string

const (
	ATSPickHome ATSPick = "home"
	ATSPickAway ATSPick = "away"
	ATSPickNone ATSPick = ""
)

// TotalPick is the side of a totals bet the model recommends
type TotalPick string

const (
	TotalPickOver  TotalPick = "over"
	TotalPickUnder TotalPick = "under"
	TotalPickNone  TotalPick = ""
)

// BacktestRecord joins one prediction with the actual result and,
// when available, the market line. Tri-state outcomes use *bool: nil
// means push (or no graded bet), which is excluded from win-rate
// denominators rather than counted as a loss. Edge is Undefined when
// no market line exists.
type BacktestRecord struct {
	PredictionID  uuid.UUID `json:"prediction_id"`
	GameID        uuid.UUID `json:"game_id"`
	Season        int       `json:"season"`
	Week          int       `json:"week"`
	HomeTeam      string    `json:"home_team"`
	AwayTeam      string    `json:"away_team"`

	PredictedMargin    float64 `json:"predicted_margin"`
	ActualMargin       float64 `json:"actual_margin"`
	MarginError        float64 `json:"margin_error"`
	SignedError        float64 `json:"signed_error"`
	HomeWinProbability float64 `json:"home_win_probability"`
	CorrectWinner      *bool   `json:"correct_winner"`

	PredictedTotal float64   `json:"predicted_total"`
	ActualTotal    float64   `json:"actual_total"`
	VegasTotal     *float64  `json:"vegas_total"`
	TotalEdge      float64   `json:"total_edge"`
	TotalPick      TotalPick `json:"total_pick"`
	TotalCovered   *bool     `json:"total_covered"`

	ModelSpread float64  `json:"model_spread"`
	VegasSpread *float64 `json:"vegas_spread"`
	Edge        float64  `json:"edge"`
	ATSPick     ATSPick  `json:"ats_pick"`
	Covered     *bool    `json:"covered"`

	CLV        *float64 `json:"clv"`
	UsedPriors bool     `json:"used_priors"`
}

// HasSpreadBet reports whether the record carries a graded spread pick
func (r *BacktestRecord) HasSpreadBet() bool {
	return r.ATSPick != ATSPickNone
}

// HasTotalBet reports whether the record carries a graded totals pick
func (r *BacktestRecord) HasTotalBet() bool {
	return r.TotalPick != TotalPickNone
}
