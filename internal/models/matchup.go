package models

import (
	"github.com/google/uuid"
)

// Matchup pairs a scheduled game with each team's most recent trailing
// form on both sides of the ball, plus the market lines if available.
// Any of the form pointers may be nil (week 1, new team); the predictor
// falls back to neutral priors in that case.
type Matchup struct {
	GameID      uuid.UUID    `json:"game_id"`
	Season      int          `json:"season"`
	Week        int          `json:"week"`
	HomeTeam    string       `json:"home_team"`
	AwayTeam    string       `json:"away_team"`
	HomeOffense *RollingForm `json:"home_offense"`
	HomeDefense *RollingForm `json:"home_defense"`
	AwayOffense *RollingForm `json:"away_offense"`
	AwayDefense *RollingForm `json:"away_defense"`
	SpreadLine  *float64     `json:"spread_line"`
	TotalLine   *float64     `json:"total_line"`
}

// HasFullForm reports whether both teams have usable trailing form on
// both sides of the ball
func (m *Matchup) HasFullForm() bool {
	return m.HomeOffense.HasForm() && m.HomeDefense.HasForm() &&
		m.AwayOffense.HasForm() && m.AwayDefense.HasForm()
}
