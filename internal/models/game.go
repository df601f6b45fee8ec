package models

import (
	"time"

	"github.com/google/uuid"
)

// Game represents a scheduled NFL game, optionally with a final score
// and market lines. SpreadLine follows the home-favorite convention:
// negative means the home team is favored. CloseSpreadLine/CloseTotalLine
// hold the final pre-game market when snapshots are available, enabling
// closing-line-value reporting.
type Game struct {
	ID              uuid.UUID  `db:"id" json:"id" validate:"required"`
	Season          int        `db:"season" json:"season" validate:"required,gte=1999"`
	Week            int        `db:"week" json:"week" validate:"required,gte=1,lte=22"`
	GameType        string     `db:"game_type" json:"game_type"`
	Kickoff         time.Time  `db:"kickoff" json:"kickoff" validate:"required"`
	HomeTeam        string     `db:"home_team" json:"home_team" validate:"required"`
	AwayTeam        string     `db:"away_team" json:"away_team" validate:"required"`
	HomeScore       *int       `db:"home_score" json:"home_score"`
	AwayScore       *int       `db:"away_score" json:"away_score"`
	SpreadLine      *float64   `db:"spread_line" json:"spread_line"`
	TotalLine       *float64   `db:"total_line" json:"total_line"`
	CloseSpreadLine *float64   `db:"close_spread_line" json:"close_spread_line"`
	CloseTotalLine  *float64   `db:"close_total_line" json:"close_total_line"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// IsCompleted reports whether a final score is recorded
func (g *Game) IsCompleted() bool {
	return g.HomeScore != nil && g.AwayScore != nil
}

// IsRegularSeason reports whether the game counts toward team form
func (g *Game) IsRegularSeason() bool {
	switch g.GameType {
	case "", "REG", "REGULAR", "REGULAR_SEASON":
		return true
	}
	return false
}

// ActualMargin returns home score minus away score
func (g *Game) ActualMargin() (float64, bool) {
	if !g.IsCompleted() {
		return 0, false
	}
	return float64(*g.HomeScore - *g.AwayScore), true
}

// ActualTotal returns the combined final score
func (g *Game) ActualTotal() (float64, bool) {
	if !g.IsCompleted() {
		return 0, false
	}
	return float64(*g.HomeScore + *g.AwayScore), true
}
