package models

import (
	"github.com/google/uuid"
)

// PlayType classifies an offensive play
type PlayType string

const (
	PlayTypePass PlayType = "pass"
	PlayTypeRun  PlayType = "run"
)

// ExplosiveYards is the yards-gained threshold for an explosive play
const ExplosiveYards = 20

// RedZoneYardline is the distance-to-goal threshold for a red-zone play
const RedZoneYardline = 20

// PlayRecord represents one offensive play from a play-by-play feed.
// EPA is nil when the source could not compute it; nil is never coerced
// to zero because zero EPA is a valid, different value.
type PlayRecord struct {
	GameID      uuid.UUID `db:"game_id" json:"game_id" validate:"required"`
	Season      int       `db:"season" json:"season" validate:"required,gte=1999"`
	Week        int       `db:"week" json:"week" validate:"required,gte=1,lte=22"`
	OffenseTeam string    `db:"offense_team" json:"offense_team" validate:"required"`
	DefenseTeam string    `db:"defense_team" json:"defense_team" validate:"required"`
	Down        int       `db:"down" json:"down" validate:"gte=0,lte=4"`
	YardsGained int       `db:"yards_gained" json:"yards_gained"`
	Yardline    int       `db:"yardline" json:"yardline" validate:"gte=0,lte=100"`
	EPA         *float64  `db:"epa" json:"epa"`
	Success     bool      `db:"success" json:"success"`
	PlayType    PlayType  `db:"play_type" json:"play_type" validate:"required,oneof=pass run"`
	Touchdown   bool      `db:"touchdown" json:"touchdown"`
	FirstDown   bool      `db:"first_down" json:"first_down"`
}

// IsExplosive reports whether the play gained explosive yardage
func (p *PlayRecord) IsExplosive() bool {
	return p.YardsGained >= ExplosiveYards
}

// IsRedZone reports whether the play started inside the red zone
func (p *PlayRecord) IsRedZone() bool {
	return p.Yardline <= RedZoneYardline && p.Yardline > 0
}

// IsThirdDown reports whether the play was a third-down attempt
func (p *PlayRecord) IsThirdDown() bool {
	return p.Down == 3
}

// Converted reports whether the play moved the chains (or scored)
func (p *PlayRecord) Converted() bool {
	return p.FirstDown || p.Touchdown
}
