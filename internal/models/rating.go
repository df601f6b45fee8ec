package models

// Side distinguishes a team's offensive production from what its
// defense allowed
type Side string

const (
	SideOffense Side = "offense"
	SideDefense Side = "defense"
)

// TeamWeekRating aggregates one team's plays for one week on one side of
// the ball. For SideDefense the metrics are allowed-rates keyed by the
// defending team. A bye week produces no row at all; consumers must not
// assume a dense weekly series. Metric fields use the Undefined marker
// when the underlying data is entirely missing.
type TeamWeekRating struct {
	Team          string  `db:"team" json:"team" validate:"required"`
	Season        int     `db:"season" json:"season" validate:"required"`
	Week          int     `db:"week" json:"week" validate:"required,gte=1"`
	Side          Side    `db:"side" json:"side" validate:"required,oneof=offense defense"`
	Plays         int     `db:"plays" json:"plays"`
	EPAPerPlay    float64 `db:"epa_per_play" json:"epa_per_play"`
	SuccessRate   float64 `db:"success_rate" json:"success_rate"`
	ExplosiveRate float64 `db:"explosive_rate" json:"explosive_rate"`
	YardsPerPlay  float64 `db:"yards_per_play" json:"yards_per_play"`
	PassEPA       float64 `db:"pass_epa" json:"pass_epa"`
	RushEPA       float64 `db:"rush_epa" json:"rush_epa"`
	ThirdDownRate float64 `db:"third_down_rate" json:"third_down_rate"`
	RedZoneTDRate float64 `db:"red_zone_td_rate" json:"red_zone_td_rate"`
	UndefinedEPA  int     `db:"undefined_epa" json:"undefined_epa"`
}

// Key identifies a rating row
type RatingKey struct {
	Team string
	Week int
	Side Side
}

// Key returns the (team, week, side) key for this rating
func (r *TeamWeekRating) Key() RatingKey {
	return RatingKey{Team: r.Team, Week: r.Week, Side: r.Side}
}
