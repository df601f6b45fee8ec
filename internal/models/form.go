package models

// WindowAggregate holds trailing means over a fixed number of prior
// games. Games is the number of rated weeks that actually entered the
// window (byes are skipped, not zero-filled).
type WindowAggregate struct {
	Games         int     `json:"games"`
	EPAPerPlay    float64 `json:"epa_per_play"`
	SuccessRate   float64 `json:"success_rate"`
	ExplosiveRate float64 `json:"explosive_rate"`
	YardsPerPlay  float64 `json:"yards_per_play"`
}

// RollingForm is a team's trailing form entering a given week: strictly
// prior-week aggregates only, so the value at week W never depends on
// anything played in week W or later. With fewer than two prior rated
// weeks every metric is Undefined rather than a noisy single-game
// average.
type RollingForm struct {
	Team       string                  `json:"team"`
	Season     int                     `json:"season"`
	Week       int                     `json:"week"`
	Side       Side                    `json:"side"`
	PriorGames int                     `json:"prior_games"`
	Windows    map[int]WindowAggregate `json:"windows"`
	Cumulative WindowAggregate         `json:"cumulative"`
	CumPassEPA float64                 `json:"cum_pass_epa"`
	CumRushEPA float64                 `json:"cum_rush_epa"`
}

// HasForm reports whether the team has enough history for real form
// (two or more prior rated weeks)
func (f *RollingForm) HasForm() bool {
	return f != nil && f.PriorGames >= 2 && IsDefined(f.Cumulative.EPAPerPlay)
}

// Window returns the aggregate for window size k and whether it exists
func (f *RollingForm) Window(k int) (WindowAggregate, bool) {
	w, ok := f.Windows[k]
	return w, ok
}
