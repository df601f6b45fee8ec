// Package rating reduces play-by-play data to per-team-week efficiency ratings.
package rating

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// Aggregator reduces a season of play records to offensive and
// defensive TeamWeekRating rows. Offensive rows are keyed by the
// possessing team; defensive rows mirror the same plays keyed by the
// defending team, so a defensive EPAPerPlay is EPA allowed.
type Aggregator struct {
	log *logrus.Logger
}

// NewAggregator creates a new rating aggregator
func NewAggregator(log *logrus.Logger) *Aggregator {
	return &Aggregator{log: log}
}

// accumulator collects running sums for one (team, week, side) group
type accumulator struct {
	team   string
	season int
	week   int
	side   models.Side

	plays        int
	epaSum       float64
	epaCount     int
	undefinedEPA int
	successes    int
	explosives   int
	yards        int

	passEPASum   float64
	passEPACount int
	rushEPASum   float64
	rushEPACount int

	thirdDowns   int
	conversions  int
	redZonePlays int
	redZoneTDs   int
}

// Aggregate reduces a season of plays into rating rows, two per team
// per played week (offense and defense). A bye week yields no row.
// Output order is deterministic: (season, week, team, side).
func (a *Aggregator) Aggregate(plays []models.PlayRecord) ([]models.TeamWeekRating, error) {
	groups := make(map[models.RatingKey]*accumulator)

	for i := range plays {
		play := &plays[i]
		if err := checkPlay(play); err != nil {
			return nil, err
		}

		a.accumulate(groups, play, play.OffenseTeam, models.SideOffense)
		a.accumulate(groups, play, play.DefenseTeam, models.SideDefense)
	}

	ratings := make([]models.TeamWeekRating, 0, len(groups))
	for _, acc := range groups {
		ratings = append(ratings, acc.rating())
	}

	sort.Slice(ratings, func(i, j int) bool {
		if ratings[i].Season != ratings[j].Season {
			return ratings[i].Season < ratings[j].Season
		}
		if ratings[i].Week != ratings[j].Week {
			return ratings[i].Week < ratings[j].Week
		}
		if ratings[i].Team != ratings[j].Team {
			return ratings[i].Team < ratings[j].Team
		}
		return ratings[i].Side < ratings[j].Side
	})

	if a.log != nil {
		a.log.WithFields(logrus.Fields{
			"plays_processed": len(plays),
			"rating_rows":     len(ratings),
		}).Debug("Aggregated play-by-play into team-week ratings")
	}

	return ratings, nil
}

// checkPlay rejects rows the validated ingestion boundary should never
// have let through, naming the offending row
func checkPlay(play *models.PlayRecord) error {
	if play.OffenseTeam == "" || play.DefenseTeam == "" {
		return fmt.Errorf("play in game %s week %d: %w", play.GameID, play.Week, models.ErrMissingPlayField)
	}
	if play.Week < 1 {
		return fmt.Errorf("play in game %s has invalid week %d: %w", play.GameID, play.Week, models.ErrMissingPlayField)
	}
	return nil
}

func (a *Aggregator) accumulate(groups map[models.RatingKey]*accumulator, play *models.PlayRecord, team string, side models.Side) {
	key := models.RatingKey{Team: team, Week: play.Week, Side: side}
	acc, ok := groups[key]
	if !ok {
		acc = &accumulator{team: team, season: play.Season, week: play.Week, side: side}
		groups[key] = acc
	}

	acc.plays++
	acc.yards += play.YardsGained

	if play.EPA != nil {
		acc.epaSum += *play.EPA
		acc.epaCount++
		switch play.PlayType {
		case models.PlayTypePass:
			acc.passEPASum += *play.EPA
			acc.passEPACount++
		case models.PlayTypeRun:
			acc.rushEPASum += *play.EPA
			acc.rushEPACount++
		}
	} else {
		acc.undefinedEPA++
	}

	if play.Success {
		acc.successes++
	}
	if play.IsExplosive() {
		acc.explosives++
	}
	if play.IsThirdDown() {
		acc.thirdDowns++
		if play.Converted() {
			acc.conversions++
		}
	}
	if play.IsRedZone() {
		acc.redZonePlays++
		if play.Touchdown {
			acc.redZoneTDs++
		}
	}
}

// rating finalizes the group into a TeamWeekRating. Every ratio with an
// empty denominator is Undefined, never zero: a team that saw no third
// downs has no third-down rate.
func (acc *accumulator) rating() models.TeamWeekRating {
	return models.TeamWeekRating{
		Team:          acc.team,
		Season:        acc.season,
		Week:          acc.week,
		Side:          acc.side,
		Plays:         acc.plays,
		EPAPerPlay:    ratio(acc.epaSum, acc.epaCount),
		SuccessRate:   ratio(float64(acc.successes), acc.plays),
		ExplosiveRate: ratio(float64(acc.explosives), acc.plays),
		YardsPerPlay:  ratio(float64(acc.yards), acc.plays),
		PassEPA:       ratio(acc.passEPASum, acc.passEPACount),
		RushEPA:       ratio(acc.rushEPASum, acc.rushEPACount),
		ThirdDownRate: ratio(float64(acc.conversions), acc.thirdDowns),
		RedZoneTDRate: ratio(float64(acc.redZoneTDs), acc.redZonePlays),
		UndefinedEPA:  acc.undefinedEPA,
	}
}

func ratio(sum float64, count int) float64 {
	if count == 0 {
		return models.Undefined()
	}
	return sum / float64(count)
}

// RatingTable indexes rating rows for keyed lookup, preserving the
// sparse weekly series (missing weeks stay missing).
type RatingTable struct {
	rows map[models.RatingKey]models.TeamWeekRating
}

// NewRatingTable builds an index over rating rows
func NewRatingTable(ratings []models.TeamWeekRating) *RatingTable {
	rows := make(map[models.RatingKey]models.TeamWeekRating, len(ratings))
	for _, r := range ratings {
		rows[r.Key()] = r
	}
	return &RatingTable{rows: rows}
}

// Get returns the rating for (team, week, side) if the team played that week
func (t *RatingTable) Get(team string, week int, side models.Side) (models.TeamWeekRating, bool) {
	r, ok := t.rows[models.RatingKey{Team: team, Week: week, Side: side}]
	return r, ok
}

// Teams returns the distinct teams present in the table, sorted
func (t *RatingTable) Teams() []string {
	seen := make(map[string]struct{})
	for key := range t.rows {
		seen[key.Team] = struct{}{}
	}
	teams := make([]string, 0, len(seen))
	for team := range seen {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}
