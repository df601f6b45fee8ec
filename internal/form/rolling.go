// Package form computes strictly-trailing rolling aggregates over team ratings.
package form

import (
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// MinPriorGames is the minimum number of prior rated weeks before any
// rolling metric is emitted. Below this every metric is Undefined: a
// single-game average is noise dressed up as form.
const MinPriorGames = 2

// Calculator computes trailing-window and season-cumulative form from
// team-week ratings. Every aggregate at week W reads only weeks
// strictly before W, so deleting future weeks from the input can never
// change a value.
type Calculator struct {
	windows []int
	log     *logrus.Logger
}

// NewCalculator creates a form calculator for the given window sizes
func NewCalculator(windows []int, log *logrus.Logger) *Calculator {
	sorted := make([]int, len(windows))
	copy(sorted, windows)
	sort.Ints(sorted)
	return &Calculator{windows: sorted, log: log}
}

// Table indexes each team's rated weeks in ascending week order, one
// history per (team, side). Bye weeks are simply absent from a history.
type Table struct {
	calc      *Calculator
	histories map[historyKey][]models.TeamWeekRating
	season    int
}

type historyKey struct {
	team string
	side models.Side
}

// Build indexes a season of ratings for trailing-form lookup
func (c *Calculator) Build(ratings []models.TeamWeekRating) *Table {
	histories := make(map[historyKey][]models.TeamWeekRating)
	season := 0
	for _, r := range ratings {
		key := historyKey{team: r.Team, side: r.Side}
		histories[key] = append(histories[key], r)
		if r.Season > season {
			season = r.Season
		}
	}

	for key := range histories {
		h := histories[key]
		sort.Slice(h, func(i, j int) bool { return h[i].Week < h[j].Week })
		histories[key] = h
	}

	if c.log != nil {
		c.log.WithFields(logrus.Fields{
			"rating_rows": len(ratings),
			"histories":   len(histories),
		}).Debug("Indexed team rating histories")
	}

	return &Table{calc: c, histories: histories, season: season}
}

// At returns the team's trailing form entering the given week: windows
// and cumulative means over rated weeks strictly before it. A team
// below the minimum history still gets a row, with every metric
// Undefined and PriorGames reporting what little history exists.
func (t *Table) At(team string, side models.Side, week int) *models.RollingForm {
	history := t.histories[historyKey{team: team, side: side}]

	prior := history[:0:0]
	for _, r := range history {
		if r.Week < week {
			prior = append(prior, r)
		}
	}

	form := &models.RollingForm{
		Team:       team,
		Season:     t.season,
		Week:       week,
		Side:       side,
		PriorGames: len(prior),
		Windows:    make(map[int]models.WindowAggregate, len(t.calc.windows)),
	}

	if len(prior) < MinPriorGames {
		for _, k := range t.calc.windows {
			form.Windows[k] = undefinedAggregate()
		}
		form.Cumulative = undefinedAggregate()
		form.CumPassEPA = models.Undefined()
		form.CumRushEPA = models.Undefined()
		return form
	}

	for _, k := range t.calc.windows {
		start := len(prior) - k
		if start < 0 {
			start = 0
		}
		form.Windows[k] = aggregate(prior[start:])
	}

	form.Cumulative = aggregate(prior)
	form.CumPassEPA = trailingMean(prior, func(r models.TeamWeekRating) float64 { return r.PassEPA })
	form.CumRushEPA = trailingMean(prior, func(r models.TeamWeekRating) float64 { return r.RushEPA })
	return form
}

// Compute produces one RollingForm per rated (team, side, week),
// ordered by (team, side, week), for export to the reporting layer.
func (t *Table) Compute() []models.RollingForm {
	keys := make([]historyKey, 0, len(t.histories))
	for key := range t.histories {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].team != keys[j].team {
			return keys[i].team < keys[j].team
		}
		return keys[i].side < keys[j].side
	})

	var forms []models.RollingForm
	for _, key := range keys {
		for _, r := range t.histories[key] {
			forms = append(forms, *t.At(key.team, key.side, r.Week))
		}
	}
	return forms
}

func undefinedAggregate() models.WindowAggregate {
	return models.WindowAggregate{
		EPAPerPlay:    models.Undefined(),
		SuccessRate:   models.Undefined(),
		ExplosiveRate: models.Undefined(),
		YardsPerPlay:  models.Undefined(),
	}
}

// aggregate means each metric over the given rated weeks, ignoring
// undefined entries per metric. A metric undefined in every entry stays
// undefined rather than collapsing to zero.
func aggregate(entries []models.TeamWeekRating) models.WindowAggregate {
	return models.WindowAggregate{
		Games:         len(entries),
		EPAPerPlay:    trailingMean(entries, func(r models.TeamWeekRating) float64 { return r.EPAPerPlay }),
		SuccessRate:   trailingMean(entries, func(r models.TeamWeekRating) float64 { return r.SuccessRate }),
		ExplosiveRate: trailingMean(entries, func(r models.TeamWeekRating) float64 { return r.ExplosiveRate }),
		YardsPerPlay:  trailingMean(entries, func(r models.TeamWeekRating) float64 { return r.YardsPerPlay }),
	}
}

func trailingMean(entries []models.TeamWeekRating, metric func(models.TeamWeekRating) float64) float64 {
	sum := 0.0
	count := 0
	for _, r := range entries {
		v := metric(r)
		if !models.IsDefined(v) {
			continue
		}
		sum += v
		count++
	}
	if count == 0 {
		return models.Undefined()
	}
	return sum / float64(count)
}
