package rating

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/yourusername/gridiron-edge/internal/models"
)

const epsilon = 1e-6

func floatPtr(v float64) *float64 {
	return &v
}

// sameFloat treats two undefined values as equal
func sameFloat(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return math.Abs(a-b) <= epsilon
}

func makePlay(offense, defense string, week int, epa *float64) models.PlayRecord {
	return models.PlayRecord{
		GameID:      uuid.New(),
		Season:      2023,
		Week:        week,
		OffenseTeam: offense,
		DefenseTeam: defense,
		Down:        1,
		YardsGained: 5,
		Yardline:    50,
		EPA:         epa,
		PlayType:    models.PlayTypePass,
	}
}

func findRating(t *testing.T, ratings []models.TeamWeekRating, team string, week int, side models.Side) models.TeamWeekRating {
	t.Helper()
	for _, r := range ratings {
		if r.Team == team && r.Week == week && r.Side == side {
			return r
		}
	}
	t.Fatalf("no rating row for team=%s week=%d side=%s", team, week, side)
	return models.TeamWeekRating{}
}

func TestAggregateMeanEPA(t *testing.T) {
	plays := []models.PlayRecord{
		makePlay("KC", "DEN", 1, floatPtr(0.1)),
		makePlay("KC", "DEN", 1, floatPtr(-0.2)),
		makePlay("KC", "DEN", 1, floatPtr(0.3)),
	}

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	offense := findRating(t, ratings, "KC", 1, models.SideOffense)
	want := 0.0667
	if math.Abs(offense.EPAPerPlay-want) > 1e-4 {
		t.Errorf("expected mean EPA near %v, got %v", want, offense.EPAPerPlay)
	}
	if math.Abs(offense.EPAPerPlay-(0.1-0.2+0.3)/3) > epsilon {
		t.Errorf("mean EPA off by more than %v: got %v", epsilon, offense.EPAPerPlay)
	}
	if offense.Plays != 3 {
		t.Errorf("expected 3 plays, got %d", offense.Plays)
	}
}

func TestAggregateSuccessRate(t *testing.T) {
	plays := []models.PlayRecord{
		makePlay("KC", "DEN", 1, floatPtr(0.1)),
		makePlay("KC", "DEN", 1, floatPtr(0.2)),
		makePlay("KC", "DEN", 1, floatPtr(-0.1)),
		makePlay("KC", "DEN", 1, floatPtr(-0.3)),
	}
	plays[0].Success = true
	plays[1].Success = true
	plays[2].Success = true

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	offense := findRating(t, ratings, "KC", 1, models.SideOffense)
	if math.Abs(offense.SuccessRate-0.75) > epsilon {
		t.Errorf("expected success rate 0.75, got %v", offense.SuccessRate)
	}
}

func TestAggregateNullEPAIgnoredInMean(t *testing.T) {
	plays := []models.PlayRecord{
		makePlay("KC", "DEN", 1, floatPtr(0.4)),
		makePlay("KC", "DEN", 1, nil),
		makePlay("KC", "DEN", 1, floatPtr(0.2)),
	}

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	offense := findRating(t, ratings, "KC", 1, models.SideOffense)
	if math.Abs(offense.EPAPerPlay-0.3) > epsilon {
		t.Errorf("expected null EPA ignored, mean 0.3, got %v", offense.EPAPerPlay)
	}
	if offense.UndefinedEPA != 1 {
		t.Errorf("expected 1 undefined EPA play, got %d", offense.UndefinedEPA)
	}
	if offense.Plays != 3 {
		t.Errorf("play count must include null-EPA plays, got %d", offense.Plays)
	}
}

func TestAggregateAllEPAUndefined(t *testing.T) {
	plays := []models.PlayRecord{
		makePlay("KC", "DEN", 1, nil),
		makePlay("KC", "DEN", 1, nil),
	}

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	offense := findRating(t, ratings, "KC", 1, models.SideOffense)
	if models.IsDefined(offense.EPAPerPlay) {
		t.Errorf("expected undefined mean EPA when every play has null EPA, got %v", offense.EPAPerPlay)
	}
	if offense.EPAPerPlay == 0 {
		t.Error("all-null EPA must not collapse to zero")
	}
	if offense.UndefinedEPA != 2 {
		t.Errorf("expected 2 undefined EPA plays, got %d", offense.UndefinedEPA)
	}
}

func TestAggregateDefensiveMirror(t *testing.T) {
	plays := []models.PlayRecord{
		makePlay("KC", "DEN", 1, floatPtr(0.5)),
		makePlay("KC", "DEN", 1, floatPtr(0.1)),
	}

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	offense := findRating(t, ratings, "KC", 1, models.SideOffense)
	defense := findRating(t, ratings, "DEN", 1, models.SideDefense)

	if math.Abs(offense.EPAPerPlay-defense.EPAPerPlay) > epsilon {
		t.Errorf("defensive allowed EPA %v should mirror offensive EPA %v", defense.EPAPerPlay, offense.EPAPerPlay)
	}
	if defense.Plays != offense.Plays {
		t.Errorf("defensive play count %d should mirror offensive count %d", defense.Plays, offense.Plays)
	}
}

func TestAggregateByeWeekNoRow(t *testing.T) {
	plays := []models.PlayRecord{
		makePlay("KC", "DEN", 1, floatPtr(0.1)),
		makePlay("KC", "LV", 3, floatPtr(0.2)),
	}

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, r := range ratings {
		if r.Team == "KC" && r.Week == 2 {
			t.Fatalf("bye week must produce no rating row, got %+v", r)
		}
	}
}

func TestAggregateEmptyDenominators(t *testing.T) {
	// A single first-down play: no third downs, no red-zone snaps.
	play := makePlay("KC", "DEN", 1, floatPtr(0.1))
	play.PlayType = models.PlayTypePass

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate([]models.PlayRecord{play})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	offense := findRating(t, ratings, "KC", 1, models.SideOffense)
	if models.IsDefined(offense.ThirdDownRate) {
		t.Errorf("expected undefined third-down rate with no attempts, got %v", offense.ThirdDownRate)
	}
	if models.IsDefined(offense.RedZoneTDRate) {
		t.Errorf("expected undefined red-zone rate with no red-zone plays, got %v", offense.RedZoneTDRate)
	}
	if models.IsDefined(offense.RushEPA) {
		t.Errorf("expected undefined rush EPA with no rushes, got %v", offense.RushEPA)
	}
}

func TestAggregateThirdDownConversion(t *testing.T) {
	converted := makePlay("KC", "DEN", 1, floatPtr(0.3))
	converted.Down = 3
	converted.FirstDown = true

	stuffed := makePlay("KC", "DEN", 1, floatPtr(-0.4))
	stuffed.Down = 3

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate([]models.PlayRecord{converted, stuffed})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	offense := findRating(t, ratings, "KC", 1, models.SideOffense)
	if math.Abs(offense.ThirdDownRate-0.5) > epsilon {
		t.Errorf("expected third-down rate 0.5, got %v", offense.ThirdDownRate)
	}
}

func TestAggregateMissingTeamRejected(t *testing.T) {
	play := makePlay("", "DEN", 1, floatPtr(0.1))

	agg := NewAggregator(nil)
	_, err := agg.Aggregate([]models.PlayRecord{play})
	if err == nil {
		t.Fatal("expected error for play with missing offense team")
	}
}

func TestAggregateDeterministicOutput(t *testing.T) {
	plays := []models.PlayRecord{
		makePlay("KC", "DEN", 2, floatPtr(0.1)),
		makePlay("BUF", "NYJ", 1, floatPtr(0.2)),
		makePlay("KC", "DEN", 1, floatPtr(-0.1)),
	}

	agg := NewAggregator(nil)
	first, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("run lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		a, b := first[i], second[i]
		if a.Key() != b.Key() || a.Plays != b.Plays || !sameFloat(a.EPAPerPlay, b.EPAPerPlay) || !sameFloat(a.SuccessRate, b.SuccessRate) {
			t.Errorf("row %d differs between runs: %+v vs %+v", i, a, b)
		}
	}

	for i := 1; i < len(first); i++ {
		prev, cur := first[i-1], first[i]
		if prev.Week > cur.Week {
			t.Errorf("output not sorted by week: %d before %d", prev.Week, cur.Week)
		}
	}
}

func TestRatingTableLookup(t *testing.T) {
	plays := []models.PlayRecord{
		makePlay("KC", "DEN", 1, floatPtr(0.1)),
	}

	agg := NewAggregator(nil)
	ratings, err := agg.Aggregate(plays)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	table := NewRatingTable(ratings)
	if _, ok := table.Get("KC", 1, models.SideOffense); !ok {
		t.Error("expected offensive rating for KC week 1")
	}
	if _, ok := table.Get("KC", 2, models.SideOffense); ok {
		t.Error("expected no rating for unplayed week")
	}

	teams := table.Teams()
	if len(teams) != 2 {
		t.Errorf("expected 2 teams, got %v", teams)
	}
}
