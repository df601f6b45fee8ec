package form

import (
	"math"
	"testing"

	"github.com/yourusername/gridiron-edge/internal/models"
)

const epsilon = 1e-9

func makeRating(team string, week int, side models.Side, epa float64) models.TeamWeekRating {
	return models.TeamWeekRating{
		Team:          team,
		Season:        2023,
		Week:          week,
		Side:          side,
		Plays:         60,
		EPAPerPlay:    epa,
		SuccessRate:   0.45,
		ExplosiveRate: 0.10,
		YardsPerPlay:  5.4,
		PassEPA:       epa + 0.05,
		RushEPA:       epa - 0.05,
	}
}

func buildTable(t *testing.T, windows []int, ratings []models.TeamWeekRating) *Table {
	t.Helper()
	calc := NewCalculator(windows, nil)
	return calc.Build(ratings)
}

func TestWindowMeanStrictlyTrailing(t *testing.T) {
	table := buildTable(t, []int{3}, []models.TeamWeekRating{
		makeRating("KC", 1, models.SideOffense, 0.10),
		makeRating("KC", 2, models.SideOffense, 0.20),
		makeRating("KC", 3, models.SideOffense, 0.30),
		makeRating("KC", 4, models.SideOffense, 0.90),
	})

	form := table.At("KC", models.SideOffense, 4)
	window, ok := form.Window(3)
	if !ok {
		t.Fatal("expected a 3-game window")
	}

	// Weeks 1-3 only; week 4's own 0.90 must be excluded.
	want := (0.10 + 0.20 + 0.30) / 3
	if math.Abs(window.EPAPerPlay-want) > epsilon {
		t.Errorf("expected trailing mean %v, got %v", want, window.EPAPerPlay)
	}
	if window.Games != 3 {
		t.Errorf("expected 3 games in window, got %d", window.Games)
	}
}

func TestNoLookahead(t *testing.T) {
	full := []models.TeamWeekRating{
		makeRating("KC", 1, models.SideOffense, 0.10),
		makeRating("KC", 2, models.SideOffense, 0.20),
		makeRating("KC", 3, models.SideOffense, 0.30),
		makeRating("KC", 4, models.SideOffense, 5.00),
		makeRating("KC", 5, models.SideOffense, -5.00),
	}

	// Form entering week 3 must be identical whether or not weeks >= 3 exist.
	truncated := full[:2]

	fullForm := buildTable(t, []int{3, 5}, full).At("KC", models.SideOffense, 3)
	truncForm := buildTable(t, []int{3, 5}, truncated).At("KC", models.SideOffense, 3)

	if fullForm.PriorGames != truncForm.PriorGames {
		t.Fatalf("prior games differ: %d vs %d", fullForm.PriorGames, truncForm.PriorGames)
	}
	if math.Abs(fullForm.Cumulative.EPAPerPlay-truncForm.Cumulative.EPAPerPlay) > epsilon {
		t.Errorf("cumulative mean changed when future weeks were removed: %v vs %v",
			fullForm.Cumulative.EPAPerPlay, truncForm.Cumulative.EPAPerPlay)
	}
	for _, k := range []int{3, 5} {
		fw, _ := fullForm.Window(k)
		tw, _ := truncForm.Window(k)
		if math.Abs(fw.EPAPerPlay-tw.EPAPerPlay) > epsilon {
			t.Errorf("window %d changed when future weeks were removed: %v vs %v", k, fw.EPAPerPlay, tw.EPAPerPlay)
		}
	}
}

func TestMinimumTwoPriorGames(t *testing.T) {
	table := buildTable(t, []int{3}, []models.TeamWeekRating{
		makeRating("KC", 1, models.SideOffense, 0.10),
	})

	// Week 1: zero prior games.
	week1 := table.At("KC", models.SideOffense, 1)
	if week1.PriorGames != 0 {
		t.Errorf("expected 0 prior games entering week 1, got %d", week1.PriorGames)
	}
	if models.IsDefined(week1.Cumulative.EPAPerPlay) {
		t.Error("expected undefined cumulative mean with no history")
	}
	if week1.HasForm() {
		t.Error("expected HasForm() false with no history")
	}

	// Week 2: a single prior game is still below the minimum.
	week2 := table.At("KC", models.SideOffense, 2)
	if week2.PriorGames != 1 {
		t.Errorf("expected 1 prior game entering week 2, got %d", week2.PriorGames)
	}
	if models.IsDefined(week2.Cumulative.EPAPerPlay) {
		t.Error("a single prior game must emit undefined, not a one-game average")
	}
	window, _ := week2.Window(3)
	if models.IsDefined(window.EPAPerPlay) {
		t.Error("window mean must be undefined below the two-game minimum")
	}
}

func TestShortWindowUsesAvailableGames(t *testing.T) {
	table := buildTable(t, []int{5}, []models.TeamWeekRating{
		makeRating("KC", 1, models.SideOffense, 0.10),
		makeRating("KC", 2, models.SideOffense, 0.30),
	})

	form := table.At("KC", models.SideOffense, 3)
	window, ok := form.Window(5)
	if !ok {
		t.Fatal("expected a 5-game window entry")
	}
	if window.Games != 2 {
		t.Errorf("expected window over 2 available games, got %d", window.Games)
	}
	if math.Abs(window.EPAPerPlay-0.20) > epsilon {
		t.Errorf("expected mean 0.20 over available games, got %v", window.EPAPerPlay)
	}
}

func TestByeWeekSkipped(t *testing.T) {
	// KC is on bye in week 2; the form entering week 4 must average the
	// two rated weeks, not treat the bye as a zero.
	table := buildTable(t, []int{3}, []models.TeamWeekRating{
		makeRating("KC", 1, models.SideOffense, 0.30),
		makeRating("KC", 3, models.SideOffense, 0.60),
	})

	form := table.At("KC", models.SideOffense, 4)
	if form.PriorGames != 2 {
		t.Fatalf("expected 2 prior rated games across the bye, got %d", form.PriorGames)
	}
	if math.Abs(form.Cumulative.EPAPerPlay-0.45) > epsilon {
		t.Errorf("bye week leaked into the mean: expected 0.45, got %v", form.Cumulative.EPAPerPlay)
	}
}

func TestUndefinedMetricIgnoredInMean(t *testing.T) {
	withUndefined := makeRating("KC", 2, models.SideOffense, 0.20)
	withUndefined.EPAPerPlay = models.Undefined()

	table := buildTable(t, []int{3}, []models.TeamWeekRating{
		makeRating("KC", 1, models.SideOffense, 0.10),
		withUndefined,
		makeRating("KC", 3, models.SideOffense, 0.50),
	})

	form := table.At("KC", models.SideOffense, 4)
	if math.Abs(form.Cumulative.EPAPerPlay-0.30) > epsilon {
		t.Errorf("undefined entry must be ignored, expected mean 0.30, got %v", form.Cumulative.EPAPerPlay)
	}
}

func TestDefensiveFormSeparate(t *testing.T) {
	table := buildTable(t, []int{3}, []models.TeamWeekRating{
		makeRating("KC", 1, models.SideOffense, 0.10),
		makeRating("KC", 2, models.SideOffense, 0.20),
		makeRating("KC", 1, models.SideDefense, -0.05),
		makeRating("KC", 2, models.SideDefense, -0.15),
	})

	offense := table.At("KC", models.SideOffense, 3)
	defense := table.At("KC", models.SideDefense, 3)

	if math.Abs(offense.Cumulative.EPAPerPlay-0.15) > epsilon {
		t.Errorf("expected offensive cumulative 0.15, got %v", offense.Cumulative.EPAPerPlay)
	}
	if math.Abs(defense.Cumulative.EPAPerPlay-(-0.10)) > epsilon {
		t.Errorf("expected defensive cumulative -0.10, got %v", defense.Cumulative.EPAPerPlay)
	}
}

func TestComputeEmitsRowPerRatedWeek(t *testing.T) {
	table := buildTable(t, []int{3}, []models.TeamWeekRating{
		makeRating("KC", 1, models.SideOffense, 0.10),
		makeRating("KC", 2, models.SideOffense, 0.20),
		makeRating("KC", 3, models.SideOffense, 0.30),
	})

	forms := table.Compute()
	if len(forms) != 3 {
		t.Fatalf("expected 3 form rows, got %d", len(forms))
	}
	for i, f := range forms {
		if f.PriorGames != i {
			t.Errorf("row %d: expected %d prior games, got %d", i, i, f.PriorGames)
		}
	}
}
