package repository

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Integration tests require a live database; they skip unless
// database.TestConfigEnv points at a test configuration.

func TestMetricNullRoundTrip(t *testing.T) {
	if metricToNull(models.Undefined()) != nil {
		t.Errorf("undefined metric must map to NULL")
	}
	v := metricToNull(0.0)
	if v == nil || *v != 0.0 {
		t.Errorf("zero is a real value and must not map to NULL, got %v", v)
	}
	if !math.IsNaN(nullToMetric(nil)) {
		t.Errorf("NULL must restore the undefined marker")
	}
	if nullToMetric(v) != 0.0 {
		t.Errorf("round trip must preserve zero")
	}
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	if _, err := NewRepositories(nil); err == nil {
		t.Fatal("expected error for nil database")
	}
}

// TestGameRepositoryRoundTrip tests game upsert and retrieval
func TestGameRepositoryRoundTrip(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	spread := -3.0
	game := &models.Game{
		ID:         uuid.New(),
		Season:     2023,
		Week:       1,
		GameType:   "REG",
		Kickoff:    time.Now().Add(24 * time.Hour).Truncate(time.Second),
		HomeTeam:   "BUF",
		AwayTeam:   "NYJ",
		SpreadLine: &spread,
	}

	if err := repos.Game.Upsert(ctx, game); err != nil {
		t.Fatalf("failed to upsert game: %v", err)
	}

	retrieved, err := repos.Game.GetByID(ctx, game.ID)
	if err != nil {
		t.Fatalf("failed to retrieve game: %v", err)
	}
	if retrieved.HomeTeam != "BUF" || retrieved.SpreadLine == nil || *retrieved.SpreadLine != -3.0 {
		t.Errorf("game did not round-trip: %+v", retrieved)
	}

	// A later upsert without a line must not erase the stored line.
	game.SpreadLine = nil
	home, away := 24, 17
	game.HomeScore, game.AwayScore = &home, &away
	if err := repos.Game.Upsert(ctx, game); err != nil {
		t.Fatalf("failed to upsert scored game: %v", err)
	}

	retrieved, err = repos.Game.GetByID(ctx, game.ID)
	if err != nil {
		t.Fatalf("failed to retrieve updated game: %v", err)
	}
	if retrieved.SpreadLine == nil || *retrieved.SpreadLine != -3.0 {
		t.Errorf("stored line must survive a nil update, got %v", retrieved.SpreadLine)
	}
	if retrieved.HomeScore == nil || *retrieved.HomeScore != 24 {
		t.Errorf("score update lost, got %v", retrieved.HomeScore)
	}
}

// TestRatingRepositoryUndefinedMetrics tests NULL mapping through the database
func TestRatingRepositoryUndefinedMetrics(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	rating := models.TeamWeekRating{
		Team:          "BUF",
		Season:        2023,
		Week:          1,
		Side:          models.SideOffense,
		Plays:         60,
		EPAPerPlay:    0.12,
		SuccessRate:   0.48,
		ExplosiveRate: 0.10,
		YardsPerPlay:  5.6,
		PassEPA:       0.20,
		RushEPA:       models.Undefined(),
		ThirdDownRate: models.Undefined(),
		RedZoneTDRate: 0.5,
	}

	if err := repos.Rating.UpsertBatch(ctx, 2023, []models.TeamWeekRating{rating}); err != nil {
		t.Fatalf("failed to upsert rating: %v", err)
	}

	ratings, err := repos.Rating.GetBySeason(ctx, 2023)
	if err != nil {
		t.Fatalf("failed to retrieve ratings: %v", err)
	}
	if len(ratings) == 0 {
		t.Fatal("expected at least one rating row")
	}

	got := ratings[0]
	if models.IsDefined(got.RushEPA) || models.IsDefined(got.ThirdDownRate) {
		t.Errorf("undefined metrics must stay undefined after a round trip: %+v", got)
	}
	if got.EPAPerPlay != 0.12 {
		t.Errorf("expected EPA 0.12, got %v", got.EPAPerPlay)
	}
}

// TestPlayRepositoryBatch tests COPY-based play loading
func TestPlayRepositoryBatch(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	if err != nil {
		t.Fatalf("failed to create repositories: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := repos.Play.DeleteSeason(ctx, 1999); err != nil {
		t.Fatalf("failed to clear season: %v", err)
	}

	gameID := uuid.New()
	epa := 0.45
	plays := []models.PlayRecord{
		{GameID: gameID, Season: 1999, Week: 1, OffenseTeam: "BUF", DefenseTeam: "NYJ", Down: 1, YardsGained: 7, Yardline: 75, EPA: &epa, Success: true, PlayType: models.PlayTypePass},
		{GameID: gameID, Season: 1999, Week: 1, OffenseTeam: "BUF", DefenseTeam: "NYJ", Down: 2, YardsGained: 2, Yardline: 68, PlayType: models.PlayTypeRun},
	}

	inserted, err := repos.Play.InsertBatch(ctx, plays)
	if err != nil {
		t.Fatalf("failed to insert plays: %v", err)
	}
	if inserted != 2 {
		t.Errorf("expected 2 rows inserted, got %d", inserted)
	}

	stored, err := repos.Play.GetBySeason(ctx, 1999)
	if err != nil {
		t.Fatalf("failed to retrieve plays: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("expected 2 plays, got %d", len(stored))
	}
	if stored[1].EPA != nil {
		t.Errorf("nil EPA must round-trip as nil, got %v", *stored[1].EPA)
	}
}
