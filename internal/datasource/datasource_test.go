package datasource

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, nil)
}

const pbpCSV = `game_id,season,week,posteam,defteam,down,yards_gained,yardline_100,epa,success,play_type,touchdown,first_down
2023_01_BUF_NYJ,2023,1,BUF,NYJ,1,7,75,0.45,1,pass,0,1
2023_01_BUF_NYJ,2023,1,BUF,NYJ,2,2,68,-0.30,0,run,0,0
2023_01_BUF_NYJ,2023,1,BUF,NYJ,3,0,66,NA,0,pass,0,0
2023_01_BUF_NYJ,2023,1,,NYJ,4,0,66,0.00,0,punt,0,0
2023_01_BUF_NYJ,2023,1,BUF,NYJ,1,0,80,0.10,1,no_play,0,0
`

const scheduleCSV = `game_id,season,game_type,week,gameday,gametime,away_team,home_team,away_score,home_score,spread_line,total_line
2023_01_NE_BUF,2023,REG,1,2023-09-10,13:00,NE,BUF,17,24,3.0,42.5
2023_19_PIT_BUF,2023,WC,19,2024-01-15,16:30,PIT,BUF,,,9.5,
`

// TestNFLVerseFetchPlays tests play-by-play parsing from a CSV payload
func TestNFLVerseFetchPlays(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/pbp/play_by_play_2023.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(pbpCSV))
	}))
	defer server.Close()

	source := NewNFLVerseSource(config.DataSourceConfig{
		Name:    config.NFLVerseSourceName,
		Enabled: true,
		BaseURL: server.URL,
	}, testHTTPClient(), testLogger())

	plays, err := source.FetchPlays(context.Background(), 2023)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// Punt and no_play rows and the row with no offense are dropped.
	if len(plays) != 3 {
		t.Fatalf("Expected 3 plays, got %d", len(plays))
	}

	first := plays[0]
	if first.OffenseTeam != "BUF" || first.DefenseTeam != "NYJ" {
		t.Errorf("Expected BUF offense vs NYJ defense, got %s vs %s", first.OffenseTeam, first.DefenseTeam)
	}
	if first.EPA == nil || *first.EPA != 0.45 {
		t.Errorf("Expected EPA 0.45, got %v", first.EPA)
	}
	if !first.Success || !first.FirstDown || first.Touchdown {
		t.Errorf("Boolean columns parsed incorrectly: %+v", first)
	}

	// NA EPA must come through as nil, never zero.
	if plays[2].EPA != nil {
		t.Errorf("Expected nil EPA for NA cell, got %v", *plays[2].EPA)
	}
}

// TestNFLVerseFetchSchedule tests schedule parsing and line conventions
func TestNFLVerseFetchSchedule(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(scheduleCSV))
	}))
	defer server.Close()

	source := NewNFLVerseSource(config.DataSourceConfig{
		Name:    config.NFLVerseSourceName,
		Enabled: true,
		BaseURL: server.URL,
	}, testHTTPClient(), testLogger())

	games, err := source.FetchSchedule(context.Background(), 2023)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("Expected 2 games, got %d", len(games))
	}

	completed := games[0]
	if completed.HomeTeam != "BUF" || completed.AwayTeam != "NE" {
		t.Errorf("Expected NE at BUF, got %s at %s", completed.AwayTeam, completed.HomeTeam)
	}
	if completed.HomeScore == nil || *completed.HomeScore != 24 {
		t.Errorf("Expected home score 24, got %v", completed.HomeScore)
	}
	// Provider publishes home favorites as positive; internally a home
	// favorite is negative.
	if completed.SpreadLine == nil || *completed.SpreadLine != -3.0 {
		t.Errorf("Expected spread -3.0 after sign flip, got %v", completed.SpreadLine)
	}
	if completed.TotalLine == nil || *completed.TotalLine != 42.5 {
		t.Errorf("Expected total 42.5, got %v", completed.TotalLine)
	}
	if !completed.IsCompleted() || !completed.IsRegularSeason() {
		t.Errorf("Expected completed regular-season game, got %+v", completed)
	}

	playoff := games[1]
	if playoff.IsRegularSeason() {
		t.Errorf("WC game must not count as regular season")
	}
	if playoff.HomeScore != nil || playoff.TotalLine != nil {
		t.Errorf("Empty cells must stay nil, got score=%v total=%v", playoff.HomeScore, playoff.TotalLine)
	}
	if playoff.Kickoff.IsZero() {
		t.Errorf("Expected parsed kickoff time")
	}
}

// TestNFLVerseStableGameIDs tests that game UUIDs are derived, not random
func TestNFLVerseStableGameIDs(t *testing.T) {
	if gameUUID("2023_01_NE_BUF") != gameUUID("2023_01_NE_BUF") {
		t.Errorf("Same provider ID must map to the same UUID")
	}
	if gameUUID("2023_01_NE_BUF") == gameUUID("2023_02_NE_BUF") {
		t.Errorf("Different provider IDs must map to different UUIDs")
	}
}

// TestNFLVerseMissingColumns tests header validation
func TestNFLVerseMissingColumns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("game_id,season\n2023_01_NE_BUF,2023\n"))
	}))
	defer server.Close()

	source := NewNFLVerseSource(config.DataSourceConfig{
		Name:    config.NFLVerseSourceName,
		Enabled: true,
		BaseURL: server.URL,
	}, testHTTPClient(), testLogger())

	if _, err := source.FetchPlays(context.Background(), 2023); err == nil {
		t.Errorf("Expected error for missing columns, got nil")
	}
}

// TestNFLVerseNotFound tests missing-season handling
func TestNFLVerseNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	source := NewNFLVerseSource(config.DataSourceConfig{
		Name:    config.NFLVerseSourceName,
		Enabled: true,
		BaseURL: server.URL,
	}, testHTTPClient(), testLogger())

	_, err := source.FetchPlays(context.Background(), 1990)
	if err == nil {
		t.Fatalf("Expected error for missing season, got nil")
	}
	var dsErr DataSourceError
	if !errors.As(err, &dsErr) || dsErr.Code != ErrCodeNotFound {
		t.Errorf("Expected not_found code, got %v", err)
	}
}

const oddsPayload = `[
  {
    "commence_time": "2023-09-10T17:00:00Z",
    "home_team": "Buffalo Bills",
    "away_team": "New England Patriots",
    "bookmakers": [
      {
        "key": "draftkings",
        "markets": [
          {
            "key": "spreads",
            "outcomes": [
              {"name": "Buffalo Bills", "price": -110, "point": -6.5},
              {"name": "New England Patriots", "price": -110, "point": 6.5}
            ]
          },
          {
            "key": "totals",
            "outcomes": [
              {"name": "Over", "price": -110, "point": 43.5},
              {"name": "Under", "price": -110, "point": 43.5}
            ]
          }
        ]
      }
    ]
  },
  {
    "commence_time": "2023-09-10T20:25:00Z",
    "home_team": "Denver Broncos",
    "away_team": "Las Vegas Raiders",
    "bookmakers": []
  }
]`

// TestOddsAPIFetchLines tests market line extraction
func TestOddsAPIFetchLines(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Query().Get("apiKey") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(oddsPayload))
	}))
	defer server.Close()

	source := NewOddsAPISource(config.DataSourceConfig{
		Name:    config.OddsAPISourceName,
		Enabled: true,
		BaseURL: server.URL,
		APIKey:  "test-key",
	}, testHTTPClient(), testLogger())

	lines, err := source.FetchLines(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	// The event with no bookmakers is dropped.
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line, got %d", len(lines))
	}
	line := lines[0]
	if line.HomeTeam != "Buffalo Bills" {
		t.Errorf("Expected Buffalo Bills home, got %s", line.HomeTeam)
	}
	if line.SpreadLine == nil || *line.SpreadLine != -6.5 {
		t.Errorf("Expected home spread -6.5, got %v", line.SpreadLine)
	}
	if line.TotalLine == nil || *line.TotalLine != 43.5 {
		t.Errorf("Expected total 43.5, got %v", line.TotalLine)
	}
	if line.Bookmaker != "draftkings" {
		t.Errorf("Expected bookmaker draftkings, got %s", line.Bookmaker)
	}

	// Second call within the cache TTL must not hit the provider again.
	if _, err := source.FetchLines(context.Background()); err != nil {
		t.Fatalf("Expected cached fetch to succeed, got: %v", err)
	}
	if requests != 1 {
		t.Errorf("Expected 1 upstream request with caching, got %d", requests)
	}
}

// TestOddsAPIAuthFailure tests rejected credentials
func TestOddsAPIAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	source := NewOddsAPISource(config.DataSourceConfig{
		Name:    config.OddsAPISourceName,
		Enabled: true,
		BaseURL: server.URL,
		APIKey:  "bad-key",
	}, testHTTPClient(), testLogger())

	_, err := source.FetchLines(context.Background())
	if err == nil {
		t.Fatalf("Expected error for rejected key, got nil")
	}
	var dsErr DataSourceError
	if !errors.As(err, &dsErr) || dsErr.Code != ErrCodeAuthenticationFailed {
		t.Errorf("Expected authentication_failed code, got %v", err)
	}
}

// TestOddsAPIMissingKey tests that an unconfigured key fails fast
func TestOddsAPIMissingKey(t *testing.T) {
	source := NewOddsAPISource(config.DataSourceConfig{
		Name:    config.OddsAPISourceName,
		Enabled: true,
		BaseURL: "http://localhost",
	}, testHTTPClient(), testLogger())

	if _, err := source.FetchLines(context.Background()); err == nil {
		t.Errorf("Expected error without API key, got nil")
	}
}

// TestFactoryBuild tests source construction from configuration
func TestFactoryBuild(t *testing.T) {
	factory := NewFactory(testHTTPClient(), testLogger())

	sources, err := factory.Build(config.DataIngestionConfig{
		Sources: []config.DataSourceConfig{
			{Name: config.NFLVerseSourceName, Enabled: true, BaseURL: "http://localhost"},
			{Name: config.OddsAPISourceName, Enabled: false},
		},
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if sources.Stats == nil {
		t.Errorf("Expected stats source to be built")
	}
	if sources.Odds != nil {
		t.Errorf("Disabled odds source must stay nil")
	}
}

// TestFactoryBuildErrors tests factory failure modes
func TestFactoryBuildErrors(t *testing.T) {
	factory := NewFactory(testHTTPClient(), testLogger())

	tests := []struct {
		name    string
		sources []config.DataSourceConfig
	}{
		{"unknown source", []config.DataSourceConfig{
			{Name: "espn", Enabled: true},
		}},
		{"stats source disabled", []config.DataSourceConfig{
			{Name: config.NFLVerseSourceName, Enabled: false},
		}},
		{"odds without key", []config.DataSourceConfig{
			{Name: config.NFLVerseSourceName, Enabled: true, BaseURL: "http://localhost"},
			{Name: config.OddsAPISourceName, Enabled: true},
		}},
		{"stats without base URL", []config.DataSourceConfig{
			{Name: config.NFLVerseSourceName, Enabled: true},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := factory.Build(config.DataIngestionConfig{Sources: tt.sources}); err == nil {
				t.Errorf("Expected error, got nil")
			}
		})
	}
}

// TestHTTPClientRetriesServerErrors tests the retry policy
func TestHTTPClientRetriesServerErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 5
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 1000
	client := NewRateLimitedHTTPClient(cfg, nil)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}
	defer resp.Body.Close()
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
}

// TestHTTPClientNoRetryOnClientError tests that 4xx responses fail fast
func TestHTTPClientNoRetryOnClientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 5
	cfg.RateLimit = 1000
	client := NewRateLimitedHTTPClient(cfg, nil)

	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected response, got error: %v", err)
	}
	defer resp.Body.Close()
	if attempts != 1 {
		t.Errorf("Expected 1 attempt for 400 response, got %d", attempts)
	}
}
