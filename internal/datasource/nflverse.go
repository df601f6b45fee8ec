package datasource

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/models"
)

const nflverseTimeLayout = "2006-01-02 15:04"

// NFLVerseSource fetches play-by-play and schedule CSVs from the
// nflverse data releases. Rows that are not pass or run plays are
// dropped at this boundary; missing EPA stays nil rather than zero.
type NFLVerseSource struct {
	baseURL string
	enabled bool
	client  *RateLimitedHTTPClient
	log     *logrus.Logger
}

// NewNFLVerseSource creates a play-by-play source from configuration
func NewNFLVerseSource(cfg config.DataSourceConfig, client *RateLimitedHTTPClient, log *logrus.Logger) *NFLVerseSource {
	return &NFLVerseSource{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		enabled: cfg.Enabled,
		client:  client,
		log:     log,
	}
}

// Name returns the data source name
func (s *NFLVerseSource) Name() string {
	return config.NFLVerseSourceName
}

// IsEnabled returns whether the source is enabled
func (s *NFLVerseSource) IsEnabled() bool {
	return s.enabled
}

// FetchPlays retrieves and parses a season of play-by-play data
func (s *NFLVerseSource) FetchPlays(ctx context.Context, season int) ([]models.PlayRecord, error) {
	url := fmt.Sprintf("%s/pbp/play_by_play_%d.csv", s.baseURL, season)
	rows, header, err := s.fetchCSV(ctx, url)
	if err != nil {
		return nil, err
	}

	col, err := columnIndex(header, []string{
		"game_id", "season", "week", "posteam", "defteam", "down",
		"yards_gained", "yardline_100", "epa", "success", "play_type",
		"touchdown", "first_down",
	})
	if err != nil {
		return nil, NewDataSourceError(s.Name(), ErrCodeInvalidData, "play-by-play header", err)
	}

	plays := make([]models.PlayRecord, 0, len(rows))
	skipped := 0
	for _, row := range rows {
		playType := models.PlayType(row[col["play_type"]])
		if playType != models.PlayTypePass && playType != models.PlayTypeRun {
			skipped++
			continue
		}
		offense := row[col["posteam"]]
		defense := row[col["defteam"]]
		if offense == "" || defense == "" {
			skipped++
			continue
		}

		play := models.PlayRecord{
			GameID:      gameUUID(row[col["game_id"]]),
			Season:      intField(row[col["season"]], season),
			Week:        intField(row[col["week"]], 0),
			OffenseTeam: offense,
			DefenseTeam: defense,
			Down:        intField(row[col["down"]], 0),
			YardsGained: intField(row[col["yards_gained"]], 0),
			Yardline:    intField(row[col["yardline_100"]], 0),
			EPA:         floatField(row[col["epa"]]),
			Success:     boolField(row[col["success"]]),
			PlayType:    playType,
			Touchdown:   boolField(row[col["touchdown"]]),
			FirstDown:   boolField(row[col["first_down"]]),
		}
		plays = append(plays, play)
	}

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"source":  s.Name(),
			"season":  season,
			"plays":   len(plays),
			"skipped": skipped,
		}).Info("Fetched play-by-play data")
	}

	return plays, nil
}

// FetchSchedule retrieves the season schedule with final scores and
// closing lines where present.
//
// The provider publishes spread_line with home favorites positive; the
// internal convention is the betting one (negative = home favored), so
// the sign is flipped here at the boundary.
func (s *NFLVerseSource) FetchSchedule(ctx context.Context, season int) ([]models.Game, error) {
	url := fmt.Sprintf("%s/schedules/games_%d.csv", s.baseURL, season)
	rows, header, err := s.fetchCSV(ctx, url)
	if err != nil {
		return nil, err
	}

	col, err := columnIndex(header, []string{
		"game_id", "season", "game_type", "week", "gameday", "gametime",
		"home_team", "away_team", "home_score", "away_score",
		"spread_line", "total_line",
	})
	if err != nil {
		return nil, NewDataSourceError(s.Name(), ErrCodeInvalidData, "schedule header", err)
	}

	now := time.Now().UTC()
	games := make([]models.Game, 0, len(rows))
	for _, row := range rows {
		kickoff, _ := time.Parse(nflverseTimeLayout, row[col["gameday"]]+" "+row[col["gametime"]])

		game := models.Game{
			ID:         gameUUID(row[col["game_id"]]),
			Season:     intField(row[col["season"]], season),
			Week:       intField(row[col["week"]], 0),
			GameType:   row[col["game_type"]],
			Kickoff:    kickoff,
			HomeTeam:   row[col["home_team"]],
			AwayTeam:   row[col["away_team"]],
			HomeScore:  intPtrField(row[col["home_score"]]),
			AwayScore:  intPtrField(row[col["away_score"]]),
			SpreadLine: negate(floatField(row[col["spread_line"]])),
			TotalLine:  floatField(row[col["total_line"]]),
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		games = append(games, game)
	}

	if s.log != nil {
		s.log.WithFields(logrus.Fields{
			"source": s.Name(),
			"season": season,
			"games":  len(games),
		}).Info("Fetched season schedule")
	}

	return games, nil
}

func (s *NFLVerseSource) fetchCSV(ctx context.Context, url string) ([][]string, []string, error) {
	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, nil, NewDataSourceError(s.Name(), ErrCodeNetworkError, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, NewDataSourceError(s.Name(), ErrCodeNotFound, url, ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, nil, NewDataSourceError(s.Name(), ErrCodeServerError, fmt.Sprintf("%s returned %d", url, resp.StatusCode), ErrServerError)
	}

	reader := csv.NewReader(resp.Body)
	reader.ReuseRecord = false

	header, err := reader.Read()
	if err != nil {
		return nil, nil, NewDataSourceError(s.Name(), ErrCodeInvalidData, "missing CSV header", err)
	}

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, NewDataSourceError(s.Name(), ErrCodeInvalidData, "malformed CSV row", err)
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

// gameUUID derives a stable UUID from the provider's game identifier
// so repeated ingestion runs upsert instead of duplicating
func gameUUID(sourceID string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("nflverse/"+sourceID))
}

func columnIndex(header []string, required []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, name := range required {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("required column %q not present", name)
		}
	}
	return col, nil
}

// floatField parses a numeric cell, returning nil for empty or NA
// values so missing data is never coerced to zero
func floatField(value string) *float64 {
	if value == "" || value == "NA" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func intField(value string, fallback int) int {
	if value == "" || value == "NA" {
		return fallback
	}
	// Some providers render integer columns as floats ("3.0").
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return int(f)
}

func intPtrField(value string) *int {
	if value == "" || value == "NA" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	i := int(f)
	return &i
}

func boolField(value string) bool {
	return value == "1" || strings.EqualFold(value, "true")
}

func negate(v *float64) *float64 {
	if v == nil {
		return nil
	}
	n := -*v
	return &n
}
