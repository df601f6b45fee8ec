package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// closingLineWindow is how close to kickoff a polled line is treated as
// the closing line.
const closingLineWindow = time.Hour

// IngestionService fetches external data, validates it, and persists
// it. Individual bad records are rejected and counted; source-level
// failures abort the run.
type IngestionService struct {
	sources   *datasource.Sources
	repos     *repository.Repositories
	validator *DataValidator
	metrics   *IngestionMetrics
	audit     *logger.AuditLogger
	log       *logrus.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	sources *datasource.Sources,
	repos *repository.Repositories,
	validator *DataValidator,
	audit *logger.AuditLogger,
	log *logrus.Logger,
) *IngestionService {
	return &IngestionService{
		sources:   sources,
		repos:     repos,
		validator: validator,
		metrics:   NewIngestionMetrics(),
		audit:     audit,
		log:       log,
	}
}

// SyncSeason ingests the schedule and play-by-play data for a season.
// Plays are reloaded wholesale: the provider corrects rows after the
// fact, so an incremental append would accumulate stale data.
func (s *IngestionService) SyncSeason(ctx context.Context, season int) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()
	sourceName := s.sources.Stats.Name()

	s.log.WithFields(logrus.Fields{
		"source": sourceName,
		"season": season,
	}).Info("Starting season sync")

	games, err := s.sources.Stats.FetchSchedule(ctx, season)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch schedule: %w", err)
	}
	s.metrics.GamesFetched = len(games)

	validGames, rejected := s.validator.FilterGames(games)
	if rejected > 0 {
		s.metrics.RecordValidationErrors(rejected)
		s.reportRejections("game", sourceName, rejected)
	}

	if err := s.repos.Game.UpsertBatch(ctx, validGames); err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to store games: %w", err)
	}
	s.metrics.GamesStored = len(validGames)
	metrics.RecordGamesIngested(sourceName, len(validGames))

	plays, err := s.sources.Stats.FetchPlays(ctx, season)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to fetch plays: %w", err)
	}
	s.metrics.PlaysFetched = len(plays)

	validPlays, rejected := s.validator.FilterPlays(plays)
	if rejected > 0 {
		s.metrics.RecordValidationErrors(rejected)
		s.reportRejections("play", sourceName, rejected)
	}

	if err := s.repos.Play.DeleteSeason(ctx, season); err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to clear existing plays: %w", err)
	}
	stored, err := s.repos.Play.InsertBatch(ctx, validPlays)
	if err != nil {
		s.metrics.RecordError()
		return s.metrics, fmt.Errorf("failed to store plays: %w", err)
	}
	s.metrics.PlaysStored = stored

	undefinedEPA := 0
	for i := range validPlays {
		if validPlays[i].EPA == nil {
			undefinedEPA++
		}
	}
	metrics.RecordPlaysIngested(sourceName, stored, undefinedEPA)

	s.metrics.Duration = time.Since(startTime)
	metrics.RecordIngestionDuration(sourceName, s.metrics.Duration.Seconds())

	s.log.WithFields(logrus.Fields{
		"source":        sourceName,
		"season":        season,
		"games_stored":  s.metrics.GamesStored,
		"plays_stored":  s.metrics.PlaysStored,
		"rejected":      s.metrics.ValidationErrors,
		"undefined_epa": undefinedEPA,
		"duration":      s.metrics.Duration.String(),
	}).Info("Season sync complete")

	return s.metrics, nil
}

// SyncOdds polls current market lines and applies them to the stored
// games for the given week. Lines polled within an hour of kickoff are
// also recorded as closing lines for later CLV reporting.
func (s *IngestionService) SyncOdds(ctx context.Context, season, week int) (*IngestionMetrics, error) {
	if s.sources.Odds == nil {
		return s.metrics, fmt.Errorf("no odds source configured")
	}

	lines, err := s.sources.Odds.FetchLines(ctx)
	if err != nil {
		s.metrics.RecordError()
		metrics.RecordOddsPoll("failure")
		return s.metrics, fmt.Errorf("failed to fetch lines: %w", err)
	}

	games, err := s.repos.Game.GetByWeek(ctx, season, week)
	if err != nil {
		s.metrics.RecordError()
		metrics.RecordOddsPoll("failure")
		return s.metrics, fmt.Errorf("failed to load games for week %d: %w", week, err)
	}

	byMatchup := make(map[string]*models.Game, len(games))
	for _, game := range games {
		byMatchup[game.HomeTeam+"/"+game.AwayTeam] = game
	}

	now := time.Now()
	for _, line := range lines {
		home, homeOK := TeamAbbreviation(line.HomeTeam)
		away, awayOK := TeamAbbreviation(line.AwayTeam)
		if !homeOK || !awayOK {
			s.metrics.LinesUnmatched++
			if s.audit != nil {
				s.audit.LogDataQualityEvent("unknown_team", s.sources.Odds.Name(), "unmapped team name", map[string]interface{}{
					"home_team": line.HomeTeam,
					"away_team": line.AwayTeam,
				})
			}
			continue
		}

		game, ok := byMatchup[home+"/"+away]
		if !ok {
			s.metrics.LinesUnmatched++
			continue
		}

		game.SpreadLine = line.SpreadLine
		game.TotalLine = line.TotalLine
		if game.Kickoff.Sub(now) <= closingLineWindow {
			game.CloseSpreadLine = line.SpreadLine
			game.CloseTotalLine = line.TotalLine
		}

		if err := s.repos.Game.Upsert(ctx, game); err != nil {
			s.metrics.RecordError()
			s.log.WithFields(logrus.Fields{
				"game_id": game.ID,
				"error":   err.Error(),
			}).Error("Failed to store updated line")
			continue
		}
		s.metrics.LinesMatched++
	}

	metrics.RecordOddsPoll("success")
	s.log.WithFields(logrus.Fields{
		"season":    season,
		"week":      week,
		"matched":   s.metrics.LinesMatched,
		"unmatched": s.metrics.LinesUnmatched,
	}).Info("Odds sync complete")

	return s.metrics, nil
}

// SyncCurrentOdds resolves the season and week in progress and polls
// lines for it. The week in progress is the earliest regular-season
// week that still has unscored games.
func (s *IngestionService) SyncCurrentOdds(ctx context.Context) (*IngestionMetrics, error) {
	season := CurrentSeason(time.Now())

	games, err := s.repos.Game.GetBySeason(ctx, season)
	if err != nil {
		return s.metrics, fmt.Errorf("failed to load season %d: %w", season, err)
	}

	week := 0
	for _, game := range games {
		if !game.IsRegularSeason() || game.IsCompleted() {
			continue
		}
		if week == 0 || game.Week < week {
			week = game.Week
		}
	}
	if week == 0 {
		return s.metrics, fmt.Errorf("season %d has no unscored games to poll", season)
	}

	return s.SyncOdds(ctx, season, week)
}

// CurrentSeason maps a wall-clock time to the NFL season in progress.
// January and February belong to the prior calendar year's season.
func CurrentSeason(now time.Time) int {
	if now.Month() < time.March {
		return now.Year() - 1
	}
	return now.Year()
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}

func (s *IngestionService) reportRejections(recordType, sourceName string, count int) {
	for i := 0; i < count; i++ {
		metrics.RecordValidationRejection(recordType)
	}
	if s.audit != nil {
		s.audit.LogDataQualityEvent("validation_rejection", sourceName, "records failed schema validation", map[string]interface{}{
			"record_type": recordType,
			"count":       count,
		})
	}
}
