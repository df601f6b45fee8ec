package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/backtest"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/form"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/predictor"
	"github.com/yourusername/gridiron-edge/internal/rating"
	"github.com/yourusername/gridiron-edge/internal/repository"
)

// PipelineService runs the model pipeline over persisted data: plays
// to ratings to trailing form to predictions to graded results. The
// computation stages are pure; this service only feeds them and
// persists what they return.
type PipelineService struct {
	modelCfg config.ModelConfig
	repos    *repository.Repositories
	pipeline *logger.PipelineLogger
	audit    *logger.AuditLogger
	log      *logrus.Logger
}

// NewPipelineService creates a new pipeline service
func NewPipelineService(modelCfg config.ModelConfig, repos *repository.Repositories, log *logrus.Logger) *PipelineService {
	return &PipelineService{
		modelCfg: modelCfg,
		repos:    repos,
		pipeline: logger.NewPipelineLogger(log),
		audit:    logger.NewAuditLogger(log),
		log:      log,
	}
}

// BacktestRun bundles the artifacts of one backtest: graded records,
// headline metrics, bucketed partitions, the equity curve, and the
// Monte Carlo resampling summary.
type BacktestRun struct {
	Season       int
	StartWeek    int
	EndWeek      int
	Records      []models.BacktestRecord
	Metrics      backtest.Metrics
	ByWeek       map[string]backtest.Metrics
	ByEdge       map[string]backtest.Metrics
	ByConfidence map[string]backtest.Metrics
	EquityCurve  backtest.EquityCurve
	MonteCarlo   *backtest.MonteCarloResult
}

// BuildFormTable aggregates the season's stored plays into weekly
// ratings, persists them, and returns the trailing-form table
func (s *PipelineService) BuildFormTable(ctx context.Context, season int) (*form.Table, error) {
	startTime := time.Now()

	plays, err := s.repos.Play.GetBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("failed to load plays: %w", err)
	}
	if len(plays) == 0 {
		return nil, fmt.Errorf("no plays stored for season %d", season)
	}

	aggregator := rating.NewAggregator(s.log)
	ratings, err := aggregator.Aggregate(plays)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate ratings: %w", err)
	}

	if err := s.repos.Rating.UpsertBatch(ctx, season, ratings); err != nil {
		return nil, fmt.Errorf("failed to store ratings: %w", err)
	}

	undefined := 0
	lastWeek := 0
	for i := range ratings {
		undefined += ratings[i].UndefinedEPA
		if ratings[i].Week > lastWeek {
			lastWeek = ratings[i].Week
		}
	}
	s.pipeline.LogRatingsAggregated(season, lastWeek, len(plays), len(ratings), undefined)
	metrics.UpdateRatedTeamWeeks(len(ratings))

	calculator := form.NewCalculator(s.modelCfg.Windows, s.log)
	table := calculator.Build(ratings)

	s.pipeline.LogStageCompleted("form", season, lastWeek, len(ratings), len(ratings), float64(time.Since(startTime).Milliseconds()))
	return table, nil
}

// BuildMatchups pairs regular-season games with each team's trailing
// form entering the game's week. Form is read strictly from weeks
// before the game, so predicting week W never peeks at week W results.
func BuildMatchups(games []*models.Game, table *form.Table) []models.Matchup {
	matchups := make([]models.Matchup, 0, len(games))
	for _, game := range games {
		if !game.IsRegularSeason() {
			continue
		}
		matchups = append(matchups, models.Matchup{
			GameID:      game.ID,
			Season:      game.Season,
			Week:        game.Week,
			HomeTeam:    game.HomeTeam,
			AwayTeam:    game.AwayTeam,
			HomeOffense: table.At(game.HomeTeam, models.SideOffense, game.Week),
			HomeDefense: table.At(game.HomeTeam, models.SideDefense, game.Week),
			AwayOffense: table.At(game.AwayTeam, models.SideOffense, game.Week),
			AwayDefense: table.At(game.AwayTeam, models.SideDefense, game.Week),
			SpreadLine:  game.SpreadLine,
			TotalLine:   game.TotalLine,
		})
	}
	return matchups
}

// PredictWeek produces and persists predictions for one upcoming week
func (s *PipelineService) PredictWeek(ctx context.Context, season, week int) ([]models.Prediction, error) {
	table, err := s.BuildFormTable(ctx, season)
	if err != nil {
		return nil, err
	}

	games, err := s.repos.Game.GetByWeek(ctx, season, week)
	if err != nil {
		return nil, fmt.Errorf("failed to load games for week %d: %w", week, err)
	}
	if len(games) == 0 {
		return nil, fmt.Errorf("no games scheduled for season %d week %d", season, week)
	}

	predictions, err := s.predict(BuildMatchups(games, table))
	if err != nil {
		return nil, err
	}

	for i := range predictions {
		if err := s.repos.Prediction.Create(ctx, &predictions[i]); err != nil {
			return nil, fmt.Errorf("failed to store prediction: %w", err)
		}
	}

	return predictions, nil
}

// RunBacktest replays a season week range: predictions from trailing
// form only, graded against final scores and stored market lines.
func (s *PipelineService) RunBacktest(ctx context.Context, cfg config.BacktestConfig) (*BacktestRun, error) {
	startTime := time.Now()

	table, err := s.BuildFormTable(ctx, cfg.Season)
	if err != nil {
		return nil, err
	}

	games, err := s.repos.Game.GetBySeason(ctx, cfg.Season)
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}

	inRange := make([]*models.Game, 0, len(games))
	gamesByID := make(map[uuid.UUID]*models.Game, len(games))
	for _, game := range games {
		if game.Week < cfg.StartWeek || game.Week > cfg.EndWeek {
			continue
		}
		inRange = append(inRange, game)
		gamesByID[game.ID] = game
	}
	if len(inRange) == 0 {
		return nil, fmt.Errorf("no games in season %d weeks %d-%d", cfg.Season, cfg.StartWeek, cfg.EndWeek)
	}

	predictions, err := s.predict(BuildMatchups(inRange, table))
	if err != nil {
		return nil, err
	}

	for i := range predictions {
		if err := s.repos.Prediction.Create(ctx, &predictions[i]); err != nil {
			return nil, fmt.Errorf("failed to store prediction: %w", err)
		}
	}

	evaluator, err := backtest.NewEvaluator(s.modelCfg, s.log)
	if err != nil {
		return nil, err
	}
	records, err := evaluator.Evaluate(predictions, gamesByID)
	if err != nil {
		return nil, fmt.Errorf("failed to grade predictions: %w", err)
	}

	if err := s.repos.BacktestResult.UpsertBatch(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to store backtest results: %w", err)
	}
	s.auditBets(records, cfg.FlatStake)

	run := &BacktestRun{
		Season:    cfg.Season,
		StartWeek: cfg.StartWeek,
		EndWeek:   cfg.EndWeek,
		Records:   records,
		Metrics:   backtest.CalculateMetrics(records, cfg.FlatStake),
	}
	run.ByWeek = backtest.Partition(records, backtest.ByWeek(), cfg.FlatStake)
	run.EquityCurve = backtest.BuildEquityCurve(records, cfg.InitialBankroll, cfg.FlatStake)

	if len(cfg.EdgeBuckets) > 0 {
		bucket, err := backtest.ByEdgeSize(cfg.EdgeBuckets)
		if err != nil {
			return nil, err
		}
		run.ByEdge = backtest.Partition(records, bucket, cfg.FlatStake)
	}
	if len(cfg.ConfidenceBuckets) > 0 {
		bucket, err := backtest.ByConfidence(cfg.ConfidenceBuckets)
		if err != nil {
			return nil, err
		}
		run.ByConfidence = backtest.Partition(records, bucket, cfg.FlatStake)
	}

	if cfg.MonteCarloIterations > 0 && run.Metrics.SpreadWins+run.Metrics.SpreadLosses > 0 {
		mc, err := backtest.RunMonteCarlo(records, backtest.MonteCarloConfig{
			Iterations:      cfg.MonteCarloIterations,
			InitialBankroll: cfg.InitialBankroll,
			FlatStake:       cfg.FlatStake,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to run Monte Carlo resampling: %w", err)
		}
		run.MonteCarlo = &mc
	}

	s.pipeline.LogBacktestSummary(cfg.Season, cfg.StartWeek, cfg.EndWeek,
		run.Metrics.GamesEvaluated, run.Metrics.SpreadBets,
		run.Metrics.HitRate, run.Metrics.ATSRate, run.Metrics.SpreadROI)
	metrics.UpdateBacktestResults(run.Metrics.SpreadROI, run.Metrics.ATSRate)
	metrics.RecordBacktestDuration(time.Since(startTime).Seconds())

	return run, nil
}

// predict runs the predictor over matchups with audit logging
func (s *PipelineService) predict(matchups []models.Matchup) ([]models.Prediction, error) {
	pred, err := predictor.NewPredictor(s.modelCfg, s.log)
	if err != nil {
		return nil, err
	}

	predictions, err := pred.PredictAll(matchups)
	if err != nil {
		return nil, err
	}

	for i := range predictions {
		p := &predictions[i]
		metrics.RecordPrediction(p.UsedPriors)
		if p.UsedPriors {
			s.pipeline.LogPriorsFallback(p.GameID.String(), p.Season, p.Week, p.HomeTeam, p.AwayTeam)
		}
		s.audit.LogPrediction(p.ID.String(), p.GameID.String(), p.Season, p.Week,
			p.HomeTeam, p.AwayTeam, p.PredictedMargin, p.PredictedTotal,
			p.HomeWinProbability, p.UsedPriors, p.PredictedAt)
	}

	return predictions, nil
}

// auditBets writes an audit line for every graded recommendation
func (s *PipelineService) auditBets(records []models.BacktestRecord, stake float64) {
	for i := range records {
		r := &records[i]
		if r.HasSpreadBet() && r.VegasSpread != nil {
			metrics.RecordBetRecommendation("spread")
			s.audit.LogBetRecommendation(r.GameID.String(), "spread", string(r.ATSPick),
				r.Edge, r.ModelSpread, *r.VegasSpread, stake)
			s.audit.LogBetGraded(r.GameID.String(), "spread", string(r.ATSPick), betResult(r.Covered), betProfit(r.Covered, stake))
		}
		if r.HasTotalBet() && r.VegasTotal != nil {
			metrics.RecordBetRecommendation("total")
			s.audit.LogBetRecommendation(r.GameID.String(), "total", string(r.TotalPick),
				r.TotalEdge, r.PredictedTotal, *r.VegasTotal, stake)
			s.audit.LogBetGraded(r.GameID.String(), "total", string(r.TotalPick), betResult(r.TotalCovered), betProfit(r.TotalCovered, stake))
		}
	}
}

func betResult(covered *bool) string {
	switch {
	case covered == nil:
		return "push"
	case *covered:
		return "win"
	default:
		return "loss"
	}
}

func betProfit(covered *bool, stake float64) float64 {
	switch {
	case covered == nil:
		return 0
	case *covered:
		return stake / 1.1
	default:
		return -stake
	}
}
