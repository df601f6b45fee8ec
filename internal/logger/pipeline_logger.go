// Package logger provides pipeline-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// PipelineLogger provides dedicated logging for pipeline stage operations.
type PipelineLogger struct {
	*logrus.Entry
}

// NewPipelineLogger creates a new pipeline logger.
func NewPipelineLogger(baseLogger *logrus.Logger) *PipelineLogger {
	return &PipelineLogger{
		Entry: baseLogger.WithField("component", "pipeline"),
	}
}

// LogStageCompleted logs completion of a pipeline stage.
func (pl *PipelineLogger) LogStageCompleted(stage string, season, week, recordsIn, recordsOut int, durationMs float64) {
	pl.WithFields(logrus.Fields{
		"stage":       stage,
		"season":      season,
		"week":        week,
		"records_in":  recordsIn,
		"records_out": recordsOut,
		"duration_ms": durationMs,
	}).Info("Pipeline stage completed")
}

// LogRatingsAggregated logs a rating aggregation pass.
func (pl *PipelineLogger) LogRatingsAggregated(season, week, playsProcessed, teamsRated, undefinedMetrics int) {
	pl.WithFields(logrus.Fields{
		"season":            season,
		"week":              week,
		"plays_processed":   playsProcessed,
		"teams_rated":       teamsRated,
		"undefined_metrics": undefinedMetrics,
	}).Info("Team ratings aggregated")
}

// LogFormComputed logs a rolling form computation pass.
func (pl *PipelineLogger) LogFormComputed(season, week, teamsWithForm, teamsBelowMinimum int) {
	pl.WithFields(logrus.Fields{
		"season":              season,
		"week":                week,
		"teams_with_form":     teamsWithForm,
		"teams_below_minimum": teamsBelowMinimum,
	}).Info("Rolling form computed")
}

// LogPriorsFallback logs a prediction built from neutral priors instead of real form.
func (pl *PipelineLogger) LogPriorsFallback(gameID string, season, week int, homeTeam, awayTeam string) {
	pl.WithFields(logrus.Fields{
		"game_id":   gameID,
		"season":    season,
		"week":      week,
		"home_team": homeTeam,
		"away_team": awayTeam,
	}).Warn("Insufficient form, falling back to neutral priors")
}

// LogBacktestSummary logs the headline metrics of a completed backtest run.
func (pl *PipelineLogger) LogBacktestSummary(season, startWeek, endWeek, gamesGraded, betsGraded int, hitRate, atsRate, roi float64) {
	pl.WithFields(logrus.Fields{
		"season":       season,
		"start_week":   startWeek,
		"end_week":     endWeek,
		"games_graded": gamesGraded,
		"bets_graded":  betsGraded,
		"hit_rate":     hitRate,
		"ats_rate":     atsRate,
		"roi":          roi,
	}).Info("Backtest run completed")
}
