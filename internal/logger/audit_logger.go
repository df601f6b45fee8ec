// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for model output.
// Every prediction and every graded bet passes through here so a run
// can be reconstructed from the log stream alone.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogPrediction logs a model prediction for a game.
func (al *AuditLogger) LogPrediction(predictionID, gameID string, season, week int, homeTeam, awayTeam string, margin, total, winProb float64, usedPriors bool, predictedAt time.Time) {
	al.WithFields(logrus.Fields{
		"prediction_id":    predictionID,
		"game_id":          gameID,
		"season":           season,
		"week":             week,
		"home_team":        homeTeam,
		"away_team":        awayTeam,
		"predicted_margin": margin,
		"predicted_total":  total,
		"home_win_prob":    winProb,
		"used_priors":      usedPriors,
		"timestamp":        predictedAt.Unix(),
	}).Info("Prediction recorded")
}

// LogBetRecommendation logs a spread or totals recommendation that cleared the edge threshold.
func (al *AuditLogger) LogBetRecommendation(gameID, betType, pick string, edge, modelLine, marketLine, stake float64) {
	al.WithFields(logrus.Fields{
		"game_id":     gameID,
		"bet_type":    betType,
		"pick":        pick,
		"edge":        edge,
		"model_line":  modelLine,
		"market_line": marketLine,
		"stake":       stake,
	}).Info("Bet recommendation recorded")
}

// LogBetGraded logs the settled outcome of a recommended bet.
func (al *AuditLogger) LogBetGraded(gameID, betType, pick, result string, profit float64) {
	al.WithFields(logrus.Fields{
		"game_id":  gameID,
		"bet_type": betType,
		"pick":     pick,
		"result":   result,
		"profit":   profit,
	}).Info("Bet graded")
}

// LogModelParameterChange logs model constant changes between runs.
func (al *AuditLogger) LogModelParameterChange(parameterName string, oldValue, newValue interface{}, changedBy string) {
	al.WithFields(logrus.Fields{
		"parameter_name": parameterName,
		"old_value":      oldValue,
		"new_value":      newValue,
		"changed_by":     changedBy,
	}).Info("Model parameter changed")
}

// LogDataQualityEvent logs ingestion rejections and undefined-metric spikes.
func (al *AuditLogger) LogDataQualityEvent(eventType, source, reason string, details map[string]interface{}) {
	al.WithFields(logrus.Fields{
		"event_type": eventType,
		"source":     source,
		"reason":     reason,
		"details":    details,
	}).Warn("Data quality event recorded")
}
