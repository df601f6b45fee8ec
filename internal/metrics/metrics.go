// Package metrics provides the centralized Prometheus registry for the
// research pipeline.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PlaysIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "plays_ingested_total",
		Help:      "Total number of plays ingested by source",
	}, []string{"source"})
	GamesIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "games_ingested_total",
		Help:      "Total number of games ingested by source",
	}, []string{"source"})
	UndefinedEPATotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "undefined_epa_plays_total",
		Help:      "Total number of ingested plays with no EPA value",
	})
	ValidationRejectionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "validation_rejections_total",
		Help:      "Total number of records rejected at ingestion by record type",
	}, []string{"record_type"})
	PredictionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "predictions_total",
		Help:      "Total number of matchup predictions produced",
	})
	PriorsFallbacksTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "priors_fallbacks_total",
		Help:      "Total number of predictions built from neutral priors",
	})
	BetRecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "bet_recommendations_total",
		Help:      "Total number of recommendations clearing the edge threshold, by bet type",
	}, []string{"bet_type"})
	OddsPollsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gridiron_edge",
		Name:      "odds_polls_total",
		Help:      "Total number of odds polling runs by status",
	}, []string{"status"})
)

// Gauge metrics
var (
	LastBacktestROI = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "last_backtest_roi",
		Help:      "Spread ROI of the most recent backtest run",
	})
	LastBacktestATSRate = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "last_backtest_ats_rate",
		Help:      "Against-the-spread win rate of the most recent backtest run",
	})
	RatedTeamWeeks = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "gridiron_edge",
		Name:      "rated_team_weeks",
		Help:      "Number of team-week rating rows produced by the last aggregation",
	})
)

// Histogram metrics
var (
	IngestionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "ingestion_duration_seconds",
		Help:      "Duration of ingestion runs by source",
		Buckets:   prometheus.ExponentialBuckets(0.1, 2, 12),
	}, []string{"source"})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "gridiron_edge",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of full backtest runs",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14),
	})
)

// InitRegistry initializes the global Prometheus registry with all metrics.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PlaysIngestedTotal)
		registry.MustRegister(GamesIngestedTotal)
		registry.MustRegister(UndefinedEPATotal)
		registry.MustRegister(ValidationRejectionsTotal)
		registry.MustRegister(PredictionsTotal)
		registry.MustRegister(PriorsFallbacksTotal)
		registry.MustRegister(BetRecommendationsTotal)
		registry.MustRegister(OddsPollsTotal)

		registry.MustRegister(LastBacktestROI)
		registry.MustRegister(LastBacktestATSRate)
		registry.MustRegister(RatedTeamWeeks)

		registry.MustRegister(IngestionDuration)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPlaysIngested records a play ingestion batch.
func RecordPlaysIngested(source string, count, undefinedEPA int) {
	PlaysIngestedTotal.WithLabelValues(source).Add(float64(count))
	UndefinedEPATotal.Add(float64(undefinedEPA))
}

// RecordGamesIngested records a schedule ingestion batch.
func RecordGamesIngested(source string, count int) {
	GamesIngestedTotal.WithLabelValues(source).Add(float64(count))
}

// RecordValidationRejection records a record rejected at ingestion.
func RecordValidationRejection(recordType string) {
	ValidationRejectionsTotal.WithLabelValues(recordType).Inc()
}

// RecordPrediction records a produced prediction.
func RecordPrediction(usedPriors bool) {
	PredictionsTotal.Inc()
	if usedPriors {
		PriorsFallbacksTotal.Inc()
	}
}

// RecordBetRecommendation records a recommendation clearing the threshold.
func RecordBetRecommendation(betType string) {
	BetRecommendationsTotal.WithLabelValues(betType).Inc()
}

// RecordOddsPoll records an odds polling run.
func RecordOddsPoll(status string) {
	OddsPollsTotal.WithLabelValues(status).Inc()
}

// RecordIngestionDuration records the duration of an ingestion run.
func RecordIngestionDuration(source string, durationSeconds float64) {
	IngestionDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordBacktestDuration records the duration of a backtest run.
func RecordBacktestDuration(durationSeconds float64) {
	BacktestDuration.Observe(durationSeconds)
}

// UpdateBacktestResults updates the last-run backtest gauges.
func UpdateBacktestResults(roi, atsRate float64) {
	LastBacktestROI.Set(roi)
	LastBacktestATSRate.Set(atsRate)
}

// UpdateRatedTeamWeeks updates the rated team-weeks gauge.
func UpdateRatedTeamWeeks(count int) {
	RatedTeamWeeks.Set(float64(count))
}
