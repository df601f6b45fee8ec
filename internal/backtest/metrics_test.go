package backtest

import (
	"math"
	"testing"

	"github.com/google/uuid"

	"github.com/yourusername/gridiron-edge/internal/models"
)

func boolPtr(v bool) *bool {
	return &v
}

func gradedRecord(week int, covered *bool, edge float64) models.BacktestRecord {
	pick := models.ATSPickHome
	if edge > 0 {
		pick = models.ATSPickAway
	}
	return models.BacktestRecord{
		PredictionID:       uuid.New(),
		GameID:             uuid.New(),
		Season:             2023,
		Week:               week,
		HomeTeam:           "BUF",
		AwayTeam:           "NE",
		PredictedMargin:    4,
		ActualMargin:       7,
		MarginError:        3,
		SignedError:        -3,
		HomeWinProbability: 0.62,
		CorrectWinner:      boolPtr(true),
		ModelSpread:        -4,
		VegasSpread:        floatPtr(-3),
		Edge:               edge,
		ATSPick:            pick,
		Covered:            covered,
		TotalEdge:          models.Undefined(),
	}
}

func TestCalculateMetricsPushExcluded(t *testing.T) {
	records := []models.BacktestRecord{
		gradedRecord(1, boolPtr(true), -2),
		gradedRecord(1, boolPtr(false), -2),
		gradedRecord(2, nil, -2), // push
	}

	metrics := CalculateMetrics(records, 110)

	if metrics.SpreadBets != 3 {
		t.Errorf("expected 3 spread bets, got %d", metrics.SpreadBets)
	}
	if metrics.SpreadPushes != 1 {
		t.Errorf("expected 1 push, got %d", metrics.SpreadPushes)
	}
	// Push excluded from denominator: 1 win of 2 decided.
	if math.Abs(metrics.ATSRate-0.5) > epsilon {
		t.Errorf("expected ATS rate 0.5 with push excluded, got %v", metrics.ATSRate)
	}
}

func TestCalculateMetricsProfitAtStandardOdds(t *testing.T) {
	records := []models.BacktestRecord{
		gradedRecord(1, boolPtr(true), -2),
		gradedRecord(1, boolPtr(true), -2),
		gradedRecord(2, boolPtr(false), -2),
	}

	metrics := CalculateMetrics(records, 110)

	// 2 x 100 - 1 x 110 = 90.
	if math.Abs(metrics.SpreadProfit-90) > 1e-6 {
		t.Errorf("expected spread profit 90, got %v", metrics.SpreadProfit)
	}
	want := 90.0 / 330.0
	if math.Abs(metrics.SpreadROI-want) > 1e-6 {
		t.Errorf("expected ROI %v, got %v", want, metrics.SpreadROI)
	}
}

func TestCalculateMetricsErrorStats(t *testing.T) {
	a := gradedRecord(1, boolPtr(true), -2)
	a.MarginError, a.SignedError = 3, 3
	b := gradedRecord(1, boolPtr(false), -2)
	b.MarginError, b.SignedError = 5, -5

	metrics := CalculateMetrics([]models.BacktestRecord{a, b}, 110)

	if math.Abs(metrics.MeanAbsoluteError-4) > epsilon {
		t.Errorf("expected MAE 4, got %v", metrics.MeanAbsoluteError)
	}
	wantRMSE := math.Sqrt((9.0 + 25.0) / 2.0)
	if math.Abs(metrics.RMSE-wantRMSE) > epsilon {
		t.Errorf("expected RMSE %v, got %v", wantRMSE, metrics.RMSE)
	}
	if math.Abs(metrics.Bias-(-1)) > epsilon {
		t.Errorf("expected bias -1, got %v", metrics.Bias)
	}
}

func TestCalculateMetricsWinnerDenominator(t *testing.T) {
	graded := gradedRecord(1, nil, 0)
	graded.ATSPick = models.ATSPickNone
	push := gradedRecord(1, nil, 0)
	push.ATSPick = models.ATSPickNone
	push.CorrectWinner = nil // tied game

	metrics := CalculateMetrics([]models.BacktestRecord{graded, push}, 110)

	if metrics.WinnerGraded != 1 {
		t.Errorf("tied game must not enter winner denominator, got %d", metrics.WinnerGraded)
	}
	if math.Abs(metrics.HitRate-1.0) > epsilon {
		t.Errorf("expected hit rate 1.0, got %v", metrics.HitRate)
	}
}

func TestPartitionByWeek(t *testing.T) {
	records := []models.BacktestRecord{
		gradedRecord(1, boolPtr(true), -2),
		gradedRecord(1, boolPtr(false), -2),
		gradedRecord(2, boolPtr(true), -2),
	}

	partitions := Partition(records, ByWeek(), 110)

	if len(partitions) != 2 {
		t.Fatalf("expected 2 week buckets, got %d", len(partitions))
	}
	week1 := partitions["week_01"]
	if week1.GamesEvaluated != 2 {
		t.Errorf("expected 2 games in week_01, got %d", week1.GamesEvaluated)
	}
}

func TestPartitionByEdgeSize(t *testing.T) {
	bucket, err := ByEdgeSize([]float64{1.5, 3, 6})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	small := gradedRecord(1, boolPtr(true), -2)   // |edge| 2 -> [1.5, 3)
	large := gradedRecord(1, boolPtr(false), 9)   // |edge| 9 -> >= 6
	noBet := gradedRecord(1, nil, 0.5)            // below threshold
	noBet.ATSPick = models.ATSPickNone

	partitions := Partition([]models.BacktestRecord{small, large, noBet}, bucket, 110)

	if len(partitions) != 2 {
		t.Fatalf("expected 2 edge buckets, got %v", BucketNames(partitions))
	}
	if partitions["1.50_to_3.00"].GamesEvaluated != 1 {
		t.Errorf("expected small edge in 1.50_to_3.00 bucket, got %v", BucketNames(partitions))
	}
	if partitions["gte_6.00"].GamesEvaluated != 1 {
		t.Errorf("expected large edge in gte_6.00 bucket, got %v", BucketNames(partitions))
	}
}

func TestPartitionByConfidence(t *testing.T) {
	bucket, err := ByConfidence([]float64{0.55, 0.65})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	sure := gradedRecord(1, boolPtr(true), -2)
	sure.HomeWinProbability = 0.70
	coinFlip := gradedRecord(1, boolPtr(false), -2)
	coinFlip.HomeWinProbability = 0.52
	awaySure := gradedRecord(1, boolPtr(true), -2)
	awaySure.HomeWinProbability = 0.30 // confidence 0.70 on the away side

	partitions := Partition([]models.BacktestRecord{sure, coinFlip, awaySure}, bucket, 110)

	if partitions["gte_0.65"].GamesEvaluated != 2 {
		t.Errorf("expected both high-confidence games in gte_0.65, got %v", BucketNames(partitions))
	}
	if partitions["lt_0.55"].GamesEvaluated != 1 {
		t.Errorf("expected the coin flip in lt_0.55, got %v", BucketNames(partitions))
	}
}

func TestInvalidBucketBoundariesRejected(t *testing.T) {
	if _, err := ByEdgeSize([]float64{3, 1.5}); err == nil {
		t.Fatal("expected error for descending boundaries")
	}
	if _, err := ByEdgeSize(nil); err == nil {
		t.Fatal("expected error for empty boundaries")
	}
	if _, err := ByConfidence([]float64{0.5, 1.5}); err == nil {
		t.Fatal("expected error for probability boundary above 1")
	}
}

func TestBuildEquityCurve(t *testing.T) {
	records := []models.BacktestRecord{
		gradedRecord(2, boolPtr(false), -2),
		gradedRecord(1, boolPtr(true), -2),
		gradedRecord(1, nil, -2), // push: zero PnL point
	}

	curve := BuildEquityCurve(records, 1000, 110)

	if len(curve) != 3 {
		t.Fatalf("expected 3 equity points, got %d", len(curve))
	}
	if curve[0].Week != 1 {
		t.Errorf("curve must be week-ordered, first point week %d", curve[0].Week)
	}
	final := curve[len(curve)-1].Bankroll
	// 1000 + 100 (win) + 0 (push) - 110 (loss) = 990.
	if math.Abs(final-990) > 1e-6 {
		t.Errorf("expected final bankroll 990, got %v", final)
	}
}

func TestEquityCurveMaxDrawdown(t *testing.T) {
	curve := EquityCurve{
		{Week: 1, Bankroll: 1000},
		{Week: 2, Bankroll: 1100},
		{Week: 3, Bankroll: 880},
		{Week: 4, Bankroll: 990},
	}

	want := (1100.0 - 880.0) / 1100.0
	if got := curve.MaxDrawdown(); math.Abs(got-want) > epsilon {
		t.Errorf("expected max drawdown %v, got %v", want, got)
	}
}
