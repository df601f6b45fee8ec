package backtest

import (
	"fmt"
	"math"
	"sort"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// BucketFn assigns a record to a named bucket. The second return is
// false when the record does not belong to any bucket of this
// partitioning (for example a game with no spread bet in an edge-size
// partition).
type BucketFn func(r *models.BacktestRecord) (string, bool)

// Partition splits graded records by bucket and aggregates metrics per
// bucket. Per-game fields were derived once by the evaluator; this
// only regroups them.
func Partition(records []models.BacktestRecord, bucket BucketFn, flatStake float64) map[string]Metrics {
	grouped := make(map[string][]models.BacktestRecord)
	for i := range records {
		name, ok := bucket(&records[i])
		if !ok {
			continue
		}
		grouped[name] = append(grouped[name], records[i])
	}

	result := make(map[string]Metrics, len(grouped))
	for name, group := range grouped {
		result[name] = CalculateMetrics(group, flatStake)
	}
	return result
}

// BucketNames returns the bucket names of a partition result in sorted order
func BucketNames(partitions map[string]Metrics) []string {
	names := make([]string, 0, len(partitions))
	for name := range partitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ByWeek buckets records by game week
func ByWeek() BucketFn {
	return func(r *models.BacktestRecord) (string, bool) {
		return fmt.Sprintf("week_%02d", r.Week), true
	}
}

// ByEdgeSize buckets spread bets by absolute edge. Boundaries must be
// strictly ascending and non-negative; records without a spread bet
// are left out of the partition.
func ByEdgeSize(boundaries []float64) (BucketFn, error) {
	if err := checkBoundaries(boundaries, 0, math.Inf(1)); err != nil {
		return nil, fmt.Errorf("edge buckets: %w", err)
	}

	return func(r *models.BacktestRecord) (string, bool) {
		if !r.HasSpreadBet() || !models.IsDefined(r.Edge) {
			return "", false
		}
		return bucketLabel(math.Abs(r.Edge), boundaries), true
	}, nil
}

// ByConfidence buckets records by win-probability confidence, the
// distance of the home win probability from a coin flip. Boundaries
// are probabilities in [0.5, 1].
func ByConfidence(boundaries []float64) (BucketFn, error) {
	if err := checkBoundaries(boundaries, 0, 1); err != nil {
		return nil, fmt.Errorf("confidence buckets: %w", err)
	}

	return func(r *models.BacktestRecord) (string, bool) {
		confidence := math.Max(r.HomeWinProbability, 1-r.HomeWinProbability)
		return bucketLabel(confidence, boundaries), true
	}, nil
}

func checkBoundaries(boundaries []float64, min, max float64) error {
	if len(boundaries) == 0 {
		return fmt.Errorf("at least one boundary required")
	}
	for i, b := range boundaries {
		if b < min || b > max {
			return fmt.Errorf("boundary %v outside [%v, %v]", b, min, max)
		}
		if i > 0 && b <= boundaries[i-1] {
			return fmt.Errorf("boundaries must be strictly ascending, got %v after %v", b, boundaries[i-1])
		}
	}
	return nil
}

// bucketLabel names the half-open interval the value falls into
func bucketLabel(value float64, boundaries []float64) string {
	if value < boundaries[0] {
		return fmt.Sprintf("lt_%.2f", boundaries[0])
	}
	for i := 1; i < len(boundaries); i++ {
		if value < boundaries[i] {
			return fmt.Sprintf("%.2f_to_%.2f", boundaries[i-1], boundaries[i])
		}
	}
	return fmt.Sprintf("gte_%.2f", boundaries[len(boundaries)-1])
}
