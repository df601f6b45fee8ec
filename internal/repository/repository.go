package repository

import (
	"fmt"
	"math"

	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	Game           GameRepository
	Play           PlayRepository
	Rating         RatingRepository
	Prediction     PredictionRepository
	BacktestResult BacktestResultRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Game:           NewPostgresGameRepository(db),
		Play:           NewPostgresPlayRepository(db),
		Rating:         NewPostgresRatingRepository(db),
		Prediction:     NewPostgresPredictionRepository(db),
		BacktestResult: NewPostgresBacktestResultRepository(db),
	}, nil
}

// metricToNull maps the undefined-metric marker to SQL NULL. Undefined
// metrics must round-trip through the database without collapsing to
// zero.
func metricToNull(v float64) *float64 {
	if !models.IsDefined(v) {
		return nil
	}
	return &v
}

// nullToMetric maps SQL NULL back to the undefined-metric marker
func nullToMetric(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}
