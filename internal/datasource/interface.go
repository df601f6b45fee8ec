// Package datasource fetches play-by-play, schedule, and market data
// from external providers and maps it to the canonical model shapes.
package datasource

import (
	"context"
	"errors"
	"time"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// PlayByPlaySource defines the interface for fetching play and schedule
// data from a stats provider
type PlayByPlaySource interface {
	// FetchPlays retrieves all plays for a season
	FetchPlays(ctx context.Context, season int) ([]models.PlayRecord, error)

	// FetchSchedule retrieves the season schedule with any final scores
	// and market lines the provider carries
	FetchSchedule(ctx context.Context, season int) ([]models.Game, error)

	// Name returns the name of the data source
	Name() string

	// IsEnabled returns whether this data source is currently enabled
	IsEnabled() bool
}

// OddsSource defines the interface for fetching current market lines
type OddsSource interface {
	// FetchLines retrieves current spread and total lines for upcoming games
	FetchLines(ctx context.Context) ([]GameLine, error)

	Name() string
	IsEnabled() bool
}

// GameLine is a market quote for one game from an odds provider
type GameLine struct {
	HomeTeam   string    `json:"home_team"`
	AwayTeam   string    `json:"away_team"`
	Kickoff    time.Time `json:"kickoff"`
	SpreadLine *float64  `json:"spread_line"` // home spread, negative = home favored
	TotalLine  *float64  `json:"total_line"`
	Bookmaker  string    `json:"bookmaker"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeUnknown              = "unknown"
)

// Error constructors
var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrNetworkError         = errors.New("network error")
	ErrServerError          = errors.New("server error")
)

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
