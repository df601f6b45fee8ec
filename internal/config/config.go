// Package config provides configuration management for the Gridiron Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App           AppConfig           `mapstructure:"app" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Model         ModelConfig         `mapstructure:"model" validate:"required"`
	Backtest      BacktestConfig      `mapstructure:"backtest" validate:"required"`
	DataIngestion DataIngestionConfig `mapstructure:"data_ingestion" validate:"required"`
	Metrics       MetricsConfig       `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// ModelConfig holds the tuned constants of the rating model. These are
// empirically calibrated values, not derived ones; every pipeline stage
// receives this struct explicitly instead of reading package-level state.
type ModelConfig struct {
	// Scale converts an EPA/play differential into points of margin.
	Scale float64 `mapstructure:"scale" validate:"required,gt=0"`
	// HomeFieldAdv is the fixed home-field adjustment in points.
	HomeFieldAdv float64 `mapstructure:"home_field_adv" validate:"gte=0"`
	// LeagueAvgTotal is the baseline combined score in points.
	LeagueAvgTotal float64 `mapstructure:"league_avg_total" validate:"required,gt=0"`
	// TotalScale converts net EPA into points of combined score.
	TotalScale float64 `mapstructure:"total_scale" validate:"required,gt=0"`
	// Sigma is the margin standard deviation for the normal win-probability model.
	Sigma float64 `mapstructure:"sigma" validate:"required,gt=0"`
	// WinProbModel selects the win-probability transform: normal or logistic.
	WinProbModel string `mapstructure:"win_prob_model" validate:"required,winprobmodel"`
	// Windows are the trailing-form window sizes in games.
	Windows []int `mapstructure:"windows" validate:"required,min=1,dive,gt=1"`
	// MinEdgeThreshold is the minimum |model − market| spread gap, in
	// points, before a game is graded against the spread.
	MinEdgeThreshold float64 `mapstructure:"min_edge_threshold" validate:"gte=0"`
}

// DefaultModelConfig returns the documented model defaults
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		Scale:            35,
		HomeFieldAdv:     2.5,
		LeagueAvgTotal:   44.5,
		TotalScale:       20,
		Sigma:            13.5,
		WinProbModel:     "normal",
		Windows:          []int{3, 5},
		MinEdgeThreshold: 1.5,
	}
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	Season               int       `mapstructure:"season" validate:"required,gte=1999"`
	StartWeek            int       `mapstructure:"start_week" validate:"required,gte=1,lte=22"`
	EndWeek              int       `mapstructure:"end_week" validate:"required,gte=1,lte=22"`
	FlatStake            float64   `mapstructure:"flat_stake" validate:"required,gt=0"`
	InitialBankroll      float64   `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	EdgeBuckets          []float64 `mapstructure:"edge_buckets" validate:"omitempty,ascending"`
	ConfidenceBuckets    []float64 `mapstructure:"confidence_buckets" validate:"omitempty,ascending"`
	MonteCarloIterations int       `mapstructure:"monte_carlo_iterations" validate:"required,gt=0"`
	OutputPath           string    `mapstructure:"output_path" validate:"required"`
	CSVExport            bool      `mapstructure:"csv_export"`
}

// DataIngestionConfig represents data ingestion configuration
type DataIngestionConfig struct {
	Sources  []DataSourceConfig `mapstructure:"sources" validate:"required,min=1"`
	Schedule ScheduleConfig     `mapstructure:"schedule" validate:"required"`
}

// DataSourceConfig represents a single data source configuration
type DataSourceConfig struct {
	Name      string `mapstructure:"name" validate:"required"`
	Enabled   bool   `mapstructure:"enabled"`
	BaseURL   string `mapstructure:"base_url" validate:"omitempty,url"`
	BatchSize int    `mapstructure:"batch_size" validate:"omitempty,gt=0"`
	APIKey    string `mapstructure:"api_key"`
}

// ScheduleConfig represents data ingestion scheduling
type ScheduleConfig struct {
	WeeklySync                 string `mapstructure:"weekly_sync" validate:"required"`
	OddsPollingIntervalSeconds int    `mapstructure:"odds_polling_interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
