package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath            = "testdata/valid_config.yaml"
	expansionConfigPath        = "testdata/expansion_config.yaml"
	nonexistentConfigPath      = "testdata/nonexistent_config.yaml"
	expectedNoErrorLoadingMsg  = "expected no error loading config, got %v"
	expectedNoErrorMsg         = "expected no error, got %v"
	gridironEdgeName           = "gridiron-edge"
	developmentEnv             = "development"
	invalidEnv                 = "invalid"
	localhostHost              = "localhost"
	postgresPort               = 5432
	postgresPrefix             = "postgres://"
	testAppName                = "test-app"
	testDBPassword             = "TEST_DB_PASSWORD"
	expandedSecretValue        = "expanded_secret_value"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != gridironEdgeName {
		t.Errorf("expected app name '%s', got '%s'", gridironEdgeName, cfg.App.Name)
	}

	if cfg.App.Environment != developmentEnv {
		t.Errorf("expected environment '%s', got '%s'", developmentEnv, cfg.App.Environment)
	}

	if cfg.Database.Host != localhostHost {
		t.Errorf("expected database host '%s', got '%s'", localhostHost, cfg.Database.Host)
	}

	if cfg.Database.Port != postgresPort {
		t.Errorf("expected database port %d, got %d", postgresPort, cfg.Database.Port)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := Load(nonexistentConfigPath)
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("GRIDIRON_EDGE_APP_NAME", testAppName)
	defer os.Unsetenv("GRIDIRON_EDGE_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorMsg, err)
	}

	if cfg.App.Name != testAppName {
		t.Errorf("expected app name '%s' from environment, got '%s'", testAppName, cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	err = Validate(cfg)
	if err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.App.Environment = invalidEnv
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateInvalidWinProbModel tests validation of the win probability model selector
func TestValidateInvalidWinProbModel(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Model.WinProbModel = "blended"
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for invalid win probability model")
	}

	if !strings.Contains(err.Error(), "WinProbModel") {
		t.Errorf("expected win probability model validation error, got: %v", err)
	}
}

// TestValidateWindowSizes tests that window sizes below 2 are rejected
func TestValidateWindowSizes(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Model.Windows = []int{1, 3}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for window size below 2")
	}
}

// TestValidateUnsortedEdgeBuckets tests validation of bucket boundary ordering
func TestValidateUnsortedEdgeBuckets(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Backtest.EdgeBuckets = []float64{3, 1.5, 6}
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for unsorted edge buckets")
	}
}

// TestValidateWeekRange tests cross-field validation of the backtest week range
func TestValidateWeekRange(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	cfg.Backtest.StartWeek = 10
	cfg.Backtest.EndWeek = 4
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for start_week greater than end_week")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf(expectedNoErrorLoadingMsg, err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}

	if !strings.HasPrefix(dsn, postgresPrefix) {
		t.Errorf("expected DSN to start with '%s', got '%s'", postgresPrefix, dsn)
	}
}

// TestDefaultModelConfig tests the documented model defaults
func TestDefaultModelConfig(t *testing.T) {
	defaults := DefaultModelConfig()

	if defaults.Scale != 35 {
		t.Errorf("expected scale 35, got %v", defaults.Scale)
	}
	if defaults.HomeFieldAdv != 2.5 {
		t.Errorf("expected home field advantage 2.5, got %v", defaults.HomeFieldAdv)
	}
	if defaults.LeagueAvgTotal != 44.5 {
		t.Errorf("expected league average total 44.5, got %v", defaults.LeagueAvgTotal)
	}
	if defaults.WinProbModel != "normal" {
		t.Errorf("expected win probability model 'normal', got '%s'", defaults.WinProbModel)
	}
	if len(defaults.Windows) != 2 || defaults.Windows[0] != 3 || defaults.Windows[1] != 5 {
		t.Errorf("expected windows [3 5], got %v", defaults.Windows)
	}
	if defaults.MinEdgeThreshold != 1.5 {
		t.Errorf("expected min edge threshold 1.5, got %v", defaults.MinEdgeThreshold)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: developmentEnv},
	}

	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}

	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "production"},
	}

	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestIsStaging tests staging environment check
func TestIsStaging(t *testing.T) {
	cfg := &Config{
		App: AppConfig{Environment: "staging"},
	}

	if !cfg.IsStaging() {
		t.Error("expected IsStaging() to return true")
	}

	if cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return false")
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv(testDBPassword, expandedSecretValue)
	defer os.Unsetenv(testDBPassword)

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}

	if cfg.Database.Password != expandedSecretValue {
		t.Errorf("expected password '%s' from environment expansion, got '%s'", expandedSecretValue, cfg.Database.Password)
	}
}
