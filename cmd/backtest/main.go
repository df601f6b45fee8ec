// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/backtest"
	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		season     = flag.Int("season", 0, "Override backtest season")
		startWeek  = flag.Int("start-week", 0, "Override first week to replay")
		endWeek    = flag.Int("end-week", 0, "Override last week to replay")
		output     = flag.String("output", "", "Override output directory for CSV/JSON artifacts")
		csvExport  = flag.Bool("csv", false, "Force CSV export regardless of config")
	)
	flag.Parse()

	ctx := context.Background()
	cfg := loadConfigWithSecrets(*configPath)
	appLog := logger.NewLogger(cfg.App.LogLevel)

	btConfig := buildBacktestConfig(cfg, *season, *startWeek, *endWeek, *output, *csvExport)

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	pipeline := service.NewPipelineService(cfg.Model, repos, appLog)

	appLog.WithFields(logrus.Fields{
		"season":     btConfig.Season,
		"start_week": btConfig.StartWeek,
		"end_week":   btConfig.EndWeek,
	}).Info("Starting backtest")

	run, err := pipeline.RunBacktest(ctx, btConfig)
	if err != nil {
		appLog.WithError(err).Fatal("Backtest failed")
	}

	printReports(run)

	if btConfig.CSVExport {
		if err := exportArtifacts(run, btConfig.OutputPath); err != nil {
			appLog.WithError(err).Fatal("Failed to write backtest artifacts")
		}
		appLog.WithField("output", btConfig.OutputPath).Info("Backtest artifacts written")
	}
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			fmt.Fprintln(os.Stderr, "AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
			os.Exit(1)
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load secrets: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

func buildBacktestConfig(cfg *config.Config, season, startWeek, endWeek int, output string, csvExport bool) config.BacktestConfig {
	btConfig := cfg.Backtest
	if season > 0 {
		btConfig.Season = season
	}
	if startWeek > 0 {
		btConfig.StartWeek = startWeek
	}
	if endWeek > 0 {
		btConfig.EndWeek = endWeek
	}
	if output != "" {
		btConfig.OutputPath = output
	}
	if csvExport {
		btConfig.CSVExport = true
	}
	return btConfig
}

func printReports(run *service.BacktestRun) {
	fmt.Println(backtest.GenerateConsoleReport(run.Metrics))
	fmt.Println(backtest.GeneratePartitionReport("By Week", run.ByWeek))
	if len(run.ByEdge) > 0 {
		fmt.Println(backtest.GeneratePartitionReport("By Edge Size", run.ByEdge))
	}
	if len(run.ByConfidence) > 0 {
		fmt.Println(backtest.GeneratePartitionReport("By Confidence", run.ByConfidence))
	}
	if run.MonteCarlo != nil {
		fmt.Printf("Monte Carlo (%d iterations): mean return %.2f%%, P(profit) %.1f%%, P(ruin) %.1f%%\n",
			run.MonteCarlo.Iterations,
			run.MonteCarlo.MeanReturn*100,
			run.MonteCarlo.ProbabilityOfProfit*100,
			run.MonteCarlo.ProbabilityOfRuin*100)
	}
}

func exportArtifacts(run *service.BacktestRun, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := backtest.WriteRecordsCSV(run.Records, filepath.Join(outputDir, "backtest_records.csv")); err != nil {
		return err
	}
	if err := backtest.WriteMetricsCSV(run.Metrics, filepath.Join(outputDir, "backtest_metrics.csv")); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(outputDir, "equity_curve.csv"), []byte(run.EquityCurve.ToCSV()), 0o644); err != nil {
		return fmt.Errorf("failed to write equity curve: %w", err)
	}
	if run.MonteCarlo != nil {
		if err := os.WriteFile(filepath.Join(outputDir, "monte_carlo.json"), []byte(run.MonteCarlo.ToJSON()), 0o644); err != nil {
			return fmt.Errorf("failed to write Monte Carlo summary: %w", err)
		}
	}
	return nil
}
