// Package main provides the entry point for the data ingestion service.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/datasource"
	"github.com/yourusername/gridiron-edge/internal/health"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/metrics"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/scheduler"
	"github.com/yourusername/gridiron-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		syncSeason = flag.Int("sync-season", 0, "Run a one-shot season sync and exit")
	)
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load AWS secrets if enabled
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			log.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			log.Fatalf("Failed to load secrets: %v", err)
		}
	}

	// Validate configuration
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Set up logging
	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"log_level":   cfg.App.LogLevel,
		"version":     Version,
	}).Info("Gridiron Edge data ingestion starting")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection and schema
	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	defer db.Close()
	appLog.Info("Database connection established")

	repos, err := repository.NewRepositories(db)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize repositories")
	}

	// Initialize data source clients
	httpLogger := log.New(os.Stdout, "datasource-http: ", log.LstdFlags)
	httpClient := datasource.NewRateLimitedHTTPClient(datasource.DefaultHTTPClientConfig(), httpLogger)

	sources, err := datasource.NewFactory(httpClient, appLog).Build(cfg.DataIngestion)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to build data sources")
	}
	appLog.WithField("stats_source", sources.Stats.Name()).Info("Data sources initialized")

	validator := service.NewDataValidator(appLog)
	audit := logger.NewAuditLogger(appLog)
	ingestion := service.NewIngestionService(sources, repos, validator, audit, appLog)

	// One-shot mode for backfills
	if *syncSeason > 0 {
		runMetrics, err := ingestion.SyncSeason(ctx, *syncSeason)
		if err != nil {
			appLog.WithError(err).Fatal("Season sync failed")
		}
		appLog.WithField("metrics", runMetrics.String()).Info("Season sync complete")
		return
	}

	// Schedule recurring jobs
	jobs := scheduler.NewScheduler(ingestion, appLog)
	if err := jobs.ScheduleWeeklySync(cfg.DataIngestion.Schedule.WeeklySync); err != nil {
		appLog.WithError(err).Fatal("Failed to schedule weekly sync")
	}
	if sources.Odds != nil {
		if err := jobs.ScheduleOddsPolling(cfg.DataIngestion.Schedule.OddsPollingIntervalSeconds); err != nil {
			appLog.WithError(err).Fatal("Failed to schedule odds polling")
		}
	} else {
		appLog.Warn("No odds source configured; market line polling disabled")
	}

	if err := jobs.Start(); err != nil {
		appLog.WithError(err).Fatal("Failed to start scheduler")
	}

	// Start health and metrics server
	metrics.InitRegistry()
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        fmt.Sprintf("%d", cfg.Metrics.Port),
		MetricsPath: metricsPath,
		Logger:      appLog,
		DB:          db,
		Jobs:        jobs,
	})
	if err := healthServer.Start(ctx); err != nil {
		appLog.WithError(err).Fatal("Failed to start health server")
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"weekly_sync":   cfg.DataIngestion.Schedule.WeeklySync,
		"odds_interval": cfg.DataIngestion.Schedule.OddsPollingIntervalSeconds,
		"next_run":      jobs.GetNextRun().Format(time.RFC3339),
	}).Info("Ingestion scheduler running")

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := jobs.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Error("Error stopping health server")
	}

	appLog.Info("Data ingestion service shut down")
}
