// Package main provides the CLI for generating weekly predictions.
package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/config"
	"github.com/yourusername/gridiron-edge/internal/database"
	"github.com/yourusername/gridiron-edge/internal/logger"
	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/repository"
	"github.com/yourusername/gridiron-edge/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	season     int
	week       int
	csvPath    string
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	repos      *repository.Repositories
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.Flags().IntVar(&season, "season", 0, "Season to predict (default: season in progress)")
	rootCmd.Flags().IntVar(&week, "week", 0, "Week to predict")
	rootCmd.Flags().StringVarP(&csvPath, "output", "o", "", "Write predictions to a CSV file")
	rootCmd.MarkFlagRequired("week")
}

var rootCmd = &cobra.Command{
	Use:     "predict",
	Short:   "Generate spread and total predictions for an NFL week",
	Long:    `Aggregates stored play-by-play into team ratings, builds trailing form, and predicts every game in the requested week.`,
	Version: fmt.Sprintf("%s (%s)", Version, GitCommit),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPredict(cmd.Context())
	},
}

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	var err error
	cfg, err = config.Load(configFile)
	if err != nil {
		return err
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return err
		}
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)

	var err error
	db, err = database.Initialize(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	repos, err = repository.NewRepositories(db)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	return nil
}

func runPredict(ctx context.Context) error {
	defer db.Close()

	if season == 0 {
		season = service.CurrentSeason(time.Now())
	}

	pipeline := service.NewPipelineService(cfg.Model, repos, appLog)
	predictions, err := pipeline.PredictWeek(ctx, season, week)
	if err != nil {
		return err
	}

	printPredictions(predictions)

	if csvPath != "" {
		if err := writePredictionsCSV(predictions, csvPath); err != nil {
			return err
		}
		appLog.WithField("output", csvPath).Info("Predictions written")
	}
	return nil
}

func writePredictionsCSV(predictions []models.Prediction, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create predictions CSV: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"game_id", "season", "week", "home_team", "away_team",
		"predicted_margin", "predicted_total", "predicted_home_score",
		"predicted_away_score", "home_win_probability", "model_spread",
		"win_prob_model", "used_priors",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range predictions {
		p := &predictions[i]
		row := []string{
			p.GameID.String(),
			strconv.Itoa(p.Season),
			strconv.Itoa(p.Week),
			p.HomeTeam,
			p.AwayTeam,
			strconv.FormatFloat(p.PredictedMargin, 'f', 2, 64),
			strconv.FormatFloat(p.PredictedTotal, 'f', 2, 64),
			strconv.FormatFloat(p.PredictedHomeScore, 'f', 2, 64),
			strconv.FormatFloat(p.PredictedAwayScore, 'f', 2, 64),
			strconv.FormatFloat(p.HomeWinProbability, 'f', 4, 64),
			strconv.FormatFloat(p.ModelSpread, 'f', 2, 64),
			p.WinProbModel,
			strconv.FormatBool(p.UsedPriors),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func printPredictions(predictions []models.Prediction) {
	fmt.Printf("\nPredictions for season %d week %d\n", season, week)
	fmt.Println("---------------------------------------------------------------------")
	fmt.Printf("%-18s %8s %8s %8s %8s %7s\n", "Matchup", "Margin", "Spread", "Total", "HomeWin", "Priors")

	for i := range predictions {
		p := &predictions[i]
		priors := ""
		if p.UsedPriors {
			priors = "yes"
		}
		fmt.Printf("%-18s %+8.1f %+8.1f %8.1f %7.1f%% %7s\n",
			p.AwayTeam+" @ "+p.HomeTeam,
			p.PredictedMargin,
			p.ModelSpread,
			p.PredictedTotal,
			p.HomeWinProbability*100,
			priors)
	}
	fmt.Println()
}
