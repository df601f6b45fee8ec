package backtest

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/yourusername/gridiron-edge/internal/models"
)

// GenerateConsoleReport formats metrics for terminal output
func GenerateConsoleReport(metrics Metrics) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Games Evaluated: %d (priors used: %d)\n", metrics.GamesEvaluated, metrics.PriorsUsed))
	builder.WriteString(fmt.Sprintf("Winner Hit Rate: %.2f%% (%d/%d)\n", metrics.HitRate*100, metrics.WinnerCorrect, metrics.WinnerGraded))
	builder.WriteString(fmt.Sprintf("Margin MAE: %.2f\n", metrics.MeanAbsoluteError))
	builder.WriteString(fmt.Sprintf("Margin RMSE: %.2f\n", metrics.RMSE))
	builder.WriteString(fmt.Sprintf("Margin Bias: %+.2f\n", metrics.Bias))
	builder.WriteString(fmt.Sprintf("ATS Record: %d-%d-%d (%.2f%%)\n", metrics.SpreadWins, metrics.SpreadLosses, metrics.SpreadPushes, metrics.ATSRate*100))
	builder.WriteString(fmt.Sprintf("Spread Profit: %+.2f (ROI %.2f%%)\n", metrics.SpreadProfit, metrics.SpreadROI*100))
	builder.WriteString(fmt.Sprintf("Totals Record: %d-%d-%d (%.2f%%)\n", metrics.TotalsWins, metrics.TotalsLosses, metrics.TotalsPushes, metrics.TotalsRate*100))
	builder.WriteString(fmt.Sprintf("Totals Profit: %+.2f (ROI %.2f%%)\n", metrics.TotalsProfit, metrics.TotalsROI*100))
	if metrics.CLVBets > 0 {
		builder.WriteString(fmt.Sprintf("Mean Spread CLV: %+.2f points over %d bets\n", metrics.MeanCLV, metrics.CLVBets))
	}
	return builder.String()
}

// GeneratePartitionReport formats a bucketed partition for terminal output
func GeneratePartitionReport(title string, partitions map[string]Metrics) string {
	var builder strings.Builder
	builder.WriteString(title + "\n")
	builder.WriteString(strings.Repeat("-", len(title)) + "\n")
	for _, name := range BucketNames(partitions) {
		m := partitions[name]
		builder.WriteString(fmt.Sprintf("%-16s games=%-4d hit=%.2f%% ats=%d-%d-%d roi=%+.2f%%\n",
			name, m.GamesEvaluated, m.HitRate*100, m.SpreadWins, m.SpreadLosses, m.SpreadPushes, m.SpreadROI*100))
	}
	return builder.String()
}

// WriteRecordsCSV exports graded records for spreadsheet analysis
func WriteRecordsCSV(records []models.BacktestRecord, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"season", "week", "home_team", "away_team",
		"predicted_margin", "actual_margin", "margin_error", "signed_error",
		"home_win_probability", "correct_winner",
		"model_spread", "vegas_spread", "edge", "ats_pick", "covered",
		"predicted_total", "actual_total", "vegas_total", "total_edge", "total_pick", "total_covered",
		"clv", "used_priors",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range records {
		r := &records[i]
		row := []string{
			strconv.Itoa(r.Season),
			strconv.Itoa(r.Week),
			r.HomeTeam,
			r.AwayTeam,
			csvFloat(r.PredictedMargin),
			csvFloat(r.ActualMargin),
			csvFloat(r.MarginError),
			csvFloat(r.SignedError),
			csvFloat(r.HomeWinProbability),
			csvBool(r.CorrectWinner),
			csvFloat(r.ModelSpread),
			csvFloatPtr(r.VegasSpread),
			csvFloat(r.Edge),
			string(r.ATSPick),
			csvBool(r.Covered),
			csvFloat(r.PredictedTotal),
			csvFloat(r.ActualTotal),
			csvFloatPtr(r.VegasTotal),
			csvFloat(r.TotalEdge),
			string(r.TotalPick),
			csvBool(r.TotalCovered),
			csvFloatPtr(r.CLV),
			strconv.FormatBool(r.UsedPriors),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// WriteMetricsCSV exports key metrics for spreadsheets
func WriteMetricsCSV(metrics Metrics, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	out := "metric,value\n" +
		fmt.Sprintf("games_evaluated,%d\n", metrics.GamesEvaluated) +
		fmt.Sprintf("priors_used,%d\n", metrics.PriorsUsed) +
		fmt.Sprintf("hit_rate,%.4f\n", metrics.HitRate) +
		fmt.Sprintf("mean_absolute_error,%.4f\n", metrics.MeanAbsoluteError) +
		fmt.Sprintf("rmse,%.4f\n", metrics.RMSE) +
		fmt.Sprintf("bias,%.4f\n", metrics.Bias) +
		fmt.Sprintf("ats_rate,%.4f\n", metrics.ATSRate) +
		fmt.Sprintf("spread_profit,%.4f\n", metrics.SpreadProfit) +
		fmt.Sprintf("spread_roi,%.4f\n", metrics.SpreadROI) +
		fmt.Sprintf("totals_rate,%.4f\n", metrics.TotalsRate) +
		fmt.Sprintf("totals_profit,%.4f\n", metrics.TotalsProfit) +
		fmt.Sprintf("totals_roi,%.4f\n", metrics.TotalsROI) +
		fmt.Sprintf("mean_clv,%.4f\n", metrics.MeanCLV)
	return os.WriteFile(outputPath, []byte(out), 0o644)
}

// csvFloat renders a float, leaving undefined values empty rather than "NaN"
func csvFloat(v float64) string {
	if !models.IsDefined(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func csvFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return csvFloat(*v)
}

// csvBool renders a tri-state outcome: empty for push/ungraded
func csvBool(v *bool) string {
	if v == nil {
		return ""
	}
	return strconv.FormatBool(*v)
}
