package backtest

import (
	"encoding/json"
	"math"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/oddsmath"
)

// Metrics aggregates a set of graded backtest records. Win rates use
// only decided bets as denominators: pushes and below-threshold games
// never count as losses.
type Metrics struct {
	GamesEvaluated int `json:"games_evaluated"`
	PriorsUsed     int `json:"priors_used"`

	WinnerGraded  int     `json:"winner_graded"`
	WinnerCorrect int     `json:"winner_correct"`
	HitRate       float64 `json:"hit_rate"`

	MeanAbsoluteError float64 `json:"mean_absolute_error"`
	RMSE              float64 `json:"rmse"`
	Bias              float64 `json:"bias"`

	SpreadBets   int     `json:"spread_bets"`
	SpreadWins   int     `json:"spread_wins"`
	SpreadLosses int     `json:"spread_losses"`
	SpreadPushes int     `json:"spread_pushes"`
	ATSRate      float64 `json:"ats_rate"`
	SpreadProfit float64 `json:"spread_profit"`
	SpreadROI    float64 `json:"spread_roi"`

	TotalsBets   int     `json:"totals_bets"`
	TotalsWins   int     `json:"totals_wins"`
	TotalsLosses int     `json:"totals_losses"`
	TotalsPushes int     `json:"totals_pushes"`
	TotalsRate   float64 `json:"totals_rate"`
	TotalsProfit float64 `json:"totals_profit"`
	TotalsROI    float64 `json:"totals_roi"`

	CLVBets int     `json:"clv_bets"`
	MeanCLV float64 `json:"mean_clv"`
}

// CalculateMetrics aggregates graded records at the given flat stake
// and standard -110 pricing
func CalculateMetrics(records []models.BacktestRecord, flatStake float64) Metrics {
	metrics := Metrics{GamesEvaluated: len(records)}
	if len(records) == 0 {
		return metrics
	}

	absErrors := make([]float64, 0, len(records))
	signedErrors := make([]float64, 0, len(records))
	clvs := make([]float64, 0)

	for i := range records {
		r := &records[i]
		if r.UsedPriors {
			metrics.PriorsUsed++
		}

		absErrors = append(absErrors, r.MarginError)
		signedErrors = append(signedErrors, r.SignedError)

		if r.CorrectWinner != nil {
			metrics.WinnerGraded++
			if *r.CorrectWinner {
				metrics.WinnerCorrect++
			}
		}

		if r.HasSpreadBet() {
			metrics.SpreadBets++
			switch {
			case r.Covered == nil:
				metrics.SpreadPushes++
			case *r.Covered:
				metrics.SpreadWins++
			default:
				metrics.SpreadLosses++
			}
		}

		if r.HasTotalBet() {
			metrics.TotalsBets++
			switch {
			case r.TotalCovered == nil:
				metrics.TotalsPushes++
			case *r.TotalCovered:
				metrics.TotalsWins++
			default:
				metrics.TotalsLosses++
			}
		}

		if r.CLV != nil {
			clvs = append(clvs, *r.CLV)
		}
	}

	metrics.HitRate = rate(metrics.WinnerCorrect, metrics.WinnerGraded)
	metrics.MeanAbsoluteError = average(absErrors)
	metrics.RMSE = rootMeanSquare(absErrors)
	metrics.Bias = average(signedErrors)
	metrics.ATSRate = rate(metrics.SpreadWins, metrics.SpreadWins+metrics.SpreadLosses)
	metrics.TotalsRate = rate(metrics.TotalsWins, metrics.TotalsWins+metrics.TotalsLosses)
	metrics.CLVBets = len(clvs)
	metrics.MeanCLV = average(clvs)

	stake := decimal.NewFromFloat(flatStake)
	metrics.SpreadProfit, metrics.SpreadROI = settle(metrics.SpreadWins, metrics.SpreadLosses, stake)
	metrics.TotalsProfit, metrics.TotalsROI = settle(metrics.TotalsWins, metrics.TotalsLosses, stake)

	return metrics
}

// ToJSON exports metrics to JSON
func (m Metrics) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func settle(wins, losses int, stake decimal.Decimal) (float64, float64) {
	profit, err := oddsmath.FlatStakeProfit(wins, losses, stake, oddsmath.StandardSpreadOdds)
	if err != nil {
		return 0, 0
	}
	p, _ := profit.Float64()
	return p, oddsmath.ROI(profit, wins, losses, stake)
}

func rate(hits, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(hits) / float64(total)
}

func average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	return mean / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean := average(values)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

func rootMeanSquare(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return math.Sqrt(sum / float64(len(values)))
}

func percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	valuesCopy := append([]float64{}, values...)
	sortFloats(valuesCopy)
	idx := int(math.Floor(p * float64(len(valuesCopy)-1)))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(valuesCopy) {
		idx = len(valuesCopy) - 1
	}
	return valuesCopy[idx]
}

func sortFloats(values []float64) {
	for i := 0; i < len(values); i++ {
		for j := i + 1; j < len(values); j++ {
			if values[j] < values[i] {
				values[i], values[j] = values[j], values[i]
			}
		}
	}
}
