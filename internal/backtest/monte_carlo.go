package backtest

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/oddsmath"
)

// MonteCarloConfig configures the bet-outcome resampling simulation
type MonteCarloConfig struct {
	Iterations      int
	Seed            int64
	InitialBankroll float64
	FlatStake       float64
}

// MonteCarloResult represents resampled bankroll outcomes
type MonteCarloResult struct {
	Iterations          int                `json:"iterations"`
	BetsPerIteration    int                `json:"bets_per_iteration"`
	WinProbability      float64            `json:"win_probability"`
	MeanReturn          float64            `json:"mean_return"`
	StdReturn           float64            `json:"std_return"`
	VaR95               float64            `json:"var_95"`
	VaR99               float64            `json:"var_99"`
	ProbabilityOfProfit float64            `json:"probability_of_profit"`
	ProbabilityOfRuin   float64            `json:"probability_of_ruin"`
	ConfidenceIntervals map[string]float64 `json:"confidence_intervals"`
}

// RunMonteCarlo resamples a backtest's decided spread bets to estimate
// the spread of bankroll outcomes consistent with the observed ATS
// rate. Each iteration replays the same number of bets as Bernoulli
// trials at the observed win probability and flat stake.
func RunMonteCarlo(records []models.BacktestRecord, cfg MonteCarloConfig) (MonteCarloResult, error) {
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1000
	}
	if cfg.InitialBankroll <= 0 {
		return MonteCarloResult{}, fmt.Errorf("initial bankroll must be positive, got %v", cfg.InitialBankroll)
	}
	if cfg.FlatStake <= 0 {
		return MonteCarloResult{}, fmt.Errorf("flat stake must be positive, got %v", cfg.FlatStake)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	wins, losses := 0, 0
	for i := range records {
		if !records[i].HasSpreadBet() || records[i].Covered == nil {
			continue
		}
		if *records[i].Covered {
			wins++
		} else {
			losses++
		}
	}
	decided := wins + losses
	if decided == 0 {
		return MonteCarloResult{}, fmt.Errorf("no decided spread bets to resample")
	}
	winProb := float64(wins) / float64(decided)

	winProfit, err := oddsmath.ProfitOnWin(decimal.NewFromFloat(cfg.FlatStake), oddsmath.StandardSpreadOdds)
	if err != nil {
		return MonteCarloResult{}, err
	}
	winPnL, _ := winProfit.Float64()

	rng := rand.New(rand.NewSource(seed))
	distribution := make([]float64, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		bankroll := cfg.InitialBankroll
		for b := 0; b < decided; b++ {
			if rng.Float64() < winProb {
				bankroll += winPnL
			} else {
				bankroll -= cfg.FlatStake
			}
			if bankroll <= 0 {
				bankroll = 0
				break
			}
		}
		distribution[i] = bankroll
	}

	mean := average(distribution)
	std := stddev(distribution)
	var95 := percentile(distribution, 0.05)
	var99 := percentile(distribution, 0.01)

	result := MonteCarloResult{
		Iterations:          cfg.Iterations,
		BetsPerIteration:    decided,
		WinProbability:      winProb,
		MeanReturn:          (mean - cfg.InitialBankroll) / cfg.InitialBankroll,
		StdReturn:           std / cfg.InitialBankroll,
		VaR95:               (var95 - cfg.InitialBankroll) / cfg.InitialBankroll,
		VaR99:               (var99 - cfg.InitialBankroll) / cfg.InitialBankroll,
		ProbabilityOfProfit: probabilityAbove(distribution, cfg.InitialBankroll),
		ProbabilityOfRuin:   probabilityAtOrBelow(distribution, 0),
		ConfidenceIntervals: CalculateConfidenceIntervals(distribution, []float64{0.9, 0.95, 0.99}),
	}

	return result, nil
}

// CalculateConfidenceIntervals computes interval widths for the distribution
func CalculateConfidenceIntervals(distribution []float64, levels []float64) map[string]float64 {
	results := make(map[string]float64)
	for _, level := range levels {
		p := (1.0 - level) / 2.0
		low := percentile(distribution, p)
		high := percentile(distribution, 1.0-p)
		results[formatPercent(level)] = high - low
	}
	return results
}

// ToJSON exports the simulation result to JSON
func (m MonteCarloResult) ToJSON() string {
	data, _ := json.Marshal(m)
	return string(data)
}

func probabilityAbove(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v > threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func probabilityAtOrBelow(values []float64, threshold float64) float64 {
	if len(values) == 0 {
		return 0
	}
	count := 0
	for _, v := range values {
		if v <= threshold {
			count++
		}
	}
	return float64(count) / float64(len(values))
}

func formatPercent(level float64) string {
	return fmt.Sprintf("%.0f%%", level*100)
}
