package backtest

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/gridiron-edge/internal/models"
	"github.com/yourusername/gridiron-edge/internal/oddsmath"
)

// EquityPoint represents the bankroll after settling one spread bet
type EquityPoint struct {
	Week     int       `json:"week"`
	GameID   uuid.UUID `json:"game_id"`
	Bankroll float64   `json:"bankroll"`
	PnL      float64   `json:"pnl"`
}

// EquityCurve is the bankroll trajectory over a backtest, one point
// per graded spread bet in (week, home team) order
type EquityCurve []EquityPoint

// BuildEquityCurve settles graded spread bets at a flat stake and
// standard -110 pricing. Pushes appear as zero-PnL points so the curve
// length matches the bet count.
func BuildEquityCurve(records []models.BacktestRecord, initialBankroll, flatStake float64) EquityCurve {
	bets := make([]models.BacktestRecord, 0, len(records))
	for _, r := range records {
		if r.HasSpreadBet() {
			bets = append(bets, r)
		}
	}
	sort.Slice(bets, func(i, j int) bool {
		if bets[i].Week != bets[j].Week {
			return bets[i].Week < bets[j].Week
		}
		return bets[i].HomeTeam < bets[j].HomeTeam
	})

	stake := decimal.NewFromFloat(flatStake)
	winProfit, err := oddsmath.ProfitOnWin(stake, oddsmath.StandardSpreadOdds)
	if err != nil {
		return nil
	}
	winPnL, _ := winProfit.Float64()

	curve := make(EquityCurve, 0, len(bets))
	bankroll := initialBankroll
	for _, bet := range bets {
		pnl := 0.0
		if bet.Covered != nil {
			if *bet.Covered {
				pnl = winPnL
			} else {
				pnl = -flatStake
			}
		}
		bankroll += pnl
		curve = append(curve, EquityPoint{
			Week:     bet.Week,
			GameID:   bet.GameID,
			Bankroll: bankroll,
			PnL:      pnl,
		})
	}
	return curve
}

// GetReturns calculates per-bet returns from the curve
func (e EquityCurve) GetReturns() []float64 {
	if len(e) < 2 {
		return []float64{}
	}
	returns := make([]float64, 0, len(e)-1)
	for i := 1; i < len(e); i++ {
		prev := e[i-1].Bankroll
		curr := e[i].Bankroll
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (curr-prev)/prev)
	}
	return returns
}

// MaxDrawdown returns the largest peak-to-trough bankroll decline as a
// fraction of the peak
func (e EquityCurve) MaxDrawdown() float64 {
	maxDD := 0.0
	peak := 0.0
	for _, p := range e {
		if p.Bankroll > peak {
			peak = p.Bankroll
		}
		if peak == 0 {
			continue
		}
		drawdown := (peak - p.Bankroll) / peak
		if drawdown > maxDD {
			maxDD = drawdown
		}
	}
	return maxDD
}

// GetVolatility calculates standard deviation of per-bet returns
func (e EquityCurve) GetVolatility() float64 {
	return stddev(e.GetReturns())
}

// ToCSV exports the equity curve to a CSV string
func (e EquityCurve) ToCSV() string {
	var buf bytes.Buffer
	buf.WriteString("week,game_id,bankroll,pnl\n")
	for _, point := range e {
		buf.WriteString(strconv.Itoa(point.Week))
		buf.WriteString(",")
		buf.WriteString(point.GameID.String())
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.Bankroll))
		buf.WriteString(",")
		buf.WriteString(formatFloat(point.PnL))
		buf.WriteString("\n")
	}
	return buf.String()
}

// ToJSON exports the equity curve to a JSON string
func (e EquityCurve) ToJSON() string {
	data, _ := json.Marshal(e)
	return string(data)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
