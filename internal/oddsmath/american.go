// Package oddsmath provides American/decimal odds conversions and
// flat-stake payout arithmetic.
package oddsmath

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// StandardSpreadOdds is the conventional price on NFL spread and
// totals bets: risk 110 to win 100.
const StandardSpreadOdds = -110

// AmericanToDecimal converts American odds to decimal odds
// American +150 → Decimal 2.50
// American -150 → Decimal 1.67
func AmericanToDecimal(american int) (float64, error) {
	if american == 0 {
		return 0, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		// Positive odds: (american / 100) + 1
		return (float64(american) / 100.0) + 1.0, nil
	}

	// Negative odds: (100 / abs(american)) + 1
	return (100.0 / float64(-american)) + 1.0, nil
}

// DecimalToAmerican converts decimal odds to American odds
// Decimal 2.50 → American +150
// Decimal 1.67 → American -150
func DecimalToAmerican(dec float64) (int, error) {
	if dec < 1.0 {
		return 0, fmt.Errorf("invalid decimal odds: must be >= 1.0")
	}

	if dec >= 2.0 {
		// Positive American odds: (decimal - 1) * 100
		return int(math.Round((dec - 1.0) * 100.0)), nil
	}

	// Negative American odds: -100 / (decimal - 1)
	return int(math.Round(-100.0 / (dec - 1.0))), nil
}

// AmericanToImpliedProbability converts American odds to the implied
// probability including vig
// American -110 → 0.5238
func AmericanToImpliedProbability(american int) (float64, error) {
	dec, err := AmericanToDecimal(american)
	if err != nil {
		return 0, err
	}
	return 1.0 / dec, nil
}

// ProfitOnWin returns the profit (excluding returned stake) on a
// winning bet at the given American odds
// Stake 110 at -110 → 100
func ProfitOnWin(stake decimal.Decimal, american int) (decimal.Decimal, error) {
	if american == 0 {
		return decimal.Zero, fmt.Errorf("invalid American odds: cannot be 0")
	}

	if american > 0 {
		return stake.Mul(decimal.NewFromInt(int64(american))).Div(decimal.NewFromInt(100)), nil
	}
	return stake.Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(int64(-american))), nil
}

// FlatStakeProfit returns the net profit of a flat-stake betting record
// at fixed American odds: wins pay ProfitOnWin each, losses forfeit the
// stake, pushes return the stake untouched.
func FlatStakeProfit(wins, losses int, stake decimal.Decimal, american int) (decimal.Decimal, error) {
	winProfit, err := ProfitOnWin(stake, american)
	if err != nil {
		return decimal.Zero, err
	}

	won := winProfit.Mul(decimal.NewFromInt(int64(wins)))
	lost := stake.Mul(decimal.NewFromInt(int64(losses)))
	return won.Sub(lost), nil
}

// ROI returns profit over total staked. Pushes return the stake, so
// they are excluded from the denominator.
func ROI(profit decimal.Decimal, wins, losses int, stake decimal.Decimal) float64 {
	bets := wins + losses
	if bets == 0 || stake.IsZero() {
		return 0
	}
	staked := stake.Mul(decimal.NewFromInt(int64(bets)))
	roi, _ := profit.Div(staked).Float64()
	return roi
}

// CLV is closing line value in implied-probability cents per dollar:
// positive when the line obtained beat the close
// CLV = (close_prob − bet_prob) × 100
func CLV(betPrice, closingPrice int) (float64, error) {
	betProb, err := AmericanToImpliedProbability(betPrice)
	if err != nil {
		return 0, fmt.Errorf("invalid bet price: %w", err)
	}
	closeProb, err := AmericanToImpliedProbability(closingPrice)
	if err != nil {
		return 0, fmt.Errorf("invalid closing price: %w", err)
	}
	return (closeProb - betProb) * 100.0, nil
}

// SpreadCLV is closing line value in points of spread for the picked
// side: positive when the line moved toward the pick after the bet.
// pickHome indicates the bet was on the home side of the spread.
func SpreadCLV(betLine, closingLine float64, pickHome bool) float64 {
	if pickHome {
		// Home bettor wants the closing line to drop (home laying fewer points).
		return betLine - closingLine
	}
	return closingLine - betLine
}
