package predictor

import (
	"fmt"
	"math"
)

// Win probability model names accepted in configuration.
const (
	WinProbNormal   = "normal"
	WinProbLogistic = "logistic"
)

// logisticScale is the empirically tuned divisor of the logistic
// transform, in points of margin.
const logisticScale = 14.0

// WinProbModel converts a predicted margin (home perspective, points)
// into a home win probability. Exactly one model is active per run;
// the two transforms are never blended.
type WinProbModel interface {
	Name() string
	Probability(margin float64) float64
}

// NewWinProbModel returns the named win probability model. sigma is
// only used by the normal model.
func NewWinProbModel(name string, sigma float64) (WinProbModel, error) {
	switch name {
	case WinProbNormal:
		if sigma <= 0 {
			return nil, fmt.Errorf("normal win probability model requires sigma > 0, got %v", sigma)
		}
		return &normalModel{sigma: sigma}, nil
	case WinProbLogistic:
		return &logisticModel{scale: logisticScale}, nil
	default:
		return nil, fmt.Errorf("unknown win probability model %q (want %s or %s)", name, WinProbNormal, WinProbLogistic)
	}
}

// normalModel applies a normal-CDF transform with fixed margin
// standard deviation.
type normalModel struct {
	sigma float64
}

func (m *normalModel) Name() string {
	return WinProbNormal
}

func (m *normalModel) Probability(margin float64) float64 {
	return 0.5 * (1 + math.Erf(margin/(m.sigma*math.Sqrt2)))
}

// logisticModel applies a logistic transform of the margin.
type logisticModel struct {
	scale float64
}

func (m *logisticModel) Name() string {
	return WinProbLogistic
}

func (m *logisticModel) Probability(margin float64) float64 {
	return 1 / (1 + math.Exp(-margin/m.scale))
}
