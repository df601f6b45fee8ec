package models

import "math"

// Undefined returns the marker used for metrics that cannot be computed
// (for example mean EPA over a group where every play has nil EPA).
// Undefined values are excluded from downstream aggregates, never
// treated as zero.
func Undefined() float64 {
	return math.NaN()
}

// IsDefined reports whether a metric value carries real information
func IsDefined(v float64) bool {
	return !math.IsNaN(v)
}
