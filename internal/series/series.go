// Package series implements the transforms applied to annual and dated
// series before they are charted or fed into the capital-stock imputation.
//
// Missing values are NaN throughout. Every transform returns a new slice and
// leaves its input untouched.
package series

import "math"

// Missing returns a slice of n NaN values.
func Missing(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// IsMissing reports whether v is a missing value.
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}

// PctChange returns xs[i]/xs[i-periods] - 1. The first periods values are
// missing, as is any value whose either operand is missing. Gaps are not
// bridged by carrying the last value forward.
func PctChange(xs []float64, periods int) []float64 {
	out := Missing(len(xs))
	if periods <= 0 {
		return out
	}
	for i := periods; i < len(xs); i++ {
		prev, cur := xs[i-periods], xs[i]
		if IsMissing(prev) || IsMissing(cur) {
			continue
		}
		out[i] = cur/prev - 1
	}
	return out
}

// RollingMean returns the trailing mean over xs[i-window+1..i], skipping
// missing values. The result is missing where fewer than minPeriods values in
// the window are present.
func RollingMean(xs []float64, window, minPeriods int) []float64 {
	out := Missing(len(xs))
	if window <= 0 {
		return out
	}
	if minPeriods < 1 {
		minPeriods = 1
	}
	for i := range xs {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		var sum float64
		var n int
		for _, v := range xs[lo : i+1] {
			if IsMissing(v) {
				continue
			}
			sum += v
			n++
		}
		if n >= minPeriods {
			out[i] = sum / float64(n)
		}
	}
	return out
}

// Shift moves values n positions later: out[i] = xs[i-n]. A negative n moves
// values earlier, so out[i] = xs[i+|n|]. Vacated positions are missing.
func Shift(xs []float64, n int) []float64 {
	out := Missing(len(xs))
	for i := range out {
		j := i - n
		if j >= 0 && j < len(xs) {
			out[i] = xs[j]
		}
	}
	return out
}

// Smooth applies a trailing rolling mean requiring at least h observations
// and then shifts the result h periods earlier. The value at i therefore
// averages xs[i+h-window+1..i+h]; the last h positions are always missing.
func Smooth(xs []float64, window, h int) []float64 {
	return Shift(RollingMean(xs, window, h), -h)
}

// Scale multiplies every value by k.
func Scale(xs []float64, k float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = v * k
	}
	return out
}
