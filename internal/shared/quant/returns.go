// Package quant provides pure price-series transforms for the dashboard.
//
// All functions are deterministic and side-effect free. Where a value is
// mathematically undefined (the head of a windowed series, a change against
// a zero base) the result carries math.NaN() instead of an error, so a
// partially defined series still renders.
package quant

import "math"

// DailyReturns computes day-over-day percent changes of a close series.
// The result has the same length as closes. Element 0 is NaN, and element i
// is (closes[i]-closes[i-1])/closes[i-1]*100. A zero previous close yields NaN.
func DailyReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	for i := range closes {
		if i == 0 || closes[i-1] == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = (closes[i] - closes[i-1]) / closes[i-1] * 100
	}
	return out
}

// CumulativeReturns compounds daily changes into growth relative to the first
// close. Element 0 is 0, and element i is the product of (1+r) over the first
// i daily returns, minus 1. An undefined daily return (zero base) makes every
// later element NaN.
func CumulativeReturns(closes []float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}
	acc := 1.0
	out[0] = 0
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			acc = math.NaN()
		} else {
			acc *= 1 + (closes[i]-closes[i-1])/closes[i-1]
		}
		out[i] = acc - 1
	}
	return out
}
