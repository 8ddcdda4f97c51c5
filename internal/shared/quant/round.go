package quant

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds a value to two decimal places using decimal arithmetic,
// so displayed prices and percentages don't pick up float artifacts around
// .xx5 boundaries. Non-finite values pass through untouched.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// PercentChange returns the percent change from prev to last, rounded to two
// decimal places. prev must be non-zero; callers screen zero bases out first.
func PercentChange(prev, last float64) float64 {
	return Round2((last - prev) / prev * 100)
}
