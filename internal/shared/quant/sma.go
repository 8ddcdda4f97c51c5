package quant

import "math"

// MovingAverage computes a trailing simple moving average over the given
// window. Elements with fewer than window bars behind them (i < window-1)
// are NaN. A window below 1 or longer than the series yields all NaN.
func MovingAverage(closes []float64, window int) []float64 {
	out := make([]float64, len(closes))
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 1 || window > len(closes) {
		return out
	}
	sum := 0.0
	for i, c := range closes {
		sum += c
		if i >= window {
			sum -= closes[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}
