package quant

import "math"

// Pearson computes the Pearson correlation coefficient over the overlapping
// prefix of two series. It returns NaN when fewer than two points overlap or
// when either series has zero variance.
func Pearson(x, y []float64) float64 {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	if n < 2 {
		return math.NaN()
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += x[i]
		sumY += y[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := x[i] - meanX
		dy := y[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return math.NaN()
	}
	return cov / math.Sqrt(varX*varY)
}

// CorrelationMatrix computes pairwise Pearson correlations of the given
// series. The matrix is symmetric and the diagonal is always 1.0, even for
// series too short or too flat to correlate. Series must already be aligned
// by observation; the caller handles timestamp alignment.
func CorrelationMatrix(series [][]float64) [][]float64 {
	m := make([][]float64, len(series))
	for i := range m {
		m[i] = make([]float64, len(series))
		m[i][i] = 1
	}
	for i := 0; i < len(series); i++ {
		for j := i + 1; j < len(series); j++ {
			c := Pearson(series[i], series[j])
			m[i][j] = c
			m[j][i] = c
		}
	}
	return m
}
