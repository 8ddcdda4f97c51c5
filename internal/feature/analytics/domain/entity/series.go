// Package entity defines the domain models for the analytics feature.
package entity

// ReturnSeries bundles the aligned daily and cumulative return series of one
// symbol. Dates are formatted as YYYY-MM-DD in UTC. Undefined elements (the
// first daily return, anything after a zero close) are NaN.
type ReturnSeries struct {
	Symbol     string
	Dates      []string
	Daily      []float64
	Cumulative []float64
}

// MovingAverageSet holds a close series plus one simple moving average per
// requested window. Series is keyed by window size; each series carries NaN
// until the window is filled.
type MovingAverageSet struct {
	Symbol  string
	Dates   []string
	Close   []float64
	Windows []int
	Series  map[int][]float64
}

// CorrelationResult is a symmetric Pearson correlation matrix over the
// symbols that could actually be resolved. Matrix[i][j] relates
// Symbols[i] and Symbols[j]; undefined entries are NaN.
type CorrelationResult struct {
	Symbols []string
	Matrix  [][]float64
}
