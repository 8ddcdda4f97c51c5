// Package entity defines the domain models for the quotes feature.
package entity

import "time"

// Bar represents OHLCV (Open, High, Low, Close, Volume) data for a stock
// symbol over a single aggregation period.
type Bar struct {
	Time   time.Time `json:"time" validate:"required"` // Timestamp for the start of this bar period
	Open   float64   `json:"open" validate:"gte=0"`    // Opening price
	High   float64   `json:"high" validate:"gte=0"`    // Highest price during this period
	Low    float64   `json:"low" validate:"gte=0"`     // Lowest price during this period
	Close  float64   `json:"close" validate:"gte=0"`   // Closing price
	Volume int64     `json:"volume" validate:"gte=0"`  // Trading volume
}

// History is an ordered series of bars for a single symbol, oldest first.
type History []Bar

// Closes returns the close prices in chronological order.
func (h History) Closes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Close
	}
	return out
}

// Dates returns the bar dates formatted as YYYY-MM-DD, in chronological order.
func (h History) Dates() []string {
	out := make([]string, len(h))
	for i, b := range h {
		out[i] = b.Time.UTC().Format("2006-01-02")
	}
	return out
}
