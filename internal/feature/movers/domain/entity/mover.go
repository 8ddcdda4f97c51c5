// Package entity defines the domain models for the movers feature.
package entity

import "time"

// MoverRecord summarizes one symbol's move between its previous and latest
// daily close. All price fields are rounded to two decimal places.
type MoverRecord struct {
	Symbol        string  // Stock ticker symbol (e.g., "RELIANCE.NS")
	PreviousClose float64 // Close of the second most recent trading day
	LastClose     float64 // Close of the most recent trading day
	PercentChange float64 // (LastClose-PreviousClose)/PreviousClose*100, rounded
}

// MoverReport is the outcome of one ranking scan over the symbol universe.
// Gainers hold strictly positive moves in descending order, Losers strictly
// negative moves in ascending order. Symbols that failed to resolve are
// simply absent.
type MoverReport struct {
	ScanID      string        // Unique identifier of this scan
	GeneratedAt time.Time     // When the scan completed
	Gainers     []MoverRecord // Top gainers, best first
	Losers      []MoverRecord // Top losers, worst first
}
