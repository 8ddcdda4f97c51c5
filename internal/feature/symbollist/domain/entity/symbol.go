// Package entity defines the domain models for the symbollist feature.
package entity

// Symbol represents one entry of the tradable universe. Code is the
// provider-facing ticker (e.g., "RELIANCE.NS") and Name is the display
// name shown by the dashboard.
type Symbol struct {
	Code string
	Name string
}
