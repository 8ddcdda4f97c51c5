// Package domain defines domain-level errors for the quotes feature.
package domain

import "errors"

// Domain errors for quote retrieval.
// These errors represent data-level failures and should be handled appropriately by upper layers.
var (
	// ErrNoData indicates that the provider returned no bars for the requested window.
	// This covers unknown symbols as well as windows with no trading days.
	ErrNoData = errors.New("no quote data for symbol")

	// ErrBadSymbol indicates that the requested symbol is empty or malformed.
	// Callers are expected to pass a non-blank ticker; this is a contract violation.
	ErrBadSymbol = errors.New("invalid symbol")
)
