// Package dto defines data transfer objects for the symbollist HTTP API.
package dto

// SymbolItem represents one universe entry in the API response.
type SymbolItem struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
