// Package validation screens provider bars before they enter the domain.
package validation

import (
	"errors"
	"math"

	"github.com/go-playground/validator/v10"

	"stock_dashboard/internal/feature/quotes/domain/entity"
)

// ErrNonFinitePrice is returned when a bar carries NaN or infinite price data.
// Struct tags can't express finiteness, so it is checked explicitly.
var ErrNonFinitePrice = errors.New("non-finite price value")

// BarValidator checks provider bars against basic sanity rules: a timestamp
// must be present, prices and volume must be non-negative, prices must be
// finite numbers.
type BarValidator struct {
	validate *validator.Validate
}

// NewBarValidator creates a validator for provider bars.
func NewBarValidator() *BarValidator {
	return &BarValidator{validate: validator.New()}
}

// ValidateBar returns an error describing the first rule the bar violates.
func (v *BarValidator) ValidateBar(b *entity.Bar) error {
	if err := v.validate.Struct(b); err != nil {
		return err
	}
	for _, p := range []float64{b.Open, b.High, b.Low, b.Close} {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			return ErrNonFinitePrice
		}
	}
	return nil
}

// FilterBars drops invalid bars and returns the survivors in input order.
// Callers compare lengths when they want to report how many were dropped.
func (v *BarValidator) FilterBars(bars []entity.Bar) []entity.Bar {
	out := make([]entity.Bar, 0, len(bars))
	for i := range bars {
		if err := v.ValidateBar(&bars[i]); err != nil {
			continue
		}
		out = append(out, bars[i])
	}
	return out
}
