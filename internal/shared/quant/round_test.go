package quant

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"no-op on two decimals", 10.25, 10.25},
		{"round half up", 10.255, 10.26},
		{"round down", 10.254, 10.25},
		{"negative", -10.255, -10.26},
		{"float artifact", 2.675, 2.68},
		{"zero", 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Round2(tt.input)
			if got != tt.expected {
				t.Errorf("Round2(%v) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRound2_NonFinite(t *testing.T) {
	t.Parallel()

	if got := Round2(math.NaN()); !math.IsNaN(got) {
		t.Errorf("Round2(NaN) = %v, expected NaN", got)
	}
	if got := Round2(math.Inf(1)); !math.IsInf(got, 1) {
		t.Errorf("Round2(+Inf) = %v, expected +Inf", got)
	}
}

func TestPercentChange(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		prev, last float64
		expected   float64
	}{
		{"ten percent gain", 100, 110, 10},
		{"ten percent loss", 100, 90, -10},
		{"unchanged", 100, 100, 0},
		{"rounds to two decimals", 3, 4, 33.33},
		{"small move", 99.95, 100.05, 0.1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := PercentChange(tt.prev, tt.last)
			if got != tt.expected {
				t.Errorf("PercentChange(%v, %v) = %v, expected %v", tt.prev, tt.last, got, tt.expected)
			}
		})
	}
}
