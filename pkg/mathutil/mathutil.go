// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/capital-metrics/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Used for making logical comparisons and display values.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// Linspace returns n evenly spaced values over [min, max], endpoints included.
// n == 1 yields just min; n <= 0 yields an empty slice.
func Linspace(min, max float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{min}
	}
	grid := make([]float64, n)
	step := (max - min) / float64(n-1)
	for i := 0; i < n; i++ {
		grid[i] = min + float64(i)*step
	}
	// Pin the last point to avoid accumulated floating-point drift.
	grid[n-1] = max
	return grid
}
