// Package sensitivity builds NPV sensitivity curves by repeated evaluation of
// the cash-flow engine over a one-dimensional parameter grid.
package sensitivity

import (
	"fmt"

	"github.com/iwvelando/capital-metrics/pkg/cashflow"
	"github.com/iwvelando/capital-metrics/pkg/mathutil"
)

// Point pairs one value of the swept parameter with the NPV computed at it.
type Point struct {
	Parameter float64
	NPV       float64
}

// RateSweep evaluates NPV at points evenly spaced discount rates over
// [minRate, maxRate], both expressed as fractions. The parameter of each
// returned point is the rate.
func RateSweep(flows []float64, minRate, maxRate float64, points int) ([]Point, error) {
	if points < 1 {
		return nil, fmt.Errorf("RateSweep: points must be at least 1, got %d", points)
	}

	curve := make([]Point, 0, points)
	for _, rate := range mathutil.Linspace(minRate, maxRate, points) {
		value, err := cashflow.NPV(flows, rate)
		if err != nil {
			return nil, fmt.Errorf("RateSweep: %w", err)
		}
		curve = append(curve, Point{Parameter: rate, NPV: value})
	}
	return curve, nil
}

// FlowScalingSweep evaluates NPV at points evenly spaced uniform scalings of
// the periodic flows over [minScale, maxScale], holding the initial investment
// fixed. Scalings are fractions: -0.5 shrinks every periodic flow by half.
// The parameter of each returned point is the scaling.
func FlowScalingSweep(flows []float64, rate, minScale, maxScale float64, points int) ([]Point, error) {
	if points < 1 {
		return nil, fmt.Errorf("FlowScalingSweep: points must be at least 1, got %d", points)
	}

	curve := make([]Point, 0, points)
	for _, scale := range mathutil.Linspace(minScale, maxScale, points) {
		value, err := cashflow.NPV(ScaleFlows(flows, scale), rate)
		if err != nil {
			return nil, fmt.Errorf("FlowScalingSweep: %w", err)
		}
		curve = append(curve, Point{Parameter: scale, NPV: value})
	}
	return curve, nil
}

// ScaleFlows returns a copy of the series with every periodic flow multiplied
// by (1+scale) and the initial investment untouched.
func ScaleFlows(flows []float64, scale float64) []float64 {
	if len(flows) == 0 {
		return nil
	}
	scaled := make([]float64, len(flows))
	scaled[0] = flows[0]
	for t := 1; t < len(flows); t++ {
		scaled[t] = flows[t] * (1.0 + scale)
	}
	return scaled
}
