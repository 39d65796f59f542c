// Package cashflow implements capital-budgeting metrics for a single
// project's cash-flow series: net present value, internal rate of return,
// and discounted payback period.
//
// A series is an ordered slice of flows where index 0 is the initial
// investment (conventionally negative) and indices 1..n are periodic net
// cash flows. All functions are pure and safe for concurrent use.
package cashflow

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/capital-metrics/pkg/constants"
)

// ErrRateOutOfDomain indicates a discount rate at or below -1 (-100%), where
// the discount factor (1+rate)^t is zero or the rate is economically
// meaningless.
var ErrRateOutOfDomain = errors.New("discount rate must be greater than -1")

// NPV returns the discounted sum of the cash-flow series at the given rate,
// expressed as a fraction (0.10 for 10%). An empty series yields 0.
func NPV(flows []float64, rate float64) (float64, error) {
	if rate <= constants.MinimumRate {
		return 0, fmt.Errorf("NPV: rate %v: %w", rate, ErrRateOutOfDomain)
	}
	return presentValue(flows, rate), nil
}

// presentValue sums flows[t]/(1+rate)^t without domain checks. The IRR solver
// calls it with rates produced internally, which stay inside the valid domain
// for the bisection bracket and may transiently leave it during Newton steps;
// math.Pow handles negative bases with integer exponents, so the sum stays
// well-defined and the tolerance checks reject any non-finite excursions.
func presentValue(flows []float64, rate float64) float64 {
	sum := 0.0
	for t, flow := range flows {
		sum += flow / math.Pow(1.0+rate, float64(t))
	}
	return sum
}

// npvDerivative is the analytic derivative of NPV with respect to the rate:
// each term t > 0 contributes -t*flows[t]/(1+rate)^(t+1).
func npvDerivative(flows []float64, rate float64) float64 {
	derivative := 0.0
	for t := 1; t < len(flows); t++ {
		derivative += -float64(t) * flows[t] / math.Pow(1.0+rate, float64(t+1))
	}
	return derivative
}

// allSameSign reports whether every flow shares one sign, counting zero as
// non-negative. A rate-of-return problem needs both an outflow and an inflow.
func allSameSign(flows []float64) bool {
	signSum := 0
	for _, flow := range flows {
		if flow >= 0 {
			signSum++
		} else {
			signSum--
		}
	}
	return signSum == len(flows) || signSum == -len(flows)
}

// IRR solves for the internal rate of return of the series using the default
// iteration budget and tolerance. See IRRWithBudget.
func IRR(flows []float64) (float64, bool) {
	return IRRWithBudget(flows, constants.DefaultMaxIterations, constants.DefaultTolerance)
}

// IRRWithBudget solves for the rate at which NPV is zero and returns it as a
// percentage. The second return is false when no rate of return exists or the
// solver fails to converge; that is an expected business outcome for series
// whose entries all share one sign, not an error.
//
// The solver runs Newton-Raphson from a 10% starting rate and falls back to
// bisection on the fixed bracket [-99%, 100%] when the derivative flattens or
// the budget runs out. The bracket assumes at most one sign change of
// NPV(rate) inside it; non-conventional series with multiple roots may
// converge to a spurious root or miss one.
func IRRWithBudget(flows []float64, maxIter int, tolerance float64) (float64, bool) {
	if allSameSign(flows) {
		return 0, false
	}

	// Newton-Raphson phase.
	rate := constants.NewtonInitialRate
	for i := 0; i < maxIter; i++ {
		value := presentValue(flows, rate)
		if math.Abs(value) < tolerance {
			return rate * constants.PercentageMultiplier, true
		}
		derivative := npvDerivative(flows, rate)
		if math.Abs(derivative) < constants.DerivativeFloor {
			break
		}
		rate = rate - value/derivative
	}

	// Bisection fallback over the fixed bracket.
	left := float64(constants.BisectionLowerBound)
	right := float64(constants.BisectionUpperBound)
	for i := 0; i < maxIter; i++ {
		if right-left < tolerance {
			break
		}
		mid := (left + right) / 2
		if presentValue(flows, left)*presentValue(flows, mid) < 0 {
			right = mid
		} else {
			left = mid
		}
	}

	candidate := (left + right) / 2
	if math.Abs(presentValue(flows, candidate)) < tolerance {
		return candidate * constants.PercentageMultiplier, true
	}
	return 0, false
}

// DiscountedPayback returns the number of periods (fractional) required for
// the discounted cumulative cash flow to become non-negative. The boolean is
// false when the series never recovers the investment within its horizon,
// which is an expected outcome rather than an error. Within the crossing
// period the result is linearly interpolated between the last negative
// cumulative value and the first non-negative one.
func DiscountedPayback(flows []float64, rate float64) (float64, bool, error) {
	if rate <= constants.MinimumRate {
		return 0, false, fmt.Errorf("DiscountedPayback: rate %v: %w", rate, ErrRateOutOfDomain)
	}

	cumulative := 0.0
	for t, flow := range flows {
		discounted := flow / math.Pow(1.0+rate, float64(t))
		before := cumulative
		cumulative += discounted
		if cumulative >= 0 {
			if t == 0 {
				return 0, true, nil
			}
			if discounted == 0 {
				// Only reachable when the prior cumulative was already
				// exactly zero; report the period with no fractional offset.
				return float64(t), true, nil
			}
			return float64(t-1) + math.Abs(before)/discounted, true, nil
		}
	}
	return 0, false, nil
}
