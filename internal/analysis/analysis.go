// Package analysis defines the data structures related to a project appraisal
// and includes functions for computing the appraisal from a configuration.
package analysis

import (
	"fmt"

	"github.com/iwvelando/capital-metrics/internal/config"
	"github.com/iwvelando/capital-metrics/pkg/cashflow"
	"github.com/iwvelando/capital-metrics/pkg/constants"
	"github.com/iwvelando/capital-metrics/pkg/sensitivity"
	"go.uber.org/zap"
)

// Appraisal holds all computed metrics for a project. IRR and
// DiscountedPayback are nil when the corresponding outcome is undefined
// (no rate of return exists / the investment is never recovered).
type Appraisal struct {
	Name              string
	NPV               float64
	IRR               *float64 // percent
	DiscountedPayback *float64 // periods, fractional
	ViableByNPV       bool
	IRRExceedsHurdle  *bool // nil when IRR is undefined
	ScaledNPV         *ScaledNPV
	RateCurve         []sensitivity.Point
	FlowScalingCurve  []sensitivity.Point
}

// ScaledNPV reports the NPV after applying one highlighted uniform scaling to
// the periodic flows.
type ScaledNPV struct {
	ScalingPercent float64
	NPV            float64
}

// Run computes the full appraisal for the configured project: the three core
// metrics, the viability verdicts, and both sensitivity curves.
func Run(logger *zap.Logger, conf config.Configuration) (*Appraisal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	flows := conf.Project.Flows()
	rate := conf.Project.DiscountRateFraction()

	result := Appraisal{Name: conf.Project.Name}

	npv, err := cashflow.NPV(flows, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute NPV: %w", err)
	}
	result.NPV = npv
	result.ViableByNPV = npv > 0

	// A rate of return is only meaningful when the project starts with an
	// outlay; a non-negative initial flow is reported as N/A even when the
	// solver could produce a number.
	if conf.Project.InitialInvestment < 0 {
		if irr, ok := cashflow.IRRWithBudget(flows, conf.Solver.MaxIterations, conf.Solver.Tolerance); ok {
			result.IRR = &irr
			exceeds := irr > conf.Project.DiscountRate
			result.IRRExceedsHurdle = &exceeds
		} else {
			logger.Debug("no internal rate of return found",
				zap.String("op", "analysis.Run"),
				zap.String("project", conf.Project.Name),
			)
		}
	} else {
		logger.Debug("skipping IRR because the initial investment is not negative",
			zap.String("op", "analysis.Run"),
			zap.String("project", conf.Project.Name),
		)
	}

	payback, recovered, err := cashflow.DiscountedPayback(flows, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute discounted payback: %w", err)
	}
	if recovered {
		result.DiscountedPayback = &payback
	} else {
		logger.Debug("investment is not recovered within the project horizon",
			zap.String("op", "analysis.Run"),
			zap.String("project", conf.Project.Name),
		)
	}

	rateCurve, err := sensitivity.RateSweep(flows,
		conf.Sensitivity.Rate.Min/constants.PercentageMultiplier,
		conf.Sensitivity.Rate.Max/constants.PercentageMultiplier,
		conf.Sensitivity.Rate.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to compute rate sensitivity: %w", err)
	}
	result.RateCurve = rateCurve

	scalingCurve, err := sensitivity.FlowScalingSweep(flows, rate,
		conf.Sensitivity.FlowScaling.Min/constants.PercentageMultiplier,
		conf.Sensitivity.FlowScaling.Max/constants.PercentageMultiplier,
		conf.Sensitivity.FlowScaling.Points)
	if err != nil {
		return nil, fmt.Errorf("failed to compute flow scaling sensitivity: %w", err)
	}
	result.FlowScalingCurve = scalingCurve

	applied := conf.Sensitivity.FlowScaling.Applied
	scaledFlows := sensitivity.ScaleFlows(flows, applied/constants.PercentageMultiplier)
	scaledNPV, err := cashflow.NPV(scaledFlows, rate)
	if err != nil {
		return nil, fmt.Errorf("failed to compute scaled NPV: %w", err)
	}
	result.ScaledNPV = &ScaledNPV{ScalingPercent: applied, NPV: scaledNPV}

	logger.Debug(fmt.Sprintf("appraised project %s: NPV %.2f", conf.Project.Name, result.NPV),
		zap.String("op", "analysis.Run"),
	)

	return &result, nil
}
