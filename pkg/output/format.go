// Package output provides utilities for formatting and displaying appraisal results.
package output

import (
	"fmt"

	"github.com/iwvelando/capital-metrics/internal/analysis"
	"github.com/iwvelando/capital-metrics/pkg/constants"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat outputs a human-readable rather than machine-readable summary.
func PrettyFormat(result *analysis.Appraisal) {
	p := message.NewPrinter(language.English)

	name := result.Name
	if name == "" {
		name = "(unnamed)"
	}
	fmt.Printf("--- Appraisal for project %s ---\n", name)
	_, _ = p.Printf("NPV                | $%.2f\n", result.NPV)
	if result.IRR != nil {
		fmt.Printf("IRR                | %.2f%%\n", *result.IRR)
	} else {
		fmt.Printf("IRR                | N/A\n")
	}
	if result.DiscountedPayback != nil {
		fmt.Printf("Discounted payback | %.2f periods\n", *result.DiscountedPayback)
	} else {
		fmt.Printf("Discounted payback | not recovered\n")
	}

	if result.ViableByNPV {
		fmt.Printf("The project is VIABLE by the NPV method\n")
	} else {
		fmt.Printf("The project is NOT VIABLE by the NPV method\n")
	}
	if result.IRR != nil && result.IRRExceedsHurdle != nil {
		if *result.IRRExceedsHurdle {
			fmt.Printf("IRR (%.2f%%) exceeds the hurdle rate\n", *result.IRR)
		} else {
			fmt.Printf("IRR (%.2f%%) falls below the hurdle rate\n", *result.IRR)
		}
	}
	if result.ScaledNPV != nil {
		_, _ = p.Printf("NPV at %+.0f%% flow scaling | $%.2f\n",
			result.ScaledNPV.ScalingPercent, result.ScaledNPV.NPV)
	}

	if len(result.RateCurve) > 0 {
		fmt.Printf("\nNPV sensitivity to the discount rate\n")
		fmt.Printf("Rate (%%) | NPV\n")
		fmt.Printf("________ | ___\n")
		for _, point := range result.RateCurve {
			_, _ = p.Printf("%8.2f | $%.2f\n", point.Parameter*constants.PercentageMultiplier, point.NPV)
		}
	}

	if len(result.FlowScalingCurve) > 0 {
		fmt.Printf("\nNPV sensitivity to uniform flow scaling\n")
		fmt.Printf("Scaling (%%) | NPV\n")
		fmt.Printf("___________ | ___\n")
		for _, point := range result.FlowScalingCurve {
			_, _ = p.Printf("%11.2f | $%.2f\n", point.Parameter*constants.PercentageMultiplier, point.NPV)
		}
	}
}

// CsvFormat outputs in comma-separated value format.
func CsvFormat(result *analysis.Appraisal) {
	fmt.Printf("\"metric\",\"value\"\n")
	fmt.Printf("\"npv\",\"%.2f\"\n", result.NPV)
	if result.IRR != nil {
		fmt.Printf("\"irr (%%)\",\"%.2f\"\n", *result.IRR)
	} else {
		fmt.Printf("\"irr (%%)\",\"N/A\"\n")
	}
	if result.DiscountedPayback != nil {
		fmt.Printf("\"discounted payback (periods)\",\"%.2f\"\n", *result.DiscountedPayback)
	} else {
		fmt.Printf("\"discounted payback (periods)\",\"not recovered\"\n")
	}

	if len(result.RateCurve) > 0 {
		fmt.Printf("\n\"rate (%%)\",\"npv\"\n")
		for _, point := range result.RateCurve {
			fmt.Printf("\"%.4f\",\"%.2f\"\n", point.Parameter*constants.PercentageMultiplier, point.NPV)
		}
	}

	if len(result.FlowScalingCurve) > 0 {
		fmt.Printf("\n\"flow scaling (%%)\",\"npv\"\n")
		for _, point := range result.FlowScalingCurve {
			fmt.Printf("\"%.4f\",\"%.2f\"\n", point.Parameter*constants.PercentageMultiplier, point.NPV)
		}
	}
}
