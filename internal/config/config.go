// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"

	"github.com/iwvelando/capital-metrics/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for capital-metrics.
type Configuration struct {
	Project     Project           `yaml:"project"`
	Sensitivity SensitivityConfig `yaml:"sensitivity,omitempty"`
	Solver      SolverConfig      `yaml:"solver,omitempty"`
	Logging     LoggingConfig     `yaml:"logging,omitempty"`
	Output      OutputConfig      `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// Project describes the investment under appraisal: an initial outlay at
// period 0 followed by one net cash flow per period.
type Project struct {
	Name              string    `yaml:"name,omitempty"`
	InitialInvestment float64   `yaml:"initialInvestment"`
	DiscountRate      float64   `yaml:"discountRate"` // TMA, in percent
	CashFlows         []float64 `yaml:"cashFlows"`
}

// SolverConfig holds the iteration budget and tolerance for the IRR solver.
type SolverConfig struct {
	MaxIterations int     `yaml:"maxIterations,omitempty"`
	Tolerance     float64 `yaml:"tolerance,omitempty"`
}

// SensitivityConfig holds the parameter grids for the NPV sensitivity sweeps.
type SensitivityConfig struct {
	Rate        SweepRange   `yaml:"rate,omitempty"`
	FlowScaling ScalingSweep `yaml:"flowScaling,omitempty"`
}

// SweepRange describes an inclusive percent range sampled at Points values.
type SweepRange struct {
	Min    float64 `yaml:"min"` // percent
	Max    float64 `yaml:"max"` // percent
	Points int     `yaml:"points,omitempty"`
}

// ScalingSweep extends SweepRange with a single highlighted scaling whose NPV
// is reported alongside the curve.
type ScalingSweep struct {
	Min     float64 `yaml:"min"` // percent
	Max     float64 `yaml:"max"` // percent
	Points  int     `yaml:"points,omitempty"`
	Applied float64 `yaml:"applied,omitempty"` // percent, the scaling to report a single scaled NPV for
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.ApplyDefaults()

	return &configuration, nil
}

// ApplyDefaults fills in solver and sweep settings left unset in the config.
func (conf *Configuration) ApplyDefaults() {
	if conf.Solver.MaxIterations <= 0 {
		conf.Solver.MaxIterations = constants.DefaultMaxIterations
	}
	if conf.Solver.Tolerance <= 0 {
		conf.Solver.Tolerance = constants.DefaultTolerance
	}
	if conf.Sensitivity.Rate.Points <= 0 {
		conf.Sensitivity.Rate.Points = constants.DefaultSweepPoints
	}
	if conf.Sensitivity.Rate.Min == 0 && conf.Sensitivity.Rate.Max == 0 {
		conf.Sensitivity.Rate.Min = constants.DefaultRateSweepMinPercent
		conf.Sensitivity.Rate.Max = constants.DefaultRateSweepMaxPercent
	}
	if conf.Sensitivity.FlowScaling.Points <= 0 {
		conf.Sensitivity.FlowScaling.Points = constants.DefaultSweepPoints
	}
	if conf.Sensitivity.FlowScaling.Min == 0 && conf.Sensitivity.FlowScaling.Max == 0 {
		conf.Sensitivity.FlowScaling.Min = constants.DefaultScalingSweepMinPercent
		conf.Sensitivity.FlowScaling.Max = constants.DefaultScalingSweepMaxPercent
	}
}

// Validate checks for configuration values that make the appraisal impossible
// to compute. Misuse fails here at the boundary rather than deep in the
// engine.
func (conf *Configuration) Validate() error {
	if conf.Project.DiscountRate <= -constants.PercentageMultiplier {
		return fmt.Errorf("project discount rate must be greater than -100%%, got %.2f", conf.Project.DiscountRate)
	}
	if conf.Sensitivity.Rate.Min <= -constants.PercentageMultiplier ||
		conf.Sensitivity.Rate.Max <= -constants.PercentageMultiplier {
		return fmt.Errorf("sensitivity rate range must stay above -100%%, got [%.2f, %.2f]",
			conf.Sensitivity.Rate.Min, conf.Sensitivity.Rate.Max)
	}
	return nil
}

// ValidateConfiguration checks for conditions that do not block the appraisal
// but likely indicate a mistake, and returns them as warnings.
func (conf *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if conf.Project.Name == "" {
		warnings = append(warnings, "project has no name; output will be unlabeled")
	}
	if len(conf.Project.CashFlows) == 0 {
		warnings = append(warnings, "project has no periodic cash flows; NPV will equal the initial investment")
	}
	if conf.Project.InitialInvestment >= 0 {
		warnings = append(warnings, "initial investment is not negative; IRR will be reported as N/A")
	}
	if conf.Sensitivity.Rate.Min > conf.Sensitivity.Rate.Max {
		warnings = append(warnings, "sensitivity rate range minimum exceeds maximum; the curve will run in reverse")
	}
	if conf.Sensitivity.FlowScaling.Min > conf.Sensitivity.FlowScaling.Max {
		warnings = append(warnings, "flow scaling range minimum exceeds maximum; the curve will run in reverse")
	}

	return warnings
}

// Flows assembles the full cash-flow series with the initial investment at
// index 0 followed by the periodic flows.
func (p *Project) Flows() []float64 {
	flows := make([]float64, 0, len(p.CashFlows)+1)
	flows = append(flows, p.InitialInvestment)
	flows = append(flows, p.CashFlows...)
	return flows
}

// DiscountRateFraction converts the configured percent TMA into the fraction
// the engine consumes.
func (p *Project) DiscountRateFraction() float64 {
	return p.DiscountRate / constants.PercentageMultiplier
}
