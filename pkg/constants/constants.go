// Package constants provides shared constants for the capital-metrics application.
package constants

// Solver constants
const (
	// DefaultMaxIterations is the iteration budget shared by the Newton and
	// bisection phases of the IRR solver
	DefaultMaxIterations = 1000

	// DefaultTolerance is the convergence tolerance for NPV root-finding
	DefaultTolerance = 1e-6

	// NewtonInitialRate is the starting rate for the Newton-Raphson phase (10%)
	NewtonInitialRate = 0.10

	// DerivativeFloor is the magnitude below which the NPV derivative is
	// considered too flat for a safe Newton step
	DerivativeFloor = 1e-10

	// BisectionLowerBound is the lower edge of the fallback bracket (-99%)
	BisectionLowerBound = -0.99

	// BisectionUpperBound is the upper edge of the fallback bracket (100%)
	BisectionUpperBound = 1.0

	// MinimumRate is the open lower bound of the discount-rate domain; flows
	// are discounted by (1+rate)^t so rates at or below this are rejected
	MinimumRate = -1.0
)

// Sensitivity sweep defaults
const (
	// DefaultSweepPoints is the number of grid points in a sensitivity sweep
	DefaultSweepPoints = 20

	// DefaultRateSweepMinPercent is the default lower rate bound for rate sweeps
	DefaultRateSweepMinPercent = 5.0

	// DefaultRateSweepMaxPercent is the default upper rate bound for rate sweeps
	DefaultRateSweepMaxPercent = 15.0

	// DefaultScalingSweepMinPercent is the default lower bound for flow-scaling sweeps
	DefaultScalingSweepMinPercent = -50.0

	// DefaultScalingSweepMaxPercent is the default upper bound for flow-scaling sweeps
	DefaultScalingSweepMaxPercent = 50.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)

// Numeric display constants
const (
	// DecimalPrecision is the precision for monetary rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)
