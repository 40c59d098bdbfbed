// SPDX-License-Identifier: MIT

package solver

import "time"

// Default solver configuration. Single source of truth for zero-value
// behavior; DefaultSolverConfig must reflect these constants.
const (
	// DefaultMaxIterations bounds the backend's iteration count.
	DefaultMaxIterations = 200

	// DefaultTolerance is the convergence tolerance on the KKT/feasibility
	// residual, in per-unit.
	DefaultTolerance = 1e-6

	// DefaultTimeout bounds the wall-clock time of one backend attempt.
	DefaultTimeout = 30 * time.Second
)

// SolverConfig is a plain, immutable configuration value, constructed once
// per call. The zero value is not meaningful; use DefaultSolverConfig.
type SolverConfig struct {
	// MaxIterations bounds the backend's iteration count.
	MaxIterations int

	// Tolerance is the convergence tolerance on the feasibility residual.
	Tolerance float64

	// Timeout bounds one backend attempt; on expiry a subprocess backend
	// terminates its child and surfaces a TimeoutError.
	Timeout time.Duration
}

// DefaultSolverConfig returns the documented defaults.
func DefaultSolverConfig() SolverConfig {
	return SolverConfig{
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
		Timeout:       DefaultTimeout,
	}
}

// Logger receives coarse dispatch progress lines. The default is a no-op;
// inject one with WithLogger.
type Logger interface {
	Print(v ...interface{})
}

type noopLogger struct{}

func (noopLogger) Print(v ...interface{}) {}
