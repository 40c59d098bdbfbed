// SPDX-License-Identifier: MIT

// Package solver: typed error taxonomy. Every failure a caller can see is
// exactly one of these types; the dispatcher classifies retry-worthiness with
// Retryable. Match with errors.As.

package solver

import (
	"errors"
	"fmt"
)

// DataValidationError reports malformed or insufficient input
// (e.g. a network with zero generators). Fatal; never retried.
type DataValidationError struct {
	Reason string
}

func (e *DataValidationError) Error() string {
	return "solver: data validation: " + e.Reason
}

// NotImplementedError reports an unknown formulation ID or the absence of
// any available backend for a problem class. Fatal; never retried.
type NotImplementedError struct {
	Reason string
}

func (e *NotImplementedError) Error() string {
	return "solver: " + e.Reason
}

// ConvergenceError reports that the backend ran out of iterations without
// meeting its tolerance. Retry-worthy.
type ConvergenceError struct {
	Iterations int
	Residual   float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("solver: convergence failure after %d iterations (residual %.3e)",
		e.Iterations, e.Residual)
}

// InfeasibleError reports that the backend proved or strongly suspects
// infeasibility. Retry-worthy (a better starting point may escape a spurious
// local certificate).
type InfeasibleError struct {
	Reason string
}

func (e *InfeasibleError) Error() string {
	return "solver: infeasible: " + e.Reason
}

// NumericalError reports a numerical breakdown (singular system, NaN,
// line-search failure, malformed solver output). Retry-worthy.
type NumericalError struct {
	Reason string
}

func (e *NumericalError) Error() string {
	return "solver: numerical issue: " + e.Reason
}

// TimeoutError reports that the configured time budget elapsed. Fatal:
// the remedy is a longer budget, not a different starting point.
type TimeoutError struct {
	Seconds float64
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("solver: timed out after %.1fs", e.Seconds)
}

// Retryable reports whether the error justifies a warm-start retry.
// Exactly ConvergenceError, InfeasibleError and NumericalError qualify.
func Retryable(err error) bool {
	var (
		conv *ConvergenceError
		inf  *InfeasibleError
		num  *NumericalError
	)

	return errors.As(err, &conv) || errors.As(err, &inf) || errors.As(err, &num)
}
