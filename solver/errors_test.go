package solver_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltkit/gridopt/solver"
)

func TestRetryable_Classification(t *testing.T) {
	retry := []error{
		&solver.ConvergenceError{Iterations: 200, Residual: 1e-3},
		&solver.InfeasibleError{Reason: "no feasible basis"},
		&solver.NumericalError{Reason: "singular system"},
	}
	for _, err := range retry {
		require.True(t, solver.Retryable(err), "%T", err)
	}

	fatal := []error{
		&solver.DataValidationError{Reason: "no generators"},
		&solver.NotImplementedError{Reason: "Unknown formulation"},
		&solver.TimeoutError{Seconds: 30},
		fmt.Errorf("plain error"),
		nil,
	}
	for _, err := range fatal {
		require.False(t, solver.Retryable(err), "%T", err)
	}
}

func TestRetryable_SeesThroughWrapping(t *testing.T) {
	err := fmt.Errorf("attempt 1: %w", &solver.ConvergenceError{Iterations: 50, Residual: 0.1})
	require.True(t, solver.Retryable(err))
}

func TestErrorMessages(t *testing.T) {
	require.Contains(t,
		(&solver.ConvergenceError{Iterations: 200, Residual: 2.5e-4}).Error(),
		"200 iterations")
	require.Contains(t,
		(&solver.TimeoutError{Seconds: 30}).Error(), "30.0s")
	require.Contains(t,
		(&solver.DataValidationError{Reason: "dup"}).Error(), "data validation")
}

func TestWarmStartKind_FormulationID(t *testing.T) {
	require.Equal(t, "", solver.Flat.FormulationID())
	require.Equal(t, "dc-opf", solver.Dc.FormulationID())
	require.Equal(t, "socp", solver.Socp.FormulationID())
}

func TestProblemClass_String(t *testing.T) {
	require.Equal(t, "linear", solver.LinearProgram.String())
	require.Equal(t, "conic", solver.ConicProgram.String())
	require.Equal(t, "nonlinear", solver.NonlinearProgram.String())
	require.Equal(t, "mixed-integer", solver.MixedInteger.String())
}
