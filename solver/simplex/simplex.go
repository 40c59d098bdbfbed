// SPDX-License-Identifier: MIT

// Package simplex is the pure-Go LinearProgram backend, built on gonum's
// dense simplex (lp.Convert + lp.Simplex). It serves problems exposing the
// solver.LinearProblem capability — in this module, the DC-OPF relaxation.
package simplex

import (
	"errors"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/voltkit/gridopt/solver"
)

// BackendID is the registry key.
const BackendID = "simplex"

// Backend solves LinearProgram problems with gonum's simplex method.
// Stateless and always available.
type Backend struct{}

// New returns the backend.
func New() *Backend { return &Backend{} }

// ID returns "simplex".
func (*Backend) ID() string { return BackendID }

// Supports lists LinearProgram only.
func (*Backend) Supports() []solver.ProblemClass {
	return []solver.ProblemClass{solver.LinearProgram}
}

// Available always reports true: the implementation is in-process.
func (*Backend) Available() bool { return true }

// Solve converts the general-form LP to standard form and runs the simplex
// method. Warm starts are ignored — a one-shot simplex solve has no use for
// them (the DC formulation declines them at the formulation level too).
func (*Backend) Solve(p solver.Problem, cfg solver.SolverConfig, _ solver.WarmStart) (*solver.OpfSolution, error) {
	lpb, ok := p.(solver.LinearProblem)
	if !ok {
		return nil, &solver.NotImplementedError{
			Reason: "simplex backend requires a linear problem form",
		}
	}

	c := lpb.Cost()
	a, b := lpb.EqualityMatrix()
	g, h := lpb.InequalityMatrix()
	if g == nil {
		// lp.Convert requires a non-empty inequality block; 0 ≤ 0 is inert.
		g = mat.NewDense(1, len(c), nil)
		h = []float64{0}
	}

	start := time.Now()
	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	_, xStd, err := lp.Simplex(cStd, aStd, bStd, cfg.Tolerance, nil)
	if err != nil {
		return nil, classify(err)
	}

	// Standard form doubled every free variable: x = x⁺ − x⁻.
	x := make([]float64, len(c))
	for i := range x {
		x[i] = xStd[i] - xStd[len(c)+i]
	}

	mapper, ok := p.(solver.SolutionMapper)
	if !ok {
		return nil, &solver.NumericalError{Reason: "linear problem cannot map its solution"}
	}

	sol := mapper.Solution(x, nil)
	sol.Converged = true
	sol.Iterations = 1
	sol.SolveTime = time.Since(start)

	return sol, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return &solver.InfeasibleError{Reason: "simplex: no feasible basis"}
	case errors.Is(err, lp.ErrUnbounded):
		return &solver.NumericalError{Reason: "simplex: problem is unbounded"}
	case errors.Is(err, lp.ErrSingular):
		return &solver.NumericalError{Reason: "simplex: singular basis matrix"}
	default:
		return &solver.NumericalError{Reason: "simplex: " + err.Error()}
	}
}
