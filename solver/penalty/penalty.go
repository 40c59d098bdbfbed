// SPDX-License-Identifier: MIT

// Package penalty is the pure-Go fallback backend for smooth problems.
//
// It solves NonlinearProgram and ConicProgram classes with a classic
// augmented-Lagrangian scheme: equality constraints carry multiplier
// estimates updated between rounds, variable-bound and cone violations carry
// plain quadratic penalties, and each round minimizes the resulting smooth
// merit function with gonum's L-BFGS. Slower and less robust than a native
// interior-point solver, but it needs nothing beyond the module itself, so
// it is the backend of last resort in the default preference order.
package penalty

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"

	"github.com/voltkit/gridopt/solver"
)

// BackendID is the registry key.
const BackendID = "penalty"

// Multiplier-update schedule. The penalty weight starts mild so the first
// L-BFGS round is well conditioned, then grows geometrically until the
// feasibility residual meets tolerance.
const (
	initialWeight = 10.0
	weightGrowth  = 10.0
	maxWeight     = 1e8
	maxRounds     = 30
)

// Backend is the augmented-Lagrangian solver. Stateless and always available.
type Backend struct{}

// New returns the backend.
func New() *Backend { return &Backend{} }

// ID returns "penalty".
func (*Backend) ID() string { return BackendID }

// Supports lists the smooth classes.
func (*Backend) Supports() []solver.ProblemClass {
	return []solver.ProblemClass{solver.NonlinearProgram, solver.ConicProgram}
}

// Available always reports true: the implementation is in-process.
func (*Backend) Available() bool { return true }

// Solve runs up to maxRounds multiplier updates, each wrapping one L-BFGS
// minimization capped at cfg.MaxIterations major iterations. It honors the
// warm start through the problem's WarmStartable capability and returns the
// final equality multipliers to the problem's Solution mapper, which prices
// buses from them.
func (*Backend) Solve(p solver.Problem, cfg solver.SolverConfig, ws solver.WarmStart) (*solver.OpfSolution, error) {
	cp, ok := p.(solver.ContinuousProblem)
	if !ok {
		return nil, &solver.NotImplementedError{
			Reason: "penalty backend requires a smooth problem form",
		}
	}

	n := cp.NumVars()
	m := cp.NumEqualities()

	x := cp.InitialPoint()
	if ws != nil {
		if wsa, ok := p.(solver.WarmStartable); ok {
			wsa.ApplyWarmStart(ws, x)
		}
	}
	lo, hi := cp.Bounds()

	cone, hasCone := p.(solver.ConeConstrained)
	var nIneq int
	if hasCone {
		nIneq = cone.NumInequalities()
	}

	lam := make([]float64, m)
	weight := initialWeight

	// Shared evaluation buffers; gonum calls Func/Grad serially.
	g := make([]float64, m)
	jac := mat.NewDense(m, n, nil)
	var h []float64
	var hJac *mat.Dense
	if hasCone {
		h = make([]float64, nIneq)
		hJac = mat.NewDense(nIneq, n, nil)
	}

	merit := func(xv []float64) float64 {
		f := cp.Objective(xv)
		cp.Equalities(xv, g)
		for i, gi := range g {
			f += lam[i]*gi + 0.5*weight*gi*gi
		}
		for i, v := range xv {
			if d := lo[i] - v; d > 0 {
				f += 0.5 * weight * d * d
			}
			if d := v - hi[i]; d > 0 {
				f += 0.5 * weight * d * d
			}
		}
		if hasCone {
			cone.Inequalities(xv, h)
			for _, hv := range h {
				if hv < 0 {
					f += 0.5 * weight * hv * hv
				}
			}
		}

		return f
	}

	meritGrad := func(grad, xv []float64) {
		cp.Gradient(xv, grad)
		cp.Equalities(xv, g)
		cp.Jacobian(xv, jac)
		for i, gi := range g {
			w := lam[i] + weight*gi
			for j := 0; j < n; j++ {
				grad[j] += w * jac.At(i, j)
			}
		}
		for i, v := range xv {
			if d := lo[i] - v; d > 0 {
				grad[i] -= weight * d
			}
			if d := v - hi[i]; d > 0 {
				grad[i] += weight * d
			}
		}
		if hasCone {
			cone.Inequalities(xv, h)
			cone.InequalityJacobian(xv, hJac)
			for i, hv := range h {
				if hv >= 0 {
					continue
				}
				w := weight * hv
				for j := 0; j < n; j++ {
					grad[j] += w * hJac.At(i, j)
				}
			}
		}
	}

	prob := optimize.Problem{Func: merit, Grad: meritGrad}
	method := &optimize.LBFGS{}

	start := time.Now()
	deadline := start.Add(cfg.Timeout)

	iterations := 0
	residual := math.Inf(1)
	for round := 0; round < maxRounds; round++ {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, &solver.TimeoutError{Seconds: cfg.Timeout.Seconds()}
		}

		settings := &optimize.Settings{
			MajorIterations:   cfg.MaxIterations,
			Runtime:           remaining,
			GradientThreshold: 0.01 * cfg.Tolerance,
		}
		res, err := optimize.Minimize(prob, x, settings, method)
		if res == nil {
			return nil, &solver.NumericalError{Reason: "penalty: " + err.Error()}
		}
		// A stalled line search still yields a usable iterate; keep it and
		// let the multiplier update change the landscape.
		copy(x, res.X)
		iterations += res.Stats.MajorIterations

		residual = feasibility(cp, cone, hasCone, x, lo, hi, g, h)
		if math.IsNaN(residual) {
			return nil, &solver.NumericalError{Reason: "penalty: residual is NaN"}
		}
		if residual <= cfg.Tolerance {
			mapper, ok := p.(solver.SolutionMapper)
			if !ok {
				return nil, &solver.NumericalError{Reason: "penalty: problem cannot map its solution"}
			}
			sol := mapper.Solution(x, lam)
			sol.Converged = true
			sol.Iterations = iterations
			sol.SolveTime = time.Since(start)

			return sol, nil
		}

		for i := range lam {
			lam[i] += weight * g[i]
		}
		if weight < maxWeight {
			weight *= weightGrowth
		}
	}

	return nil, &solver.ConvergenceError{Iterations: iterations, Residual: residual}
}

// feasibility returns the worst constraint violation at x: equality residual,
// bound overshoot and cone violation, all in per-unit. g (and h, when conic)
// hold the constraint values on return, ready for the multiplier update.
func feasibility(cp solver.ContinuousProblem, cone solver.ConeConstrained, hasCone bool, x, lo, hi, g, h []float64) float64 {
	cp.Equalities(x, g)
	r := floats.Norm(g, math.Inf(1))
	for i, v := range x {
		if d := lo[i] - v; d > r {
			r = d
		}
		if d := v - hi[i]; d > r {
			r = d
		}
	}
	if hasCone {
		cone.Inequalities(x, h)
		for _, hv := range h {
			if -hv > r {
				r = -hv
			}
		}
	}

	return r
}
