// Package simplex_test drives the LP backend with small hand-solved programs.
package simplex_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/voltkit/gridopt/solver"
	"github.com/voltkit/gridopt/solver/simplex"
)

// lpFixture is a general-form LP capturing the mapped solution.
type lpFixture struct {
	c    []float64
	a    *mat.Dense
	b    []float64
	g    *mat.Dense
	h    []float64
	gotX []float64
}

func (f *lpFixture) Class() solver.ProblemClass { return solver.LinearProgram }

func (f *lpFixture) Cost() []float64 { return f.c }

func (f *lpFixture) EqualityMatrix() (*mat.Dense, []float64) { return f.a, f.b }

func (f *lpFixture) InequalityMatrix() (*mat.Dense, []float64) { return f.g, f.h }

func (f *lpFixture) Solution(x, _ []float64) *solver.OpfSolution {
	f.gotX = append([]float64(nil), x...)

	return &solver.OpfSolution{Objective: floats.Dot(f.c, x)}
}

func TestSolve_TwoVarSplit(t *testing.T) {
	// min x0 + 2·x1  s.t.  x0 + x1 = 1,  x ≥ 0  →  x = (1, 0).
	p := &lpFixture{
		c: []float64{1, 2},
		a: mat.NewDense(1, 2, []float64{1, 1}),
		b: []float64{1},
		g: mat.NewDense(2, 2, []float64{-1, 0, 0, -1}),
		h: []float64{0, 0},
	}

	sol, err := simplex.New().Solve(p, solver.DefaultSolverConfig(), nil)
	require.NoError(t, err)
	require.True(t, sol.Converged)
	require.InDelta(t, 1.0, sol.Objective, 1e-9)
	require.InDelta(t, 1.0, p.gotX[0], 1e-9)
	require.InDelta(t, 0.0, p.gotX[1], 1e-9)
	require.Positive(t, sol.SolveTime)
}

func TestSolve_NegativeOptimum(t *testing.T) {
	// The free-variable split must recover a negative solution:
	// min x0  s.t.  x0 + x1 = 0,  x1 ≤ 2  →  x = (−2, 2).
	p := &lpFixture{
		c: []float64{1, 0},
		a: mat.NewDense(1, 2, []float64{1, 1}),
		b: []float64{0},
		g: mat.NewDense(1, 2, []float64{0, 1}),
		h: []float64{2},
	}

	sol, err := simplex.New().Solve(p, solver.DefaultSolverConfig(), nil)
	require.NoError(t, err)
	require.InDelta(t, -2.0, sol.Objective, 1e-9)
	require.InDelta(t, -2.0, p.gotX[0], 1e-9)
	require.InDelta(t, 2.0, p.gotX[1], 1e-9)
}

func TestSolve_Infeasible(t *testing.T) {
	// x0 = 2 contradicts x0 ≤ 1.
	p := &lpFixture{
		c: []float64{1},
		a: mat.NewDense(1, 1, []float64{1}),
		b: []float64{2},
		g: mat.NewDense(1, 1, []float64{1}),
		h: []float64{1},
	}

	_, err := simplex.New().Solve(p, solver.DefaultSolverConfig(), nil)
	var inf *solver.InfeasibleError
	require.ErrorAs(t, err, &inf)
}

func TestSolve_NilInequalityBlock(t *testing.T) {
	// Equality-only problems are padded with an inert 0 ≤ 0 row.
	p := &lpFixture{
		c: []float64{3},
		a: mat.NewDense(1, 1, []float64{1}),
		b: []float64{4},
	}

	sol, err := simplex.New().Solve(p, solver.DefaultSolverConfig(), nil)
	require.NoError(t, err)
	require.InDelta(t, 12.0, sol.Objective, 1e-9)
	require.InDelta(t, 4.0, p.gotX[0], 1e-9)
}

func TestSolve_RequiresLinearProblem(t *testing.T) {
	_, err := simplex.New().Solve(&notLinear{}, solver.DefaultSolverConfig(), nil)
	var ni *solver.NotImplementedError
	require.ErrorAs(t, err, &ni)
}

type notLinear struct{}

func (*notLinear) Class() solver.ProblemClass { return solver.LinearProgram }

func TestBackend_Contract(t *testing.T) {
	b := simplex.New()
	require.Equal(t, "simplex", b.ID())
	require.True(t, b.Available())
	require.Equal(t, []solver.ProblemClass{solver.LinearProgram}, b.Supports())
}
