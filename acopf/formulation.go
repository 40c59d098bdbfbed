// SPDX-License-Identifier: MIT

package acopf

import (
	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/solver"
)

// FormulationID is the registry key of the AC-OPF formulation.
const FormulationID = "ac-opf"

// Formulation builds full nonlinear AC-OPF problems. Stateless; a single
// value serves concurrent dispatch calls.
type Formulation struct{}

// ID returns "ac-opf".
func (Formulation) ID() string { return FormulationID }

// Class reports NonlinearProgram.
func (Formulation) Class() solver.ProblemClass { return solver.NonlinearProgram }

// AcceptsWarmStart accepts every kind: the nonlinear problem benefits from
// both the DC and the SOCP relaxation starting points.
func (Formulation) AcceptsWarmStart(solver.WarmStartKind) bool { return true }

// BuildProblem constructs the typed problem from the network snapshot.
func (Formulation) BuildProblem(net *network.Network) (solver.Problem, error) {
	return Build(net)
}

// EncodeColumns serializes the problem for a subprocess solver: dimensions,
// the dense G/B admittance columns, per-bus loads and bounds, generator
// topology, limits and cost coefficients, the flat start and variable box.
func (p *Problem) EncodeColumns(w solver.ColumnWriter) {
	n := p.NBus
	w.IntCol("dims", []int64{int64(n), int64(p.NGen), int64(p.NVar)})
	w.IntCol("ref", []int64{int64(p.Ref)})
	w.FloatCol("base", []float64{p.BaseMVA})

	g := make([]float64, n*n)
	b := make([]float64, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			g[i*n+j] = p.Y.Conductance(i, j)
			b[i*n+j] = p.Y.Susceptance(i, j)
		}
	}
	w.FloatCol("G", g)
	w.FloatCol("B", b)

	pl := make([]float64, n)
	ql := make([]float64, n)
	for i, bus := range p.Buses {
		pl[i], ql[i] = bus.Pload, bus.Qload
	}
	w.FloatCol("pload", pl)
	w.FloatCol("qload", ql)

	genBus := make([]int64, p.NGen)
	c0 := make([]float64, p.NGen)
	c1 := make([]float64, p.NGen)
	c2 := make([]float64, p.NGen)
	for i, gen := range p.Gens {
		genBus[i] = int64(gen.Bus)
		c0[i], c1[i], c2[i] = gen.C0, gen.C1, gen.C2
	}
	w.IntCol("genbus", genBus)
	w.FloatCol("c0", c0)
	w.FloatCol("c1", c1)
	w.FloatCol("c2", c2)

	lo, hi := p.Bounds()
	w.FloatCol("lb", lo)
	w.FloatCol("ub", hi)
	w.FloatCol("x0", p.InitialPoint())
}
