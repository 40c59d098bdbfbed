// SPDX-License-Identifier: MIT

package socp

import (
	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/solver"
)

// FormulationID is the registry key of the SOCP relaxation.
const FormulationID = "socp"

// Formulation builds SOCP relaxation problems. Stateless.
type Formulation struct{}

// ID returns "socp".
func (Formulation) ID() string { return FormulationID }

// Class reports ConicProgram.
func (Formulation) Class() solver.ProblemClass { return solver.ConicProgram }

// AcceptsWarmStart accepts only Flat: the relaxation is itself a warm-start
// source, not a consumer.
func (Formulation) AcceptsWarmStart(k solver.WarmStartKind) bool {
	return k == solver.Flat
}

// BuildProblem constructs the typed problem from the network snapshot.
func (Formulation) BuildProblem(net *network.Network) (solver.Problem, error) {
	return Build(net)
}

// EncodeColumns serializes the lifted problem for a subprocess solver:
// dimensions, branch topology and series parameters, loads, generator data
// and the variable box.
func (p *Problem) EncodeColumns(w solver.ColumnWriter) {
	w.IntCol("dims", []int64{int64(p.nBus), int64(p.nGen), int64(p.nBr), int64(p.nVar)})
	w.IntCol("ref", []int64{int64(p.ref)})
	w.FloatCol("base", []float64{p.base})

	from := make([]int64, p.nBr)
	to := make([]int64, p.nBr)
	g := make([]float64, p.nBr)
	b := make([]float64, p.nBr)
	bc := make([]float64, p.nBr)
	for i, br := range p.branches {
		from[i], to[i] = int64(br.From), int64(br.To)
		g[i], b[i], bc[i] = br.G, br.B, br.Bc
	}
	w.IntCol("from", from)
	w.IntCol("to", to)
	w.FloatCol("g", g)
	w.FloatCol("b", b)
	w.FloatCol("bc", bc)

	pl := make([]float64, p.nBus)
	ql := make([]float64, p.nBus)
	for i, bus := range p.buses {
		pl[i], ql[i] = bus.Pload, bus.Qload
	}
	w.FloatCol("pload", pl)
	w.FloatCol("qload", ql)

	genBus := make([]int64, p.nGen)
	c0 := make([]float64, p.nGen)
	c1 := make([]float64, p.nGen)
	c2 := make([]float64, p.nGen)
	for i, gen := range p.gens {
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
