// SPDX-License-Identifier: MIT

package socp

import (
	"gonum.org/v1/gonum/mat"

	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/solver"
)

type busRecord struct {
	ID             string
	VMin, VMax     float64
	Pload, Qload   float64
	ShuntG, ShuntB float64
}

type genRecord struct {
	ID         string
	Bus        int
	PMin, PMax float64
	QMin, QMax float64
	C0, C1, C2 float64
}

type branchRecord struct {
	ID       string
	From, To int
	// Series conductance/susceptance and half line charging, per-unit.
	G, B, Bc float64
}

// Problem is a built SOCP relaxation instance. Read-only after Build.
type Problem struct {
	buses    []busRecord
	gens     []genRecord
	branches []branchRecord

	nBus, nGen, nBr int
	nVar            int
	offU, offC      int
	offS, offPg     int
	offQg           int
	ref             int
	base            float64
}

// Build lifts the network snapshot into the Jabr variable space.
// Defects surface as *solver.DataValidationError like the other
// formulations.
func Build(net *network.Network) (*Problem, error) {
	if err := net.Validate(); err != nil {
		return nil, &solver.DataValidationError{Reason: err.Error()}
	}
	gens := net.OnlineGenerators()
	if len(gens) == 0 {
		return nil, &solver.DataValidationError{Reason: "network has no generators"}
	}

	nBus, nGen, nBr := len(net.Buses), len(gens), len(net.Branches)
	base := net.BaseMVA
	busIdx := net.BusIndex()

	p := &Problem{
		buses:    make([]busRecord, nBus),
		gens:     make([]genRecord, nGen),
		branches: make([]branchRecord, nBr),
		nBus:     nBus,
		nGen:     nGen,
		nBr:      nBr,
		nVar:     nBus + 2*nBr + 2*nGen,
		offU:     0,
		offC:     nBus,
		offS:     nBus + nBr,
		offPg:    nBus + 2*nBr,
		offQg:    nBus + 2*nBr + nGen,
		ref:      net.RefBus(),
		base:     base,
	}

	for i, b := range net.Buses {
		lo, hi := b.VoltageBand()
		pl, ql := net.LoadAt(b.ID)
		p.buses[i] = busRecord{
			ID:     b.ID,
			VMin:   lo,
			VMax:   hi,
			Pload:  pl / base,
			Qload:  ql / base,
			ShuntG: b.ShuntG,
			ShuntB: b.ShuntB,
		}
	}
	for i, g := range gens {
		c0, c1, c2 := g.Cost.Polynomial()
		p.gens[i] = genRecord{
			ID:   g.ID,
			Bus:  busIdx[g.Bus],
			PMin: g.PMin / base,
			PMax: g.PMax / base,
			QMin: g.QMin / base,
			QMax: g.QMax / base,
			C0:   c0,
			C1:   c1,
			C2:   c2,
		}
	}
	for i, br := range net.Branches {
		if br.R == 0 && br.X == 0 {
			return nil, &solver.DataValidationError{
				Reason: "branch " + br.ID + " has zero series impedance",
			}
		}
		den := br.R*br.R + br.X*br.X
		p.branches[i] = branchRecord{
			ID:   br.ID,
			From: busIdx[br.From],
			To:   busIdx[br.To],
			G:    br.R / den,
			B:    -br.X / den,
			Bc:   br.Charging / 2,
		}
	}

	return p, nil
}

// Class reports ConicProgram.
func (p *Problem) Class() solver.ProblemClass { return solver.ConicProgram }

// NumVars returns n_bus + 2·n_branch + 2·n_gen.
func (p *Problem) NumVars() int { return p.nVar }

// NumEqualities returns 2·n_bus (P and Q balance; no angle variables, so
// no reference pin).
func (p *Problem) NumEqualities() int { return 2 * p.nBus }

// NumInequalities returns one rotated cone per branch.
func (p *Problem) NumInequalities() int { return p.nBr }

// InitialPoint lifts the flat start: u = 1, c = 1, s = 0, generators at
// range midpoints.
func (p *Problem) InitialPoint() []float64 {
	x := make([]float64, p.nVar)
	for i := 0; i < p.nBus; i++ {
		x[p.offU+i] = 1
	}
	for b := 0; b < p.nBr; b++ {
		x[p.offC+b] = 1
	}
	for g, gen := range p.gens {
		x[p.offPg+g] = 0.5 * (gen.PMin + gen.PMax)
		x[p.offQg+g] = 0.5 * (gen.QMin + gen.QMax)
	}

	return x
}

// Bounds boxes the lifted variables by the voltage bands: u ∈ [VMin², VMax²],
// c ∈ [0, VMax_f·VMax_t], s symmetric about zero.
func (p *Problem) Bounds() (lo, hi []float64) {
	lo = make([]float64, p.nVar)
	hi = make([]float64, p.nVar)
	for i, b := range p.buses {
		lo[p.offU+i], hi[p.offU+i] = b.VMin*b.VMin, b.VMax*b.VMax
	}
	for i, br := range p.branches {
		vv := p.buses[br.From].VMax * p.buses[br.To].VMax
		lo[p.offC+i], hi[p.offC+i] = 0, vv
		lo[p.offS+i], hi[p.offS+i] = -vv, vv
	}
	for g, gen := range p.gens {
		lo[p.offPg+g], hi[p.offPg+g] = gen.PMin, gen.PMax
		lo[p.offQg+g], hi[p.offQg+g] = gen.QMin, gen.QMax
	}

	return lo, hi
}

// Objective evaluates the generation cost in $/hr, identical in form to the
// nonlinear objective.
func (p *Problem) Objective(x []float64) float64 {
	var cost float64
	for g, gen := range p.gens {
		mw := x[p.offPg+g] * p.base
		cost += gen.C0 + gen.C1*mw + gen.C2*mw*mw
	}

	return cost
}

// Gradient writes ∇f(x); nonzero only in the Pg block.
func (p *Problem) Gradient(x, grad []float64) {
	for i := range grad {
		grad[i] = 0
	}
	for g, gen := range p.gens {
		mw := x[p.offPg+g] * p.base
		grad[p.offPg+g] = (gen.C1 + 2*gen.C2*mw) * p.base
	}
}

// Equalities writes the 2·n_bus linear balance rows: P then Q.
func (p *Problem) Equalities(x, out []float64) {
	for i, b := range p.buses {
		out[i] = b.ShuntG*x[p.offU+i] + b.Pload
		out[p.nBus+i] = -b.ShuntB*x[p.offU+i] + b.Qload
	}
	for i, br := range p.branches {
		c, s := x[p.offC+i], x[p.offS+i]
		uf, ut := x[p.offU+br.From], x[p.offU+br.To]

		out[br.From] += br.G*uf - br.G*c - br.B*s
		out[br.To] += br.G*ut - br.G*c + br.B*s
		out[p.nBus+br.From] += -(br.B+br.Bc)*uf + br.B*c - br.G*s
		out[p.nBus+br.To] += -(br.B+br.Bc)*ut + br.B*c + br.G*s
	}
	for g, gen := range p.gens {
		out[gen.Bus] -= x[p.offPg+g]
		out[p.nBus+gen.Bus] -= x[p.offQg+g]
	}
}

// Jacobian writes the (2·n_bus) × n_var equality Jacobian; every balance
// row is linear in the lifted variables, so the matrix is state-independent.
func (p *Problem) Jacobian(_ []float64, jac *mat.Dense) {
	jac.Zero()
	for i, b := range p.buses {
		jac.Set(i, p.offU+i, b.ShuntG)
		jac.Set(p.nBus+i, p.offU+i, -b.ShuntB)
	}
	for i, br := range p.branches {
		add := func(r, c int, v float64) { jac.Set(r, c, jac.At(r, c)+v) }

		add(br.From, p.offU+br.From, br.G)
		add(br.From, p.offC+i, -br.G)
		add(br.From, p.offS+i, -br.B)

		add(br.To, p.offU+br.To, br.G)
		add(br.To, p.offC+i, -br.G)
		add(br.To, p.offS+i, br.B)

		add(p.nBus+br.From, p.offU+br.From, -(br.B + br.Bc))
		add(p.nBus+br.From, p.offC+i, br.B)
		add(p.nBus+br.From, p.offS+i, -br.G)

		add(p.nBus+br.To, p.offU+br.To, -(br.B + br.Bc))
		add(p.nBus+br.To, p.offC+i, br.B)
		add(p.nBus+br.To, p.offS+i, br.G)
	}
	for g, gen := range p.gens {
		jac.Set(gen.Bus, p.offPg+g, -1)
		jac.Set(p.nBus+gen.Bus, p.offQg+g, -1)
	}
}

// Inequalities writes the rotated-cone slacks h = u_f·u_t − c² − s², one
// per branch; feasible means h ≥ 0, exact when h = 0.
func (p *Problem) Inequalities(x, out []float64) {
	for i, br := range p.branches {
		c, s := x[p.offC+i], x[p.offS+i]
		out[i] = x[p.offU+br.From]*x[p.offU+br.To] - c*c - s*s
	}
}

// InequalityJacobian writes the n_br × n_var cone Jacobian. Each row touches
// four variables: u_f, u_t, c and s of its branch.
func (p *Problem) InequalityJacobian(x []float64, jac *mat.Dense) {
	jac.Zero()
	for i, br := range p.branches {
		jac.Set(i, p.offU+br.From, x[p.offU+br.To])
		jac.Set(i, p.offU+br.To, x[p.offU+br.From])
		jac.Set(i, p.offC+i, -2*x[p.offC+i])
		jac.Set(i, p.offS+i, -2*x[p.offS+i])
	}
}
