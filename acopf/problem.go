// SPDX-License-Identifier: MIT

package acopf

import (
	"math"

	"github.com/voltkit/gridopt/admittance"
	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/powerflow"
	"github.com/voltkit/gridopt/solver"
)

// thetaBound is the ±π/2 angle box. A numerical-stability guard for the
// solver, not a physical constraint.
const thetaBound = math.Pi / 2

// BusRecord is the per-bus slice of the problem: voltage band and the
// aggregated load at the bus, in per-unit.
type BusRecord struct {
	ID           string
	VMin, VMax   float64
	Pload, Qload float64
}

// GenRecord is the per-generator slice of the problem: limits in per-unit
// and polynomial cost coefficients over MW output.
type GenRecord struct {
	ID         string
	Bus        int
	PMin, PMax float64
	QMin, QMax float64
	C0, C1, C2 float64
}

// Problem is a built AC-OPF instance. Constructed once per solve attempt
// from a network snapshot; read-only afterwards.
type Problem struct {
	// Y is the admittance model over the problem's bus order.
	Y *admittance.Model

	Buses []BusRecord
	Gens  []GenRecord

	// Dimensions. Invariant: NVar == 2·NBus + 2·NGen.
	NBus, NGen, NVar int

	// Offsets partitioning the variable vector. Fixed at Build.
	OffV, OffTheta, OffPg, OffQg int

	// Ref is the reference-bus index whose angle is pinned to zero.
	Ref int

	// BaseMVA is the per-unit base power.
	BaseMVA float64

	branches []network.Branch
}

// Build constructs the problem from a network snapshot: buses indexed in
// traversal order, loads aggregated per bus, online generators with their
// polynomial (or collapsed piecewise) cost coefficients.
//
// An OPF over zero generators is meaningless; that and any structural
// defect surfaces as a *solver.DataValidationError.
func Build(net *network.Network) (*Problem, error) {
	if err := net.Validate(); err != nil {
		return nil, &solver.DataValidationError{Reason: err.Error()}
	}

	gens := net.OnlineGenerators()
	if len(gens) == 0 {
		return nil, &solver.DataValidationError{Reason: "network has no generators"}
	}

	y, err := admittance.Build(net)
	if err != nil {
		return nil, &solver.DataValidationError{Reason: err.Error()}
	}

	nBus, nGen := len(net.Buses), len(gens)
	base := net.BaseMVA
	busIdx := net.BusIndex()

	p := &Problem{
		Y:        y,
		Buses:    make([]BusRecord, nBus),
		Gens:     make([]GenRecord, nGen),
		NBus:     nBus,
		NGen:     nGen,
		NVar:     2*nBus + 2*nGen,
		OffV:     0,
		OffTheta: nBus,
		OffPg:    2 * nBus,
		OffQg:    2*nBus + nGen,
		Ref:      net.RefBus(),
		BaseMVA:  base,
		branches: net.Branches,
	}

	for i, b := range net.Buses {
		lo, hi := b.VoltageBand()
		pl, ql := net.LoadAt(b.ID)
		p.Buses[i] = BusRecord{
			ID:    b.ID,
			VMin:  lo,
			VMax:  hi,
			Pload: pl / base,
			Qload: ql / base,
		}
	}

	for i, g := range gens {
		c0, c1, c2 := g.Cost.Polynomial()
		p.Gens[i] = GenRecord{
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

	return p, nil
}

// Class reports NonlinearProgram.
func (p *Problem) Class() solver.ProblemClass { return solver.NonlinearProgram }

// NumVars returns n_var = 2·n_bus + 2·n_gen.
func (p *Problem) NumVars() int { return p.NVar }

// NumEqualities returns 2·n_bus + 1.
func (p *Problem) NumEqualities() int { return 2*p.NBus + 1 }

// InitialPoint returns the flat start: unit voltage magnitudes, zero angles,
// and each generator at the midpoint of its P/Q range — not zero, which may
// sit on an infeasible corner of the box.
func (p *Problem) InitialPoint() []float64 {
	x := make([]float64, p.NVar)
	for i := 0; i < p.NBus; i++ {
		x[p.OffV+i] = 1.0
	}
	for g, gen := range p.Gens {
		x[p.OffPg+g] = 0.5 * (gen.PMin + gen.PMax)
		x[p.OffQg+g] = 0.5 * (gen.QMin + gen.QMax)
	}

	return x
}

// Bounds returns the variable box: voltage bands from bus data, angles at
// ±π/2, generator limits in per-unit.
func (p *Problem) Bounds() (lo, hi []float64) {
	lo = make([]float64, p.NVar)
	hi = make([]float64, p.NVar)
	for i, b := range p.Buses {
		lo[p.OffV+i], hi[p.OffV+i] = b.VMin, b.VMax
		lo[p.OffTheta+i], hi[p.OffTheta+i] = -thetaBound, thetaBound
	}
	for g, gen := range p.Gens {
		lo[p.OffPg+g], hi[p.OffPg+g] = gen.PMin, gen.PMax
		lo[p.OffQg+g], hi[p.OffQg+g] = gen.QMin, gen.QMax
	}

	return lo, hi
}

// Objective evaluates the total generation cost in $/hr.
func (p *Problem) Objective(x []float64) float64 {
	var cost float64
	for g, gen := range p.Gens {
		mw := x[p.OffPg+g] * p.BaseMVA
		cost += gen.C0 + gen.C1*mw + gen.C2*mw*mw
	}

	return cost
}

// Gradient writes ∇f(x). Nonzero only in the Pg block:
// (c1 + 2·c2·P_MW)·base_MVA by the per-unit chain rule.
func (p *Problem) Gradient(x, grad []float64) {
	for i := range grad {
		grad[i] = 0
	}
	for g, gen := range p.Gens {
		mw := x[p.OffPg+g] * p.BaseMVA
		grad[p.OffPg+g] = (gen.C1 + 2*gen.C2*mw) * p.BaseMVA
	}
}

// Equalities writes the 2·n_bus+1 constraint vector: active then reactive
// power balance per bus, then the reference-angle pin.
func (p *Problem) Equalities(x, out []float64) {
	v := x[p.OffV : p.OffV+p.NBus]
	th := x[p.OffTheta : p.OffTheta+p.NBus]

	for k := 0; k < p.NBus; k++ {
		out[k] = powerflow.ActiveInjection(p.Y, v, th, k) + p.Buses[k].Pload
		out[p.NBus+k] = powerflow.ReactiveInjection(p.Y, v, th, k) + p.Buses[k].Qload
	}
	for g := range p.Gens {
		out[p.Gens[g].Bus] -= x[p.OffPg+g]
		out[p.NBus+p.Gens[g].Bus] -= x[p.OffQg+g]
	}
	out[2*p.NBus] = th[p.Ref]
}

// ApplyWarmStart patches x in place from the exchange map. Vm is per-unit,
// Va radians; Pg/Qg arrive in MW/MVAr and are converted to per-unit.
func (p *Problem) ApplyWarmStart(ws solver.WarmStart, x []float64) {
	for i, b := range p.Buses {
		if vm, ok := ws["Vm:"+b.ID]; ok {
			x[p.OffV+i] = vm
		}
		if va, ok := ws["Va:"+b.ID]; ok {
			x[p.OffTheta+i] = va
		}
	}
	for g, gen := range p.Gens {
		if pg, ok := ws["Pg:"+gen.ID]; ok {
			x[p.OffPg+g] = pg / p.BaseMVA
		}
		if qg, ok := ws["Qg:"+gen.ID]; ok {
			x[p.OffQg+g] = qg / p.BaseMVA
		}
	}
}
