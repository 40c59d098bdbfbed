// SPDX-License-Identifier: MIT

package dcopf

import (
	"gonum.org/v1/gonum/mat"

	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/solver"
)

// interiorTol decides whether a dispatch sits strictly inside its limits
// for the merit-order LMP rule, in per-unit.
const interiorTol = 1e-6

type busRecord struct {
	ID    string
	Pload float64
}

type genRecord struct {
	ID         string
	Bus        int
	PMin, PMax float64
	C0, C1, C2 float64
	// Marginal is the midpoint marginal cost in $/MWh, the LP price.
	Marginal float64
}

type branchRecord struct {
	ID       string
	From, To int
	B        float64
}

// Problem is a built DC-OPF instance: minimize cᵀx s.t. A·x = b, G·x ≤ h.
type Problem struct {
	buses    []busRecord
	gens     []genRecord
	branches []branchRecord

	nBus, nGen int
	ref        int
	base       float64

	c    []float64
	a    *mat.Dense
	bvec []float64
	g    *mat.Dense
	h    []float64
}

// Build assembles the linear relaxation from a network snapshot.
// Structural defects and generator-free networks surface as
// *solver.DataValidationError, matching the nonlinear formulation.
func Build(net *network.Network) (*Problem, error) {
	if err := net.Validate(); err != nil {
		return nil, &solver.DataValidationError{Reason: err.Error()}
	}
	gens := net.OnlineGenerators()
	if len(gens) == 0 {
		return nil, &solver.DataValidationError{Reason: "network has no generators"}
	}

	nBus, nGen := len(net.Buses), len(gens)
	base := net.BaseMVA
	busIdx := net.BusIndex()

	p := &Problem{
		buses: make([]busRecord, nBus),
		gens:  make([]genRecord, nGen),
		nBus:  nBus,
		nGen:  nGen,
		ref:   net.RefBus(),
		base:  base,
	}

	for i, b := range net.Buses {
		pl, _ := net.LoadAt(b.ID)
		p.buses[i] = busRecord{ID: b.ID, Pload: pl / base}
	}
	for i, g := range gens {
		c0, c1, c2 := g.Cost.Polynomial()
		mid := 0.5 * (g.PMin + g.PMax)
		p.gens[i] = genRecord{
			ID:       g.ID,
			Bus:      busIdx[g.Bus],
			PMin:     g.PMin / base,
			PMax:     g.PMax / base,
			C0:       c0,
			C1:       c1,
			C2:       c2,
			Marginal: c1 + 2*c2*mid,
		}
	}
	for _, br := range net.Branches {
		if br.X == 0 {
			return nil, &solver.DataValidationError{
				Reason: "branch " + br.ID + " has zero reactance",
			}
		}
		p.branches = append(p.branches, branchRecord{
			ID:   br.ID,
			From: busIdx[br.From],
			To:   busIdx[br.To],
			B:    1 / br.X,
		})
	}

	p.assemble()

	return p, nil
}

// assemble builds the LP matrices over x = [θ | Pg].
func (p *Problem) assemble() {
	nVar := p.nBus + p.nGen

	p.c = make([]float64, nVar)
	for g, gen := range p.gens {
		// $/hr per per-unit output.
		p.c[p.nBus+g] = gen.Marginal * p.base
	}

	p.a = mat.NewDense(p.nBus+1, nVar, nil)
	p.bvec = make([]float64, p.nBus+1)
	for _, br := range p.branches {
		p.a.Set(br.From, br.From, p.a.At(br.From, br.From)-br.B)
		p.a.Set(br.From, br.To, p.a.At(br.From, br.To)+br.B)
		p.a.Set(br.To, br.To, p.a.At(br.To, br.To)-br.B)
		p.a.Set(br.To, br.From, p.a.At(br.To, br.From)+br.B)
	}
	for g, gen := range p.gens {
		p.a.Set(gen.Bus, p.nBus+g, 1)
	}
	for i, b := range p.buses {
		p.bvec[i] = b.Pload
	}
	p.a.Set(p.nBus, p.ref, 1)

	p.g = mat.NewDense(2*p.nGen, nVar, nil)
	p.h = make([]float64, 2*p.nGen)
	for g, gen := range p.gens {
		p.g.Set(2*g, p.nBus+g, 1)
		p.h[2*g] = gen.PMax
		p.g.Set(2*g+1, p.nBus+g, -1)
		p.h[2*g+1] = -gen.PMin
	}
}

// Class reports LinearProgram.
func (p *Problem) Class() solver.ProblemClass { return solver.LinearProgram }

// Cost returns the objective coefficients.
func (p *Problem) Cost() []float64 { return p.c }

// EqualityMatrix returns the balance rows plus the reference pin.
func (p *Problem) EqualityMatrix() (*mat.Dense, []float64) { return p.a, p.bvec }

// InequalityMatrix returns the generator box rows.
func (p *Problem) InequalityMatrix() (*mat.Dense, []float64) { return p.g, p.h }

// Solution maps the LP vector into the common result shape: unit voltage
// magnitudes, DC angles, MW dispatch, DC branch flows and merit-order LMPs.
// The objective is re-evaluated with the full quadratic cost so the reported
// $/hr matches the curve, not the linearized price.
func (p *Problem) Solution(x, _ []float64) *solver.OpfSolution {
	sol := &solver.OpfSolution{
		BusVoltage: make(map[string]float64, p.nBus),
		BusAngle:   make(map[string]float64, p.nBus),
		BusLMP:     make(map[string]float64, p.nBus),
		GenP:       make(map[string]float64, p.nGen),
		GenQ:       make(map[string]float64, p.nGen),
		BranchFlow: make(map[string]float64, len(p.branches)),
	}

	lmp := p.meritOrderLMP(x)
	for i, b := range p.buses {
		sol.BusVoltage[b.ID] = 1.0
		sol.BusAngle[b.ID] = x[i]
		sol.BusLMP[b.ID] = lmp
	}
	for g, gen := range p.gens {
		mw := x[p.nBus+g] * p.base
		sol.GenP[gen.ID] = mw
		sol.GenQ[gen.ID] = 0
		sol.Objective += gen.C0 + gen.C1*mw + gen.C2*mw*mw
	}
	for _, br := range p.branches {
		sol.BranchFlow[br.ID] = br.B * (x[br.From] - x[br.To]) * p.base
	}

	return sol
}

// meritOrderLMP prices energy at the most expensive generator dispatched
// strictly inside its limits; when every unit sits at a bound, at the most
// expensive dispatched unit.
func (p *Problem) meritOrderLMP(x []float64) float64 {
	var (
		interior   float64
		dispatched float64
		haveInt    bool
		haveDsp    bool
	)
	for g, gen := range p.gens {
		pg := x[p.nBus+g]
		if pg > gen.PMin+interiorTol && pg < gen.PMax-interiorTol {
			if !haveInt || gen.Marginal > interior {
				interior = gen.Marginal
				haveInt = true
			}
		}
		if pg > gen.PMin+interiorTol {
			if !haveDsp || gen.Marginal > dispatched {
				dispatched = gen.Marginal
				haveDsp = true
			}
		}
	}
	if haveInt {
		return interior
	}
	if haveDsp {
		return dispatched
	}

	return 0
}
