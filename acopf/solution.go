// SPDX-License-Identifier: MIT

package acopf

import (
	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/powerflow"
	"github.com/voltkit/gridopt/solver"
)

// Solution translates a raw solution vector (and optional equality
// multipliers) into the named result maps. LMPs are the duals of the active
// power-balance constraints rescaled from $/hr-per-pu to $/MWh; with a nil
// lambda the LMP map is zero-filled. Backends fill Converged, Iterations
// and SolveTime on the returned value.
func (p *Problem) Solution(x, lambda []float64) *solver.OpfSolution {
	sol := &solver.OpfSolution{
		Objective:  p.Objective(x),
		BusVoltage: make(map[string]float64, p.NBus),
		BusAngle:   make(map[string]float64, p.NBus),
		BusLMP:     make(map[string]float64, p.NBus),
		GenP:       make(map[string]float64, p.NGen),
		GenQ:       make(map[string]float64, p.NGen),
		BranchFlow: make(map[string]float64, len(p.branches)),
	}

	busIdx := make(map[string]int, p.NBus)
	for i, b := range p.Buses {
		busIdx[b.ID] = i
		sol.BusVoltage[b.ID] = x[p.OffV+i]
		sol.BusAngle[b.ID] = x[p.OffTheta+i]
		if lambda != nil {
			sol.BusLMP[b.ID] = lambda[i] / p.BaseMVA
		} else {
			sol.BusLMP[b.ID] = 0
		}
	}
	for g, gen := range p.Gens {
		sol.GenP[gen.ID] = x[p.OffPg+g] * p.BaseMVA
		sol.GenQ[gen.ID] = x[p.OffQg+g] * p.BaseMVA
	}
	for _, br := range p.branches {
		sol.BranchFlow[br.ID] = p.branchMW(br, x, busIdx)
	}

	return sol
}

func (p *Problem) branchMW(br network.Branch, x []float64, busIdx map[string]int) float64 {
	f, t := busIdx[br.From], busIdx[br.To]
	pf, _ := powerflow.FromFlow(br,
		x[p.OffV+f], x[p.OffV+t],
		x[p.OffTheta+f], x[p.OffTheta+t])

	return pf * p.BaseMVA
}
