// SPDX-License-Identifier: MIT

package socp

import (
	"math"

	"github.com/voltkit/gridopt/solver"
)

// Solution maps the lifted vector back to the common result shape:
// Vm = √u, angles recovered branch-wise from (c, s), MW dispatch and
// from-end branch flows. LMPs come from the P-balance multipliers when the
// backend supplies them.
func (p *Problem) Solution(x, lambda []float64) *solver.OpfSolution {
	sol := &solver.OpfSolution{
		Objective:  p.Objective(x),
		BusVoltage: make(map[string]float64, p.nBus),
		BusAngle:   make(map[string]float64, p.nBus),
		BusLMP:     make(map[string]float64, p.nBus),
		GenP:       make(map[string]float64, p.nGen),
		GenQ:       make(map[string]float64, p.nGen),
		BranchFlow: make(map[string]float64, p.nBr),
	}

	theta := p.recoverAngles(x)
	for i, b := range p.buses {
		sol.BusVoltage[b.ID] = math.Sqrt(math.Max(x[p.offU+i], 0))
		sol.BusAngle[b.ID] = theta[i]
		if lambda != nil {
			sol.BusLMP[b.ID] = lambda[i] / p.base
		} else {
			sol.BusLMP[b.ID] = 0
		}
	}
	for g, gen := range p.gens {
		sol.GenP[gen.ID] = x[p.offPg+g] * p.base
		sol.GenQ[gen.ID] = x[p.offQg+g] * p.base
	}
	for i, br := range p.branches {
		c, s := x[p.offC+i], x[p.offS+i]
		pf := br.G*x[p.offU+br.From] - br.G*c - br.B*s
		sol.BranchFlow[br.ID] = pf * p.base
	}

	return sol
}

// recoverAngles walks branches breadth-first from the reference bus,
// accumulating θ_f − θ_t = atan2(s, c). Buses not reachable from the
// reference keep a zero angle.
func (p *Problem) recoverAngles(x []float64) []float64 {
	theta := make([]float64, p.nBus)
	seen := make([]bool, p.nBus)
	seen[p.ref] = true

	queue := []int{p.ref}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]

		for b, br := range p.branches {
			diff := math.Atan2(x[p.offS+b], x[p.offC+b])
			switch {
			case br.From == i && !seen[br.To]:
				theta[br.To] = theta[i] - diff
				seen[br.To] = true
				queue = append(queue, br.To)
			case br.To == i && !seen[br.From]:
				theta[br.From] = theta[i] + diff
				seen[br.From] = true
				queue = append(queue, br.From)
			}
		}
	}

	return theta
}
