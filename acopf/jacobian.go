// SPDX-License-Identifier: MIT

// Package acopf: analytic constraint Jacobian. Row order matches
// Equalities: P-balance per bus, Q-balance per bus, reference-angle pin.

package acopf

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ef evaluates the rotated admittance terms of the bus pair (i, j):
//
//	e_ij = G_ij·cos θ_ij + B_ij·sin θ_ij
//	f_ij = G_ij·sin θ_ij − B_ij·cos θ_ij
//
// Every first and second partial of the power-balance identities is a short
// expression in e, f and the voltage magnitudes.
func (p *Problem) ef(v, th []float64, i, j int) (e, f float64) {
	g, b := p.Y.Conductance(i, j), p.Y.Susceptance(i, j)
	if g == 0 && b == 0 {
		return 0, 0
	}
	d := th[i] - th[j]
	sin, cos := math.Sin(d), math.Cos(d)

	return g*cos + b*sin, g*sin - b*cos
}

// Jacobian writes the dense (2·n_bus+1) × n_var constraint Jacobian at x.
//
// Complexity: O(n_bus²) — each balance row touches every bus column.
func (p *Problem) Jacobian(x []float64, jac *mat.Dense) {
	v := x[p.OffV : p.OffV+p.NBus]
	th := x[p.OffTheta : p.OffTheta+p.NBus]
	jac.Zero()

	for k := 0; k < p.NBus; k++ {
		rowP, rowQ := k, p.NBus+k

		// Diagonal accumulators: Σ_{j≠k} of the e/f sums.
		var sumVE, sumVF, sumVVE, sumVVF float64
		for j := 0; j < p.NBus; j++ {
			if j == k {
				continue
			}
			e, f := p.ef(v, th, k, j)
			sumVE += v[j] * e
			sumVF += v[j] * f
			sumVVE += v[k] * v[j] * e
			sumVVF += v[k] * v[j] * f

			// Off-diagonal columns of bus j.
			jac.Set(rowP, p.OffV+j, v[k]*e)
			jac.Set(rowP, p.OffTheta+j, v[k]*v[j]*f)
			jac.Set(rowQ, p.OffV+j, v[k]*f)
			jac.Set(rowQ, p.OffTheta+j, -v[k]*v[j]*e)
		}

		gkk, bkk := p.Y.Conductance(k, k), p.Y.Susceptance(k, k)
		jac.Set(rowP, p.OffV+k, 2*v[k]*gkk+sumVE)
		jac.Set(rowP, p.OffTheta+k, -sumVVF)
		jac.Set(rowQ, p.OffV+k, -2*v[k]*bkk+sumVF)
		jac.Set(rowQ, p.OffTheta+k, sumVVE)
	}

	for g, gen := range p.Gens {
		jac.Set(gen.Bus, p.OffPg+g, -1)
		jac.Set(p.NBus+gen.Bus, p.OffQg+g, -1)
	}

	jac.Set(2*p.NBus, p.OffTheta+p.Ref, 1)
}
