// SPDX-License-Identifier: MIT

// Package acopf: Lagrangian Hessian assembly. Pattern and values are split
// so a Newton-type backend queries structure once and values per iteration.
//
// Closed-form second partials of the bus-k balance equations, written in the
// e/f terms of jacobian.go (all remaining pairs are zero):
//
//	∂²P_k/∂V_a∂V_b:  2·G_kk (a=b=k) | e_kb (a=k) | e_ka (b=k)
//	∂²P_k/∂θ_a∂V_b:  −Σ_{j≠k} V_j·f_kj (a=b=k) | −V_k·f_kb (a=k)
//	                 | V_a·f_ka (b=k) | V_k·f_ka (b=a≠k)
//	∂²P_k/∂θ_a∂θ_b:  −Σ_{j≠k} V_k·V_j·e_kj (a=b=k) | V_k·V_b·e_kb (a=k)
//	                 | V_k·V_a·e_ka (b=k) | −V_k·V_a·e_ka (a=b≠k)
//
// and the Q analogues with e↔f exchanged and signs per the reactive
// identity (see d2Q* below).

package acopf

// HessianPattern returns the fixed lower-triangular (row, col) pairs of
//
//	H = σ·∇²f + Σ_i λ_i·∇²g_i
//
// partitioned into four blocks in order: V×V, θ×V, θ×θ, Pg-diagonal.
// It depends only on the problem dimensions: the dense bus-pair iteration
// is reproduced faithfully, so the count is
// n_bus·(n_bus+1) + n_bus² + n_gen.
func (p *Problem) HessianPattern() (rows, cols []int) {
	n := p.NBus
	size := n*(n+1) + n*n + p.NGen
	rows = make([]int, 0, size)
	cols = make([]int, 0, size)

	// V×V, lower triangle.
	for a := 0; a < n; a++ {
		for b := 0; b <= a; b++ {
			rows = append(rows, p.OffV+a)
			cols = append(cols, p.OffV+b)
		}
	}
	// θ×V, full block (θ offsets always exceed V offsets).
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			rows = append(rows, p.OffTheta+a)
			cols = append(cols, p.OffV+b)
		}
	}
	// θ×θ, lower triangle.
	for a := 0; a < n; a++ {
		for b := 0; b <= a; b++ {
			rows = append(rows, p.OffTheta+a)
			cols = append(cols, p.OffTheta+b)
		}
	}
	// Pg diagonal (objective curvature only).
	for g := 0; g < p.NGen; g++ {
		rows = append(rows, p.OffPg+g)
		cols = append(cols, p.OffPg+g)
	}

	return rows, cols
}

// HessianValues writes σ·∇²f(x) + Σ_i λ_i·∇²g_i(x) into vals, one entry per
// HessianPattern pair, in pattern order. λ layout: [λ_P | λ_Q | λ_ref];
// λ_ref multiplies a linear constraint and contributes nothing. Qg carries
// no curvature: it is absent from the objective and uncoupled in the
// quadratic cost term.
//
// Each entry of the V×V, θ×V and θ×θ blocks sums over every bus k the
// λ-weighted contribution of bus k's P- and Q-balance equations.
func (p *Problem) HessianValues(x []float64, sigma float64, lambda, vals []float64) {
	n := p.NBus
	v := x[p.OffV : p.OffV+n]
	th := x[p.OffTheta : p.OffTheta+n]

	idx := 0
	for a := 0; a < n; a++ {
		for b := 0; b <= a; b++ {
			var h float64
			for k := 0; k < n; k++ {
				h += lambda[k]*p.d2PVV(v, th, k, a, b) + lambda[n+k]*p.d2QVV(v, th, k, a, b)
			}
			vals[idx] = h
			idx++
		}
	}
	for a := 0; a < n; a++ {
		for b := 0; b < n; b++ {
			var h float64
			for k := 0; k < n; k++ {
				h += lambda[k]*p.d2PThV(v, th, k, a, b) + lambda[n+k]*p.d2QThV(v, th, k, a, b)
			}
			vals[idx] = h
			idx++
		}
	}
	for a := 0; a < n; a++ {
		for b := 0; b <= a; b++ {
			var h float64
			for k := 0; k < n; k++ {
				h += lambda[k]*p.d2PThTh(v, th, k, a, b) + lambda[n+k]*p.d2QThTh(v, th, k, a, b)
			}
			vals[idx] = h
			idx++
		}
	}
	for _, gen := range p.Gens {
		vals[idx] = sigma * 2 * gen.C2 * p.BaseMVA * p.BaseMVA
		idx++
	}
}

// d2PVV is ∂²P_k/∂V_a∂V_b.
func (p *Problem) d2PVV(v, th []float64, k, a, b int) float64 {
	switch {
	case a == k && b == k:
		return 2 * p.Y.Conductance(k, k)
	case a == k:
		e, _ := p.ef(v, th, k, b)

		return e
	case b == k:
		e, _ := p.ef(v, th, k, a)

		return e
	default:
		return 0
	}
}

// d2QVV is ∂²Q_k/∂V_a∂V_b.
func (p *Problem) d2QVV(v, th []float64, k, a, b int) float64 {
	switch {
	case a == k && b == k:
		return -2 * p.Y.Susceptance(k, k)
	case a == k:
		_, f := p.ef(v, th, k, b)

		return f
	case b == k:
		_, f := p.ef(v, th, k, a)

		return f
	default:
		return 0
	}
}

// d2PThV is ∂²P_k/∂θ_a∂V_b.
func (p *Problem) d2PThV(v, th []float64, k, a, b int) float64 {
	if a == k {
		if b == k {
			var s float64
			for j := 0; j < p.NBus; j++ {
				if j == k {
					continue
				}
				_, f := p.ef(v, th, k, j)
				s += v[j] * f
			}

			return -s
		}
		_, f := p.ef(v, th, k, b)

		return -v[k] * f
	}
	switch b {
	case k:
		_, f := p.ef(v, th, k, a)

		return v[a] * f
	case a:
		_, f := p.ef(v, th, k, a)

		return v[k] * f
	default:
		return 0
	}
}

// d2QThV is ∂²Q_k/∂θ_a∂V_b.
func (p *Problem) d2QThV(v, th []float64, k, a, b int) float64 {
	if a == k {
		if b == k {
			var s float64
			for j := 0; j < p.NBus; j++ {
				if j == k {
					continue
				}
				e, _ := p.ef(v, th, k, j)
				s += v[j] * e
			}

			return s
		}
		e, _ := p.ef(v, th, k, b)

		return v[k] * e
	}
	switch b {
	case k:
		e, _ := p.ef(v, th, k, a)

		return -v[a] * e
	case a:
		e, _ := p.ef(v, th, k, a)

		return -v[k] * e
	default:
		return 0
	}
}

// d2PThTh is ∂²P_k/∂θ_a∂θ_b.
func (p *Problem) d2PThTh(v, th []float64, k, a, b int) float64 {
	switch {
	case a == k && b == k:
		var s float64
		for j := 0; j < p.NBus; j++ {
			if j == k {
				continue
			}
			e, _ := p.ef(v, th, k, j)
			s += v[k] * v[j] * e
		}

		return -s
	case a == k:
		e, _ := p.ef(v, th, k, b)

		return v[k] * v[b] * e
	case b == k:
		e, _ := p.ef(v, th, k, a)

		return v[k] * v[a] * e
	case a == b:
		e, _ := p.ef(v, th, k, a)

		return -v[k] * v[a] * e
	default:
		return 0
	}
}

// d2QThTh is ∂²Q_k/∂θ_a∂θ_b.
func (p *Problem) d2QThTh(v, th []float64, k, a, b int) float64 {
	switch {
	case a == k && b == k:
		var s float64
		for j := 0; j < p.NBus; j++ {
			if j == k {
				continue
			}
			_, f := p.ef(v, th, k, j)
			s += v[k] * v[j] * f
		}

		return -s
	case a == k:
		_, f := p.ef(v, th, k, b)

		return v[k] * v[b] * f
	case b == k:
		_, f := p.ef(v, th, k, a)

		return v[k] * v[a] * f
	case a == b:
		_, f := p.ef(v, th, k, a)

		return -v[k] * v[a] * f
	default:
		return 0
	}
}
