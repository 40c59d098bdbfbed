// SPDX-License-Identifier: MIT

package powerflow

import (
	"math"

	"github.com/voltkit/gridopt/admittance"
)

// ActiveInjection computes the nodal active-power injection P_i in per-unit.
//
// Complexity: O(n) over buses.
func ActiveInjection(y *admittance.Model, v, theta []float64, i int) float64 {
	var p float64
	for j := 0; j < y.Size(); j++ {
		g, b := y.Conductance(i, j), y.Susceptance(i, j)
		if g == 0 && b == 0 {
			continue
		}
		d := theta[i] - theta[j]
		p += v[i] * v[j] * (g*math.Cos(d) + b*math.Sin(d))
	}

	return p
}

// ReactiveInjection computes the nodal reactive-power injection Q_i in per-unit.
func ReactiveInjection(y *admittance.Model, v, theta []float64, i int) float64 {
	var q float64
	for j := 0; j < y.Size(); j++ {
		g, b := y.Conductance(i, j), y.Susceptance(i, j)
		if g == 0 && b == 0 {
			continue
		}
		d := theta[i] - theta[j]
		q += v[i] * v[j] * (g*math.Sin(d) - b*math.Cos(d))
	}

	return q
}

// Injections evaluates all nodal P and Q injections at once.
//
// Complexity: O(n²).
func Injections(y *admittance.Model, v, theta []float64) (p, q []float64) {
	n := y.Size()
	p = make([]float64, n)
	q = make([]float64, n)
	for i := 0; i < n; i++ {
		p[i] = ActiveInjection(y, v, theta, i)
		q[i] = ReactiveInjection(y, v, theta, i)
	}

	return p, q
}
