// SPDX-License-Identifier: MIT

package network

// CostPoint is one breakpoint of a piecewise-linear cost curve.
type CostPoint struct {
	// MW is the output level of the breakpoint.
	MW float64

	// Cost is the total cost in $/hr at that output.
	Cost float64
}

// CostCurve models generation cost in $/hr as either a polynomial
// c0 + c1·P + c2·P² over MW output, or a piecewise-linear curve given by
// breakpoints. When Points is non-empty it takes precedence over the
// polynomial coefficients.
type CostCurve struct {
	C0, C1, C2 float64

	// Points, when non-empty, define a piecewise-linear curve. At least two
	// breakpoints with strictly increasing MW are required.
	Points []CostPoint
}

// Polynomial returns the (c0, c1, c2) coefficients used by formulations.
// Piecewise-linear curves collapse to the marginal cost of the segment
// containing the MW midpoint of the curve: c1 is that segment's slope, c0
// its zero-output intercept, c2 is zero.
func (c CostCurve) Polynomial() (c0, c1, c2 float64) {
	if len(c.Points) < 2 {
		return c.C0, c.C1, c.C2
	}

	first, last := c.Points[0], c.Points[len(c.Points)-1]
	mid := 0.5 * (first.MW + last.MW)

	seg := 0
	for i := 0; i < len(c.Points)-1; i++ {
		if c.Points[i].MW <= mid && mid <= c.Points[i+1].MW {
			seg = i

			break
		}
	}

	a, b := c.Points[seg], c.Points[seg+1]
	slope := (b.Cost - a.Cost) / (b.MW - a.MW)

	return a.Cost - slope*a.MW, slope, 0
}

// Evaluate returns the cost in $/hr at the given MW output using the
// polynomial form (piecewise curves evaluate their collapsed polynomial).
func (c CostCurve) Evaluate(mw float64) float64 {
	c0, c1, c2 := c.Polynomial()

	return c0 + c1*mw + c2*mw*mw
}

// Marginal returns the incremental cost d(cost)/dP in $/MWh at mw.
func (c CostCurve) Marginal(mw float64) float64 {
	_, c1, c2 := c.Polynomial()

	return c1 + 2*c2*mw
}
