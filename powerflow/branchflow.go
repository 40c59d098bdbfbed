// SPDX-License-Identifier: MIT

package powerflow

import (
	"math"

	"github.com/voltkit/gridopt/network"
)

// FromFlow evaluates the per-unit active and reactive power entering the
// branch at its From end, given the endpoint voltage magnitudes and angles.
// Tap ratio and phase shift are applied at the From end; half the line
// charging is lumped at each terminal.
func FromFlow(br network.Branch, vf, vt, thf, tht float64) (p, q float64) {
	den := br.R*br.R + br.X*br.X
	g, b := br.R/den, -br.X/den

	tap := br.Tap
	if tap == 0 {
		tap = 1
	}
	vf /= tap
	d := thf - tht - br.Shift

	p = vf*vf*g - vf*vt*(g*math.Cos(d)+b*math.Sin(d))
	q = -vf*vf*(b+br.Charging/2) - vf*vt*(g*math.Sin(d)-b*math.Cos(d))

	return p, q
}
