// SPDX-License-Identifier: MIT

package admittance

import (
	"errors"
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"

	"github.com/voltkit/gridopt/network"
)

// Sentinel errors for Y-bus assembly.
var (
	// ErrZeroImpedance indicates a branch with zero series impedance.
	ErrZeroImpedance = errors.New("admittance: branch has zero series impedance")

	// ErrBadTap indicates a negative off-nominal tap ratio.
	ErrBadTap = errors.New("admittance: negative tap ratio")
)

// Model is the assembled Y-bus. Read-only after Build.
type Model struct {
	n int
	y *mat.CDense
}

// Build assembles the Y-bus from the network's branches and bus shunts.
// Bus indices follow the canonical order of net.Buses. The network is
// expected to have passed network.Validate; unknown-bus references are
// still rejected defensively through the index map.
//
// Complexity: O(n² + branches) — dense allocation plus one stamp per branch.
func Build(net *network.Network) (*Model, error) {
	idx := net.BusIndex()
	n := len(net.Buses)
	y := mat.NewCDense(n, n, nil)

	for _, br := range net.Branches {
		f, okF := idx[br.From]
		t, okT := idx[br.To]
		if !okF || !okT {
			return nil, fmt.Errorf("%w: branch %q", network.ErrUnknownBus, br.ID)
		}
		if br.R == 0 && br.X == 0 {
			return nil, fmt.Errorf("%w: %q", ErrZeroImpedance, br.ID)
		}
		if br.Tap < 0 {
			return nil, fmt.Errorf("%w: %q", ErrBadTap, br.ID)
		}

		ys := 1 / complex(br.R, br.X)
		bc := complex(0, br.Charging/2)
		tap := br.Tap
		if tap == 0 {
			tap = 1
		}
		// τ·e^{jσ}: the complex tap at the From end.
		ct := cmplx.Rect(tap, br.Shift)

		y.Set(f, f, y.At(f, f)+(ys+bc)/complex(tap*tap, 0))
		y.Set(f, t, y.At(f, t)-ys/cmplx.Conj(ct))
		y.Set(t, f, y.At(t, f)-ys/ct)
		y.Set(t, t, y.At(t, t)+ys+bc)
	}

	for i, b := range net.Buses {
		y.Set(i, i, y.At(i, i)+complex(b.ShuntG, b.ShuntB))
	}

	return &Model{n: n, y: y}, nil
}

// Size returns the number of buses.
func (m *Model) Size() int { return m.n }

// Conductance returns G[i,j] = Re(Y[i,j]).
func (m *Model) Conductance(i, j int) float64 { return real(m.y.At(i, j)) }

// Susceptance returns B[i,j] = Im(Y[i,j]).
func (m *Model) Susceptance(i, j int) float64 { return imag(m.y.At(i, j)) }
