// SPDX-License-Identifier: MIT

package network

import (
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for structural network validation.
var (
	// ErrNoBuses indicates that the network contains no buses.
	ErrNoBuses = errors.New("network: no buses")

	// ErrBadBaseMVA indicates a zero, negative or non-finite per-unit base.
	ErrBadBaseMVA = errors.New("network: base MVA must be positive and finite")

	// ErrDuplicateBus indicates that two buses share the same ID.
	ErrDuplicateBus = errors.New("network: duplicate bus ID")

	// ErrUnknownBus indicates a generator, branch or load referencing a bus
	// that is not part of the network.
	ErrUnknownBus = errors.New("network: unknown bus ID")

	// ErrBadVoltageBand indicates an inverted or non-positive voltage band.
	ErrBadVoltageBand = errors.New("network: invalid voltage band")
)

// Validate checks structural consistency. It does not check solvability;
// that is the formulation's concern (e.g. "no generators" is rejected there).
//
// Check order: base → buses (IDs, bands) → generators → branches → loads.
func (n *Network) Validate() error {
	if n.BaseMVA <= 0 || math.IsNaN(n.BaseMVA) || math.IsInf(n.BaseMVA, 0) {
		return ErrBadBaseMVA
	}
	if len(n.Buses) == 0 {
		return ErrNoBuses
	}

	seen := make(map[string]struct{}, len(n.Buses))
	for _, b := range n.Buses {
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateBus, b.ID)
		}
		seen[b.ID] = struct{}{}

		lo, hi := b.VoltageBand()
		if lo <= 0 || lo > hi {
			return fmt.Errorf("%w: bus %q [%g, %g]", ErrBadVoltageBand, b.ID, lo, hi)
		}
	}

	for _, g := range n.Generators {
		if _, ok := seen[g.Bus]; !ok {
			return fmt.Errorf("%w: generator %q at %q", ErrUnknownBus, g.ID, g.Bus)
		}
	}
	for _, br := range n.Branches {
		if _, ok := seen[br.From]; !ok {
			return fmt.Errorf("%w: branch %q from %q", ErrUnknownBus, br.ID, br.From)
		}
		if _, ok := seen[br.To]; !ok {
			return fmt.Errorf("%w: branch %q to %q", ErrUnknownBus, br.ID, br.To)
		}
	}
	for _, l := range n.Loads {
		if _, ok := seen[l.Bus]; !ok {
			return fmt.Errorf("%w: load at %q", ErrUnknownBus, l.Bus)
		}
	}

	return nil
}

// VoltageBand returns the effective [VMin, VMax] limits of the bus,
// substituting the conventional [0.94, 1.06] band when both are zero.
func (b Bus) VoltageBand() (lo, hi float64) {
	if b.VMin == 0 && b.VMax == 0 {
		return 0.94, 1.06
	}

	return b.VMin, b.VMax
}
