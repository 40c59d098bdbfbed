// SPDX-License-Identifier: MIT

package network

// Bus is a single electrical node.
type Bus struct {
	// ID is the unique bus identifier (non-empty).
	ID string

	// VMin and VMax bound the voltage magnitude in per-unit.
	// A zero pair is normalized to the conventional [0.94, 1.06] band.
	VMin, VMax float64

	// ShuntG and ShuntB are the shunt conductance/susceptance at the bus,
	// in per-unit on the system base.
	ShuntG, ShuntB float64

	// Slack marks the reference bus whose angle is pinned to zero.
	Slack bool
}

// Generator is a dispatchable source attached to a bus.
type Generator struct {
	// ID is the unique generator identifier.
	ID string

	// Bus is the ID of the bus the generator is connected to.
	Bus string

	// Active-power limits in MW.
	PMin, PMax float64

	// Reactive-power limits in MVAr.
	QMin, QMax float64

	// Cost is the generation cost curve in $/hr over MW output.
	Cost CostCurve

	// Online excludes the unit from dispatch when false.
	Online bool
}

// Branch is a transmission line or transformer between two buses.
type Branch struct {
	// ID is the unique branch identifier.
	ID string

	// From and To are the endpoint bus IDs.
	From, To string

	// R and X are the series resistance/reactance in per-unit.
	R, X float64

	// Charging is the total line-charging susceptance in per-unit
	// (half is applied at each end).
	Charging float64

	// Tap is the off-nominal tap ratio at the From end; 0 means nominal (1.0).
	Tap float64

	// Shift is the phase-shift angle at the From end in radians.
	Shift float64

	// RateMVA is the thermal rating in MVA (informational here).
	RateMVA float64
}

// Load is a fixed power draw at a bus. Multiple loads on one bus aggregate.
type Load struct {
	// Bus is the ID of the bus the load is attached to.
	Bus string

	// P and Q are the drawn active/reactive power in MW and MVAr.
	P, Q float64
}

// Network is the immutable snapshot a formulation is built from.
type Network struct {
	// Name is purely informational.
	Name string

	// BaseMVA is the per-unit system base power.
	BaseMVA float64

	Buses      []Bus
	Generators []Generator
	Branches   []Branch
	Loads      []Load
}

// BusIndex returns the bus-ID → index map under canonical (slice) order.
func (n *Network) BusIndex() map[string]int {
	idx := make(map[string]int, len(n.Buses))
	for i, b := range n.Buses {
		idx[b.ID] = i
	}

	return idx
}

// RefBus returns the index of the reference bus: the first bus flagged
// Slack, or bus 0 when none is flagged.
func (n *Network) RefBus() int {
	for i, b := range n.Buses {
		if b.Slack {
			return i
		}
	}

	return 0
}

// OnlineGenerators returns the generators participating in dispatch,
// preserving declaration order.
func (n *Network) OnlineGenerators() []Generator {
	gens := make([]Generator, 0, len(n.Generators))
	for _, g := range n.Generators {
		if g.Online {
			gens = append(gens, g)
		}
	}

	return gens
}

// LoadAt aggregates all loads attached to the given bus ID, in MW/MVAr.
func (n *Network) LoadAt(busID string) (p, q float64) {
	for _, l := range n.Loads {
		if l.Bus == busID {
			p += l.P
			q += l.Q
		}
	}

	return p, q
}
