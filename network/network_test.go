// Package network_test validates the data model: structural validation order,
// cost-curve collapsing and the bus/load helper queries.
package network_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltkit/gridopt/network"
)

func twoBus() *network.Network {
	return &network.Network{
		Name:    "two-bus",
		BaseMVA: 100,
		Buses: []network.Bus{
			{ID: "A", Slack: true},
			{ID: "B"},
		},
		Generators: []network.Generator{
			{ID: "G1", Bus: "A", PMin: 0, PMax: 100, QMin: -50, QMax: 50,
				Cost: network.CostCurve{C1: 10}, Online: true},
		},
		Branches: []network.Branch{
			{ID: "L1", From: "A", To: "B", X: 0.1},
		},
		Loads: []network.Load{
			{Bus: "B", P: 50, Q: 10},
		},
	}
}

// ------------------------------------------------------------------------
// 1. Validation
// ------------------------------------------------------------------------

func TestValidate_OK(t *testing.T) {
	require.NoError(t, twoBus().Validate())
}

func TestValidate_BadBase(t *testing.T) {
	for _, base := range []float64{0, -100} {
		net := twoBus()
		net.BaseMVA = base
		require.ErrorIs(t, net.Validate(), network.ErrBadBaseMVA)
	}
}

func TestValidate_NoBuses(t *testing.T) {
	net := &network.Network{BaseMVA: 100}
	require.ErrorIs(t, net.Validate(), network.ErrNoBuses)
}

func TestValidate_DuplicateBus(t *testing.T) {
	net := twoBus()
	net.Buses = append(net.Buses, network.Bus{ID: "A"})
	require.ErrorIs(t, net.Validate(), network.ErrDuplicateBus)
}

func TestValidate_UnknownReferences(t *testing.T) {
	gen := twoBus()
	gen.Generators[0].Bus = "Z"
	require.ErrorIs(t, gen.Validate(), network.ErrUnknownBus)

	br := twoBus()
	br.Branches[0].To = "Z"
	require.ErrorIs(t, br.Validate(), network.ErrUnknownBus)

	ld := twoBus()
	ld.Loads[0].Bus = "Z"
	require.ErrorIs(t, ld.Validate(), network.ErrUnknownBus)
}

func TestValidate_VoltageBand(t *testing.T) {
	net := twoBus()
	net.Buses[1].VMin, net.Buses[1].VMax = 1.1, 0.9 // inverted
	require.ErrorIs(t, net.Validate(), network.ErrBadVoltageBand)
}

func TestVoltageBand_Default(t *testing.T) {
	lo, hi := network.Bus{ID: "A"}.VoltageBand()
	require.Equal(t, 0.94, lo)
	require.Equal(t, 1.06, hi)

	lo, hi = network.Bus{ID: "A", VMin: 0.9, VMax: 1.1}.VoltageBand()
	require.Equal(t, 0.9, lo)
	require.Equal(t, 1.1, hi)
}

// ------------------------------------------------------------------------
// 2. Cost curves
// ------------------------------------------------------------------------

func TestCostCurve_Polynomial(t *testing.T) {
	c0, c1, c2 := network.CostCurve{C0: 5, C1: 10, C2: 0.1}.Polynomial()
	require.Equal(t, 5.0, c0)
	require.Equal(t, 10.0, c1)
	require.Equal(t, 0.1, c2)
}

func TestCostCurve_PiecewiseCollapse(t *testing.T) {
	// Breakpoints (0, 0) → (50, 500) → (100, 1500). The MW midpoint is 50,
	// landing on the first segment boundary; its slope is 10 $/MWh.
	curve := network.CostCurve{Points: []network.CostPoint{
		{MW: 0, Cost: 0},
		{MW: 50, Cost: 500},
		{MW: 100, Cost: 1500},
	}}
	c0, c1, c2 := curve.Polynomial()
	require.Equal(t, 0.0, c0)
	require.Equal(t, 10.0, c1)
	require.Equal(t, 0.0, c2)
}

func TestCostCurve_EvaluateMarginal(t *testing.T) {
	curve := network.CostCurve{C0: 5, C1: 10, C2: 0.1}
	require.InDelta(t, 5+10*20+0.1*400, curve.Evaluate(20), 1e-12)
	require.InDelta(t, 10+2*0.1*20, curve.Marginal(20), 1e-12)
}

// ------------------------------------------------------------------------
// 3. Helpers
// ------------------------------------------------------------------------

func TestBusIndexAndRef(t *testing.T) {
	net := twoBus()
	idx := net.BusIndex()
	require.Equal(t, map[string]int{"A": 0, "B": 1}, idx)
	require.Equal(t, 0, net.RefBus())

	// No slack flag: bus 0 is the reference by convention.
	net.Buses[0].Slack = false
	require.Equal(t, 0, net.RefBus())

	net.Buses[1].Slack = true
	require.Equal(t, 1, net.RefBus())
}

func TestOnlineGenerators(t *testing.T) {
	net := twoBus()
	net.Generators = append(net.Generators, network.Generator{ID: "G2", Bus: "B", Online: false})
	gens := net.OnlineGenerators()
	require.Len(t, gens, 1)
	require.Equal(t, "G1", gens[0].ID)
}

func TestLoadAt_Aggregates(t *testing.T) {
	net := twoBus()
	net.Loads = append(net.Loads, network.Load{Bus: "B", P: 20, Q: 5})
	p, q := net.LoadAt("B")
	require.Equal(t, 70.0, p)
	require.Equal(t, 15.0, q)

	p, q = net.LoadAt("A")
	require.Zero(t, p)
	require.Zero(t, q)
}

func TestErrorsWrapSentinels(t *testing.T) {
	net := twoBus()
	net.Buses = append(net.Buses, network.Bus{ID: "A"})
	err := net.Validate()
	require.Error(t, err)
	require.True(t, errors.Is(err, network.ErrDuplicateBus))
	require.Contains(t, err.Error(), `"A"`)
}
