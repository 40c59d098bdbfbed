// Package acopf_test validates the nonlinear problem construction: variable
// layout, bounds, objective calculus, power-balance wiring and warm starts.
// The derivative machinery has its own finite-difference tests in
// jacobian_test.go and hessian_test.go.
package acopf_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/voltkit/gridopt/acopf"
	"github.com/voltkit/gridopt/network"
	"github.com/voltkit/gridopt/powerflow"
	"github.com/voltkit/gridopt/solver"
)

// threeBus is a meshed system with losses, charging, a shunt and two
// generators with different cost shapes.
func threeBus() *network.Network {
	return &network.Network{
		Name:    "three-bus",
		BaseMVA: 100,
		Buses: []network.Bus{
			{ID: "A", Slack: true},
			{ID: "B", VMin: 0.95, VMax: 1.05, ShuntB: 0.2},
			{ID: "C"},
		},
		Generators: []network.Generator{
			{ID: "G1", Bus: "A", PMin: 0, PMax: 100, QMin: -50, QMax: 50,
				Cost: network.CostCurve{C0: 5, C1: 10, C2: 0.01}, Online: true},
			{ID: "G2", Bus: "B", PMin: 10, PMax: 80, QMin: -30, QMax: 30,
				Cost: network.CostCurve{C1: 12}, Online: true},
		},
		Branches: []network.Branch{
			{ID: "AB", From: "A", To: "B", R: 0.02, X: 0.1, Charging: 0.04},
			{ID: "BC", From: "B", To: "C", X: 0.05},
			{ID: "CA", From: "C", To: "A", R: 0.01, X: 0.08},
		},
		Loads: []network.Load{
			{Bus: "B", P: 20, Q: 5},
			{Bus: "C", P: 60, Q: 15},
		},
	}
}

func TestBuild_Dimensions(t *testing.T) {
	p, err := acopf.Build(threeBus())
	require.NoError(t, err)

	require.Equal(t, 3, p.NBus)
	require.Equal(t, 2, p.NGen)
	require.Equal(t, 2*3+2*2, p.NVar)
	require.Equal(t, p.NVar, p.NumVars())
	require.Equal(t, 2*3+1, p.NumEqualities())

	// The offsets partition [V | θ | Pg | Qg].
	require.Equal(t, 0, p.OffV)
	require.Equal(t, 3, p.OffTheta)
	require.Equal(t, 6, p.OffPg)
	require.Equal(t, 8, p.OffQg)
	require.Equal(t, solver.NonlinearProgram, p.Class())
}

func TestBuild_NoGenerators(t *testing.T) {
	net := threeBus()
	net.Generators = nil

	_, err := acopf.Build(net)
	var dv *solver.DataValidationError
	require.ErrorAs(t, err, &dv)
	require.Contains(t, dv.Reason, "no generators")
}

func TestBuild_InvalidNetwork(t *testing.T) {
	net := threeBus()
	net.BaseMVA = 0

	_, err := acopf.Build(net)
	var dv *solver.DataValidationError
	require.ErrorAs(t, err, &dv)
}

func TestInitialPoint_FlatStart(t *testing.T) {
	p, err := acopf.Build(threeBus())
	require.NoError(t, err)

	x := p.InitialPoint()
	require.Len(t, x, p.NVar)
	for i := 0; i < p.NBus; i++ {
		require.Equal(t, 1.0, x[p.OffV+i])
		require.Equal(t, 0.0, x[p.OffTheta+i])
	}
	// Generators start at range midpoints, in per-unit.
	require.InDelta(t, 0.50, x[p.OffPg+0], 1e-12)
	require.InDelta(t, 0.45, x[p.OffPg+1], 1e-12)
	require.InDelta(t, 0.0, x[p.OffQg+0], 1e-12)
	require.InDelta(t, 0.0, x[p.OffQg+1], 1e-12)
}

func TestBounds(t *testing.T) {
	p, err := acopf.Build(threeBus())
	require.NoError(t, err)

	lo, hi := p.Bounds()
	// Bus A: default band; bus B: explicit band.
	require.InDelta(t, 0.94, lo[p.OffV+0], 1e-12)
	require.InDelta(t, 1.06, hi[p.OffV+0], 1e-12)
	require.InDelta(t, 0.95, lo[p.OffV+1], 1e-12)
	require.InDelta(t, 1.05, hi[p.OffV+1], 1e-12)

	for i := 0; i < p.NBus; i++ {
		require.InDelta(t, -math.Pi/2, lo[p.OffTheta+i], 1e-12)
		require.InDelta(t, math.Pi/2, hi[p.OffTheta+i], 1e-12)
	}

	require.InDelta(t, 0.0, lo[p.OffPg+0], 1e-12)
	require.InDelta(t, 1.0, hi[p.OffPg+0], 1e-12)
	require.InDelta(t, 0.1, lo[p.OffPg+1], 1e-12)
	require.InDelta(t, 0.8, hi[p.OffPg+1], 1e-12)
	require.InDelta(t, -0.5, lo[p.OffQg+0], 1e-12)
	require.InDelta(t, 0.3, hi[p.OffQg+1], 1e-12)
}

func TestObjectiveAndGradient(t *testing.T) {
	p, err := acopf.Build(threeBus())
	require.NoError(t, err)

	x := p.InitialPoint() // Pg = 50 MW and 45 MW
	want := 5 + 10*50 + 0.01*50*50 + 12*45
	require.InDelta(t, want, p.Objective(x), 1e-9)

	grad := make([]float64, p.NVar)
	p.Gradient(x, grad)
	// d(cost)/d(Pg_pu) = (c1 + 2·c2·P_MW)·base.
	require.InDelta(t, (10+2*0.01*50)*100, grad[p.OffPg+0], 1e-9)
	require.InDelta(t, 12*100, grad[p.OffPg+1], 1e-9)
	for i := 0; i < p.OffPg; i++ {
		require.Zero(t, grad[i])
	}
	require.Zero(t, grad[p.OffQg+0])
	require.Zero(t, grad[p.OffQg+1])
}

func TestEqualities_BalanceWiring(t *testing.T) {
	p, err := acopf.Build(threeBus())
	require.NoError(t, err)

	// Arbitrary off-flat operating point.
	x := p.InitialPoint()
	x[p.OffV+0], x[p.OffV+1], x[p.OffV+2] = 1.02, 0.97, 1.0
	x[p.OffTheta+1], x[p.OffTheta+2] = -0.1, 0.06
	x[p.OffQg+0], x[p.OffQg+1] = 0.12, -0.05

	out := make([]float64, p.NumEqualities())
	p.Equalities(x, out)

	v := x[p.OffV : p.OffV+p.NBus]
	th := x[p.OffTheta : p.OffTheta+p.NBus]
	pinj, qinj := powerflow.Injections(p.Y, v, th)

	// Loads in per-unit on the 100 MVA base; generators at their buses.
	pload := []float64{0, 0.20, 0.60}
	qload := []float64{0, 0.05, 0.15}
	pg := []float64{x[p.OffPg+0], x[p.OffPg+1], 0}
	qg := []float64{x[p.OffQg+0], x[p.OffQg+1], 0}

	for k := 0; k < p.NBus; k++ {
		require.InDelta(t, pinj[k]+pload[k]-pg[k], out[k], 1e-12, "P row %d", k)
		require.InDelta(t, qinj[k]+qload[k]-qg[k], out[p.NBus+k], 1e-12, "Q row %d", k)
	}
	// Reference pin is the last row.
	require.InDelta(t, th[0], out[2*p.NBus], 1e-12)
}

func TestApplyWarmStart(t *testing.T) {
	p, err := acopf.Build(threeBus())
	require.NoError(t, err)

	x := p.InitialPoint()
	p.ApplyWarmStart(solver.WarmStart{
		"Vm:B":    1.03,
		"Va:C":    -0.07,
		"Pg:G2":   62,  // MW → 0.62 pu
		"Qg:G1":   -25, // MVAr → −0.25 pu
		"Vm:none": 2.0, // unknown keys are ignored
	}, x)

	require.InDelta(t, 1.03, x[p.OffV+1], 1e-12)
	require.InDelta(t, -0.07, x[p.OffTheta+2], 1e-12)
	require.InDelta(t, 0.62, x[p.OffPg+1], 1e-12)
	require.InDelta(t, -0.25, x[p.OffQg+0], 1e-12)
	// Untouched entries keep the flat start.
	require.InDelta(t, 1.0, x[p.OffV+0], 1e-12)
	require.InDelta(t, 0.50, x[p.OffPg+0], 1e-12)
}

func TestSolution_Mapping(t *testing.T) {
	p, err := acopf.Build(threeBus())
	require.NoError(t, err)

	x := p.InitialPoint()
	lambda := make([]float64, p.NumEqualities())
	lambda[0], lambda[1], lambda[2] = 1100, 1150, 1200

	sol := p.Solution(x, lambda)
	require.InDelta(t, p.Objective(x), sol.Objective, 1e-9)
	require.InDelta(t, 1.0, sol.BusVoltage["A"], 1e-12)
	require.InDelta(t, 50.0, sol.GenP["G1"], 1e-9)
	require.InDelta(t, 45.0, sol.GenP["G2"], 1e-9)
	// λ is $/hr per pu; LMP is $/MWh.
	require.InDelta(t, 11.0, sol.BusLMP["A"], 1e-12)
	require.InDelta(t, 11.5, sol.BusLMP["B"], 1e-12)
	require.InDelta(t, 12.0, sol.BusLMP["C"], 1e-12)
	require.Len(t, sol.BranchFlow, 3)

	// Nil duals zero-fill the price map.
	sol = p.Solution(x, nil)
	require.Zero(t, sol.BusLMP["A"])
}
