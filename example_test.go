package gridopt_test

import (
	"fmt"

	"github.com/voltkit/gridopt"
	"github.com/voltkit/gridopt/network"
)

// ExampleSolveDC dispatches a single generator against a remote load through
// the linear DC relaxation.
func ExampleSolveDC() {
	net := &network.Network{
		Name:    "two-bus",
		BaseMVA: 100,
		Buses:   []network.Bus{{ID: "A", Slack: true}, {ID: "B"}},
		Generators: []network.Generator{
			{ID: "G1", Bus: "A", PMin: 0, PMax: 100,
				Cost: network.CostCurve{C1: 10}, Online: true},
		},
		Branches: []network.Branch{{ID: "L1", From: "A", To: "B", X: 0.1}},
		Loads:    []network.Load{{Bus: "B", P: 50}},
	}

	sol, err := gridopt.SolveDC(net)
	if err != nil {
		fmt.Println("solve failed:", err)
		return
	}

	fmt.Printf("dispatch: %.0f MW\n", sol.GenP["G1"])
	fmt.Printf("cost:     $%.0f/hr\n", sol.Objective)
	fmt.Printf("price:    $%.0f/MWh at B\n", sol.BusLMP["B"])
	// Output:
	// dispatch: 50 MW
	// cost:     $500/hr
	// price:    $10/MWh at B
}
