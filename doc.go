// Package gridopt solves the AC Optimal Power Flow (AC-OPF) problem for
// electrical transmission networks: given topology, generator cost curves and
// operating limits, find the generator setpoints and bus voltages that
// minimize generation cost subject to the nonlinear AC power-balance physics.
//
// The module is organized as flat, single-concern packages:
//
//	network/        — Bus/Generator/Branch/Load data model and validation
//	admittance/     — complex Y-bus assembly, conductance/susceptance lookups
//	powerflow/      — nodal P/Q injection identities and branch-flow evaluation
//	acopf/          — the nonlinear problem: layout, objective, constraints,
//	                  analytic Jacobian and Lagrangian Hessian
//	dcopf/          — linear DC relaxation (warm-start source, merit-order LMPs)
//	socp/           — second-order-conic (Jabr) relaxation (warm-start source)
//	solver/         — formulation/backend interfaces, registry, dispatcher,
//	                  error taxonomy, SolverConfig and OpfSolution
//	solver/simplex/ — pure-Go LP backend (gonum simplex)
//	solver/penalty/ — pure-Go augmented-Lagrangian fallback backend
//	solver/ipopt/   — native subprocess backend with a columnar binary IPC
//
// The root package wires everything together: DefaultRegistry registers all
// in-tree formulations and backends, and Solve runs the full dispatch chain
// (build → select → solve → warm-start fallback) with sensible defaults.
//
// Quick start:
//
//	sol, err := gridopt.Solve(net)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("cost: $%.2f/hr, LMP at A: %.2f\n", sol.Objective, sol.BusLMP["A"])
package gridopt
