// Package powerflow provides the AC power-flow identities as pure, stateless
// functions over voltage magnitude/angle vectors and an admittance model:
//
//	P_i = Σ_j V_i·V_j·(G_ij·cos θ_ij + B_ij·sin θ_ij)
//	Q_i = Σ_j V_i·V_j·(G_ij·sin θ_ij − B_ij·cos θ_ij)
//
// with θ_ij = θ_i − θ_j. These are the single source of truth for the
// physics: the constraint evaluator and the analytic derivative assembly in
// package acopf both build on the same identities, so value and derivative
// code cannot drift apart.
//
// All quantities are per-unit. Functions never mutate their inputs and are
// safe for concurrent use.
package powerflow
