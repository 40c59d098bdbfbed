// Package dcopf formulates the DC linear relaxation of AC-OPF, used as a
// cheap dispatch approximation and as the warm-start source of kind Dc.
//
// Model (lossless, unit voltage profile):
//
//   - Variables x = [ θ (n_bus) | Pg (n_gen) ], per-unit.
//   - Per-bus balance  Σ_{g@i} Pg − Σ_j b_ij·(θ_i − θ_j) = Pd_i with
//     b_ij = 1/X per branch (taps and shifts drop out of the relaxation).
//   - Reference pin θ_ref = 0 as an extra equality row.
//   - Box Pg ∈ [Pmin, Pmax] as general-form inequalities; θ is free.
//   - Linear cost: each generator priced at its midpoint marginal cost, so
//     quadratic units keep a meaningful merit-order position.
//
// The problem satisfies solver.LinearProblem and is served by the simplex
// backend. LMPs are recovered by the merit-order rule: the marginal cost of
// the most expensive generator dispatched strictly inside its limits,
// uniform across buses (the lossless relaxation carries no congestion
// differentiation).
package dcopf
