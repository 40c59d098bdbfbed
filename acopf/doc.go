// Package acopf formulates the full nonlinear AC Optimal Power Flow problem
// and assembles its analytic first and second derivatives.
//
// Variable layout (fixed at Build, never changed afterwards):
//
//	x = [ V (n_bus) | θ (n_bus) | Pg (n_gen) | Qg (n_gen) ]
//	n_var = 2·n_bus + 2·n_gen
//
// Equality constraints, in fixed order (length 2·n_bus + 1):
//
//	g[k]         = P_inj(k) − P_gen(k) + P_load(k)   k = 0..n_bus-1
//	g[n_bus+k]   = Q_inj(k) − Q_gen(k) + Q_load(k)   k = 0..n_bus-1
//	g[2·n_bus]   = θ_ref
//
// Objective: Σ_g c0 + c1·P_MW + c2·P_MW², evaluated in physical MW units;
// the gradient and Hessian carry the per-unit chain-rule factors (base_MVA
// and base_MVA² respectively).
//
// The Lagrangian Hessian is exposed through a pattern/values split so a
// second-order backend queries structure once and values every iteration.
// The pattern is the lower triangle only, partitioned into four blocks in
// this order: V×V, θ×V, θ×θ, Pg-diagonal; its size is
// n_bus·(n_bus+1) + n_bus² + n_gen.
//
// The V×V, θ×V and θ×θ blocks are assembled by dense bus-pair iteration:
// every entry sums the contribution of every bus's P- and Q-balance
// equations weighted by the supplied multipliers. Entries whose buses are
// electrically unconnected evaluate to zero through the same closed forms.
//
// Multiplier layout expected by HessianValues and Solution:
//
//	λ = [ λ_P (n_bus) | λ_Q (n_bus) | λ_ref (1) ]
//
// All derivative code derives from the same power-flow identities evaluated
// by package powerflow; see the closed-form second partials in hessian.go.
package acopf
