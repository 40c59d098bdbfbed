// Package socp formulates the second-order-conic (Jabr) relaxation of
// AC-OPF, the warm-start source of kind Socp.
//
// The nonconvex voltage products are replaced by per-branch lifted
// variables:
//
//	u_i   ≈ V_i²
//	c_br  ≈ V_f·V_t·cos(θ_f − θ_t)
//	s_br  ≈ V_f·V_t·sin(θ_f − θ_t)
//
// so every power-balance equation becomes linear:
//
//	P_ft =  g·u_f − g·c − b·s
//	Q_ft = −(b + bc/2)·u_f + b·c − g·s
//
// with the To-end expressions mirrored through the sign of s. Exactness is
// relaxed to the rotated cone c² + s² ≤ u_f·u_t, exposed through the
// ConeConstrained capability as h(x) = u_f·u_t − c² − s² ≥ 0.
//
// Variable layout: x = [ u (n_bus) | c (n_br) | s (n_br) | Pg | Qg ].
// Taps and shifts are dropped from the relaxation; a warm start does not
// need them.
//
// Angle recovery for the warm-start map walks the branches breadth-first
// from the reference bus, accumulating θ_f − θ_t = atan2(s, c); buses
// unreachable from the reference keep a zero angle.
package socp
