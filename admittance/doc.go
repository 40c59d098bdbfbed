// Package admittance assembles the complex nodal admittance matrix (Y-bus)
// of a transmission network and exposes per-bus-pair conductance and
// susceptance lookups.
//
// Model:
//
//   - Each branch contributes a 2×2 stamp derived from its series admittance
//     ys = 1/(R + jX), line-charging susceptance and off-nominal tap/shift:
//
//     Y[f,f] += (ys + j·bc/2) / τ²
//     Y[f,t] -= ys / (τ·e^{-jσ})
//     Y[t,f] -= ys / (τ·e^{+jσ})
//     Y[t,t] += ys + j·bc/2
//
//     where τ is the tap ratio (1 when unset) and σ the phase shift.
//   - Bus shunts add G + jB on the diagonal.
//
// The matrix is stored dense (gonum mat.CDense); lookups are O(1). The model
// is immutable after Build and safe for concurrent readers.
//
// Errors (sentinel):
//
//   - ErrZeroImpedance — a branch with R = X = 0 cannot be stamped.
//   - ErrBadTap        — a negative tap ratio.
package admittance
