// Package network defines the immutable input data model for power-system
// optimization: buses, generators, branches and loads, together with the
// per-unit system base and structural validation.
//
// Conventions:
//
//   - Electrical quantities on Generator and Load are in physical units
//     (MW, MVAr); impedances and shunts on Branch/Bus are in per-unit on
//     Network.BaseMVA. Formulations convert to per-unit internally.
//   - Bus order in Network.Buses is the canonical traversal order; every
//     consumer that assigns indices does so in this order.
//   - The reference (slack) bus is the first bus with Slack=true, falling
//     back to the first bus when none is flagged.
//
// Errors (sentinel):
//
//   - ErrNoBuses        — the network has no buses.
//   - ErrBadBaseMVA     — BaseMVA is zero, negative or non-finite.
//   - ErrDuplicateBus   — two buses share an ID.
//   - ErrUnknownBus     — a generator, branch or load references a bus ID
//     that is not present in Buses.
//   - ErrBadVoltageBand — a bus has VMin > VMax or non-positive limits.
//
// A Network value is treated as read-only once constructed; nothing in this
// module mutates it after Validate.
package network
