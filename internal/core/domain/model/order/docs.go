// Package order implements the Order aggregate of the dispatch engine: one snow
// or asphalt removal job together with everything that happens to it.
//
// The aggregate owns its child entities and is the only way to mutate them:
//   - AssetRequirement: a line of equipment demand, either an open marketplace
//     slot or a direct offer to one contractor
//   - Bid: a contractor's priced offer, pending until approved, rejected or withdrawn
//   - DriverAssignment: one unit of equipment bound to the order with its own
//     assigned → en_route → working → completed lifecycle
//   - TripEvidence: a photo-backed report of one truck trip awaiting confirmation
//   - ActionLogEntry: the append-only audit trail
//
// Every successful mutating method appends exactly one ActionLogEntry. A method
// that returns an error leaves the aggregate untouched, so callers can discard
// the instance without compensating.
//
// Derived values (actual trips, slot fill counts) are computed from the child
// collections on every call and are never stored on the aggregate.
package order
