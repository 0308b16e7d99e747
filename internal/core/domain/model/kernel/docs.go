// Package kernel holds the value objects shared by every aggregate of the
// dispatch engine:
//   - UUID: identifiers of orders, bids, assignments and trip evidence
//   - GeoPoint: a WGS84 coordinate attached to trip reports
//   - Money: a non-negative decimal amount for pass-through prices
//
// Values are immutable and validated on construction.
package kernel
