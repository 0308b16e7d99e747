// Package services holds read-side domain services that look across orders
// without mutating them:
//   - MarketplaceBoard: which requirement slots a contractor can still fill
//   - EarningsCalculator: billable units and amounts per contractor or driver
//
// Both are pure functions over Order aggregates and can run on any snapshot.
package services
