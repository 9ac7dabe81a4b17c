// Package order holds the Order aggregate: line items with price snapshots,
// totals computed once at placement, the status graph and the append-only
// timeline.
//
// Orders are never deleted. Once rejected, cancelled or delivered they accept
// no further transitions, which is what lets the caller release reserved
// stock exactly once.
package order
