// Package kernel provides the value objects shared by every aggregate of the
// lifecycle engine:
//   - UUID: identifiers with a detectable zero value
//   - Money: non-negative decimal amounts with two-digit rounding
//   - AreaMatches: the case-insensitive delivery area comparison used when
//     resolving delivery workers
//
// Values are immutable and safe for concurrent use.
package kernel
