// Package services holds domain logic that spans several aggregates.
//
// AssignmentResolver matches delivery workers to a delivery area and ranks
// them by availability.
package services
