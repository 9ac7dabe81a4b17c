// Package delivery holds the Delivery aggregate: the physical fulfilment of
// an approved order by one delivery worker, with its status graph, reported
// issues and proof of delivery.
//
// At most one delivery exists per order. Mutations return an Outcome
// describing what the owning order must do; applying it is the caller's job.
package delivery
