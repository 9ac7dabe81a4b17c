// Package errs provides the typed errors shared by the lifecycle engine.
// Every error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields describing the failure
//   - Constructor functions with and without cause where a cause makes sense
//   - Error() for formatting and Unwrap() returning the sentinel
//
// The sentinels are the error kinds surfaced to callers:
//   - ErrObjectNotFound: missing product, order, delivery, worker or account
//   - ErrUnavailable: product, company or worker exists but is inactive
//   - ErrInsufficientStock: a reservation asks for more than the stock on hand
//   - ErrInvalidTransition: a status change outside the transition graph
//   - ErrConflict: a second delivery for the same order
//   - ErrNotReady: an order not yet eligible for a delivery operation
//   - ErrValueIsRequired, ErrValueIsInvalid, ErrValueIsOutOfRange: malformed input
//   - ErrForbidden: role or ownership checks failed
package errs
