package order

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──┬──> Approved ──┬──> Processing ──> Shipped ──> Delivered
//	          │               └──────────────────────^
//	          ├──> Rejected
//	          └──> Cancelled <── Approved
//
// Processing and Shipped may additionally be cancelled through an override
// (admin action or an unresolvable delivery issue).
type Status int

const (
	Unknown Status = iota
	Pending
	Approved
	Processing
	Shipped
	Delivered
	Rejected
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "pending",
	Approved:   "approved",
	Processing: "processing",
	Shipped:    "shipped",
	Delivered:  "delivered",
	Rejected:   "rejected",
	Cancelled:  "cancelled",
}

// transitions lists the regular edges of the graph.
var transitions = map[Status][]Status{
	Pending:    {Approved, Rejected, Cancelled},
	Approved:   {Processing, Shipped, Cancelled},
	Processing: {Shipped},
	Shipped:    {Delivered},
}

// overrideTransitions are only taken when the change is marked as an override.
var overrideTransitions = map[Status][]Status{
	Processing: {Cancelled},
	Shipped:    {Cancelled},
}

// AllStatuses returns every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Approved, Processing, Shipped, Delivered, Rejected, Cancelled}
}

// ParseStatus converts the persisted/wire name into a Status.
func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid order status", s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsTerminal reports whether no further transitions leave s.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Rejected || s == Cancelled
}

// IsOpenForDelivery reports whether a delivery may be created for an order in s.
func (s Status) IsOpenForDelivery() bool {
	return s == Approved || s == Processing
}

// CanTransitionTo reports whether target is reachable from s in one step.
func (s Status) CanTransitionTo(target Status, override bool) bool {
	if contains(transitions[s], target) {
		return true
	}
	return override && contains(overrideTransitions[s], target)
}

// TransitionTo returns target when the edge exists, or an InvalidTransition error.
func (s Status) TransitionTo(target Status, override bool) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target, override) {
		return Unknown, errs.NewInvalidTransitionError("order", s, target)
	}
	return target, nil
}

func contains(list []Status, s Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
