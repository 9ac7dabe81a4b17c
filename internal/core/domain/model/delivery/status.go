package delivery

import (
	"fmt"
	"strings"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of a delivery.
//
//	Assigned ──> PickedUp ──┬──> InTransit ──┬──> Delivered
//	   ^                    ├────────────────┤
//	   │                    └──> Failed <────┘
//	   ├──────────────────────────┘
//	   └── Returned
//
// Delivered is terminal. Failed and Returned only lead back to Assigned.
type Status int

const (
	Unknown Status = iota
	Assigned
	PickedUp
	InTransit
	Delivered
	Failed
	Returned
)

var statusNames = map[Status]string{
	Assigned:  "assigned",
	PickedUp:  "picked_up",
	InTransit: "in_transit",
	Delivered: "delivered",
	Failed:    "failed",
	Returned:  "returned",
}

var transitions = map[Status][]Status{
	Assigned:  {PickedUp},
	PickedUp:  {InTransit, Delivered, Failed},
	InTransit: {Delivered, Failed},
	Failed:    {Assigned},
	Returned:  {Assigned},
}

func AllStatuses() []Status {
	return []Status{Assigned, PickedUp, InTransit, Delivered, Failed, Returned}
}

func ParseStatus(s string) (Status, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for status, n := range statusNames {
		if n == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid delivery status", s))
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

// IsActive reports whether the delivery still occupies its worker.
func (s Status) IsActive() bool {
	return s == Assigned || s == PickedUp || s == InTransit
}

// IsReassignable reports whether the delivery may be handed to a worker again.
func (s Status) IsReassignable() bool {
	return s == Failed || s == Returned
}

func (s Status) CanTransitionTo(target Status) bool {
	for _, next := range transitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func (s Status) TransitionTo(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return Unknown, err
	}
	if !s.CanTransitionTo(target) {
		return Unknown, errs.NewInvalidTransitionError("delivery", s, target)
	}
	return target, nil
}
