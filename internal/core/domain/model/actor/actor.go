// Package actor describes who is calling the lifecycle engine and what that
// caller may do. Identity and role arrive already verified; this package only
// decides permissions and ownership.
package actor

import (
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

type Role string

const (
	Shopkeeper     Role = "shopkeeper"
	Company        Role = "company"
	DeliveryWorker Role = "delivery_worker"
	Admin          Role = "admin"
)

// ParseRole accepts the role names used by the auth collaborator.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case Shopkeeper, Company, DeliveryWorker, Admin:
		return r, nil
	case "company_rep":
		return Company, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Actor is the authenticated caller.
type Actor struct {
	id     kernel.UUID
	role   Role
	active bool
}

func New(id kernel.UUID, role Role, active bool) (Actor, error) {
	if err := id.Validate(); err != nil {
		return Actor{}, err
	}
	if _, err := ParseRole(string(role)); err != nil {
		return Actor{}, err
	}
	return Actor{id: id, role: role, active: active}, nil
}

func (a Actor) ID() kernel.UUID {
	return a.id
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsActive() bool {
	return a.active
}

func (a Actor) IsAdmin() bool {
	return a.role == Admin
}

// Authorize checks the permission table once for the requested action.
func (a Actor) Authorize(action Action) error {
	if !a.active {
		return errs.NewForbiddenError(string(action), "account is not active")
	}
	if !allowed(a.role, action) {
		return errs.NewForbiddenError(string(action), fmt.Sprintf("role %s may not do this", a.role))
	}
	return nil
}

// CheckOrderOwnership verifies that the order concerns the actor. Admins see
// every order.
func (a Actor) CheckOrderOwnership(o *order.Order) error {
	switch a.role {
	case Admin:
		return nil
	case Company:
		if o.CompanyID().IsEqual(a.id) {
			return nil
		}
	case Shopkeeper:
		if o.ShopkeeperID().IsEqual(a.id) {
			return nil
		}
	case DeliveryWorker:
		if w := o.DeliveryWorkerID(); w != nil && w.IsEqual(a.id) {
			return nil
		}
	}
	return errs.NewForbiddenError("access order "+o.Number().String(), "order belongs to another account")
}

// CheckDeliveryOwnership verifies that the delivery concerns the actor.
func (a Actor) CheckDeliveryOwnership(d *delivery.Delivery) error {
	switch a.role {
	case Admin:
		return nil
	case Company:
		if d.CompanyID().IsEqual(a.id) {
			return nil
		}
	case Shopkeeper:
		if d.ShopkeeperID().IsEqual(a.id) {
			return nil
		}
	case DeliveryWorker:
		if d.IsAssignedTo(a.id) {
			return nil
		}
	}
	return errs.NewForbiddenError("access delivery "+d.Number().String(), "delivery belongs to another account")
}
