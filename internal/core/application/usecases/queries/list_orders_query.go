package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists the newest orders visible to the caller, optionally
// narrowed to one status.
type ListOrdersQuery struct {
	actor  actor.Actor
	status order.Status
	limit  int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery accepts order.Unknown as "any status" and a zero limit
// as DefaultListLimit.
func NewListOrdersQuery(act actor.Actor, status order.Status, limit int) (ListOrdersQuery, error) {
	if status != order.Unknown {
		if err := status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}

	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 0 || limit > MaxListLimit {
		return ListOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}

	return ListOrdersQuery{
		actor:  act,
		status: status,
		limit:  limit,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Actor() actor.Actor {
	return q.actor
}

func (q ListOrdersQuery) Status() order.Status {
	return q.status
}

func (q ListOrdersQuery) Limit() int {
	return q.limit
}

// OrderSummary is the list row of an order.
type OrderSummary struct {
	ID               kernel.UUID
	Number           order.Number
	Status           order.Status
	ShopkeeperID     kernel.UUID
	CompanyID        kernel.UUID
	DeliveryWorkerID *kernel.UUID
	Area             string
	FinalAmount      kernel.Money
	CreatedAt        time.Time
}
