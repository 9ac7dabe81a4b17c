package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrChangeOrderStatusCommandIsNotConstructed = errors.New(
	"ChangeOrderStatusCommand must be created via NewChangeOrderStatusCommand or NewCancelOrderCommand constructor",
)

// ChangeOrderStatusCommand moves an order to target. Admin callers may take
// the override edges.
type ChangeOrderStatusCommand struct {
	actor   actor.Actor
	orderID kernel.UUID
	target  order.Status
	reason  string

	guard guard.ConstructorGuard
}

func NewChangeOrderStatusCommand(act actor.Actor, orderID kernel.UUID, target order.Status, reason string) (ChangeOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), target.Validate()); err != nil {
		return ChangeOrderStatusCommand{}, err
	}

	return ChangeOrderStatusCommand{
		actor:   act,
		orderID: orderID,
		target:  target,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// NewCancelOrderCommand is the shopkeeper's cancellation of a pending or
// approved order.
func NewCancelOrderCommand(act actor.Actor, orderID kernel.UUID, reason string) (ChangeOrderStatusCommand, error) {
	return NewChangeOrderStatusCommand(act, orderID, order.Cancelled, reason)
}

func (c ChangeOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeOrderStatusCommandIsNotConstructed)
}

func (c ChangeOrderStatusCommand) Actor() actor.Actor {
	return c.actor
}

func (c ChangeOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c ChangeOrderStatusCommand) Target() order.Status {
	return c.target
}

func (c ChangeOrderStatusCommand) Reason() string {
	return c.reason
}
