package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand creates the delivery for an order. Without a worker
// ID the best eligible worker for the order's area is chosen.
type AssignDeliveryCommand struct {
	deliveryID     kernel.UUID
	actor          actor.Actor
	orderID        kernel.UUID
	workerID       *kernel.UUID
	pickupLocation string
	routeSummary   string

	guard guard.ConstructorGuard
}

func NewAssignDeliveryCommand(
	deliveryID kernel.UUID,
	act actor.Actor,
	orderID kernel.UUID,
	workerID *kernel.UUID,
	pickupLocation, routeSummary string,
) (AssignDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), orderID.Validate()); err != nil {
		return AssignDeliveryCommand{}, err
	}
	if workerID != nil {
		if err := workerID.Validate(); err != nil {
			return AssignDeliveryCommand{}, err
		}
	}

	return AssignDeliveryCommand{
		deliveryID:     deliveryID,
		actor:          act,
		orderID:        orderID,
		workerID:       workerID,
		pickupLocation: pickupLocation,
		routeSummary:   routeSummary,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

func (c AssignDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c AssignDeliveryCommand) Actor() actor.Actor {
	return c.actor
}

func (c AssignDeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

// WorkerID is nil when the caller wants automatic selection.
func (c AssignDeliveryCommand) WorkerID() *kernel.UUID {
	return c.workerID
}

func (c AssignDeliveryCommand) PickupLocation() string {
	return c.pickupLocation
}

func (c AssignDeliveryCommand) RouteSummary() string {
	return c.routeSummary
}
