package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrReassignDeliveryCommandIsNotConstructed = errors.New(
	"ReassignDeliveryCommand must be created via NewReassignDeliveryCommand constructor",
)

// ReassignDeliveryCommand hands a failed or returned delivery to a worker.
type ReassignDeliveryCommand struct {
	actor      actor.Actor
	deliveryID kernel.UUID
	workerID   kernel.UUID

	guard guard.ConstructorGuard
}

func NewReassignDeliveryCommand(act actor.Actor, deliveryID, workerID kernel.UUID) (ReassignDeliveryCommand, error) {
	if err := errors.Join(deliveryID.Validate(), workerID.Validate()); err != nil {
		return ReassignDeliveryCommand{}, err
	}

	return ReassignDeliveryCommand{
		actor:      act,
		deliveryID: deliveryID,
		workerID:   workerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ReassignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrReassignDeliveryCommandIsNotConstructed)
}

func (c ReassignDeliveryCommand) Actor() actor.Actor {
	return c.actor
}

func (c ReassignDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c ReassignDeliveryCommand) WorkerID() kernel.UUID {
	return c.workerID
}
