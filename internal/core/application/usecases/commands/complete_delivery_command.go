package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrCompleteDeliveryCommandIsNotConstructed = errors.New(
	"CompleteDeliveryCommand must be created via NewCompleteDeliveryCommand constructor",
)

type CompleteDeliveryCommand struct {
	actor      actor.Actor
	deliveryID kernel.UUID
	proof      delivery.Proof

	guard guard.ConstructorGuard
}

func NewCompleteDeliveryCommand(act actor.Actor, deliveryID kernel.UUID, proof delivery.Proof) (CompleteDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return CompleteDeliveryCommand{}, err
	}

	return CompleteDeliveryCommand{
		actor:      act,
		deliveryID: deliveryID,
		proof:      proof,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CompleteDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCompleteDeliveryCommandIsNotConstructed)
}

func (c CompleteDeliveryCommand) Actor() actor.Actor {
	return c.actor
}

func (c CompleteDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c CompleteDeliveryCommand) Proof() delivery.Proof {
	return c.proof
}
