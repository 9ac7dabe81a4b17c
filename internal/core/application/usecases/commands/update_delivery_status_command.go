package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateDeliveryStatusCommandIsNotConstructed = errors.New(
	"UpdateDeliveryStatusCommand must be created via NewUpdateDeliveryStatusCommand constructor",
)

// UpdateDeliveryStatusCommand moves a delivery along its graph. Reason is
// required for failed.
type UpdateDeliveryStatusCommand struct {
	actor      actor.Actor
	deliveryID kernel.UUID
	target     delivery.Status
	reason     string

	guard guard.ConstructorGuard
}

func NewUpdateDeliveryStatusCommand(act actor.Actor, deliveryID kernel.UUID, target delivery.Status, reason string) (UpdateDeliveryStatusCommand, error) {
	if err := errors.Join(deliveryID.Validate(), target.Validate()); err != nil {
		return UpdateDeliveryStatusCommand{}, err
	}

	return UpdateDeliveryStatusCommand{
		actor:      act,
		deliveryID: deliveryID,
		target:     target,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDeliveryStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDeliveryStatusCommandIsNotConstructed)
}

func (c UpdateDeliveryStatusCommand) Actor() actor.Actor {
	return c.actor
}

func (c UpdateDeliveryStatusCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c UpdateDeliveryStatusCommand) Target() delivery.Status {
	return c.target
}

func (c UpdateDeliveryStatusCommand) Reason() string {
	return c.reason
}
