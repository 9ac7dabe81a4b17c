package commands

import (
	"context"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
)

// UpdateDeliveryStatusCommandHandler applies a delivery transition and marks
// the order delivered when the goods arrive. Moving a failed or returned
// delivery back to assigned keeps its current worker.
type UpdateDeliveryStatusCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewUpdateDeliveryStatusCommandHandler(uowFactory UoWFactory, clock Clock) UpdateDeliveryStatusCommandHandler {
	return UpdateDeliveryStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrNow(clock),
	}
}

func (h UpdateDeliveryStatusCommandHandler) Handle(ctx context.Context, cmd UpdateDeliveryStatusCommand) (DeliveryChange, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryChange{}, err
	}

	act := cmd.Actor()
	if err := act.Authorize(actor.DeliveryTransition(cmd.Target())); err != nil {
		return DeliveryChange{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DeliveryChange{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := loadOwnedDelivery(ctx, uow, cmd.DeliveryID(), act.CheckDeliveryOwnership)
	if err != nil {
		return DeliveryChange{}, err
	}

	now := h.clock()
	var outcome delivery.Outcome

	if cmd.Target() == delivery.Assigned {
		if err = reassign(ctx, uow, d, d.WorkerID(), now); err != nil {
			return DeliveryChange{}, err
		}
	} else {
		if outcome, err = d.TransitionTo(cmd.Target(), cmd.Reason(), now); err != nil {
			return DeliveryChange{}, err
		}
		if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
			return DeliveryChange{}, err
		}
	}

	cancelled, err := applyOutcome(ctx, NewOrderUpdater(uow), d, act.ID(), outcome)
	if err != nil {
		return DeliveryChange{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryChange{}, err
	}

	return DeliveryChange{Delivery: d, StatusChanged: true, CancelledOrder: cancelled}, nil
}
