package commands

import (
	"context"

	"marketplace/internal/core/domain/model/actor"
)

// CompleteDeliveryCommandHandler records the proof of delivery and closes
// both the delivery and its order.
type CompleteDeliveryCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewCompleteDeliveryCommandHandler(uowFactory UoWFactory, clock Clock) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrNow(clock),
	}
}

func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) (DeliveryChange, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryChange{}, err
	}

	act := cmd.Actor()
	if err := act.Authorize(actor.CompleteDelivery); err != nil {
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

	outcome, err := d.Complete(cmd.Proof(), h.clock())
	if err != nil {
		return DeliveryChange{}, err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return DeliveryChange{}, err
	}

	if _, err = applyOutcome(ctx, NewOrderUpdater(uow), d, act.ID(), outcome); err != nil {
		return DeliveryChange{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryChange{}, err
	}

	return DeliveryChange{Delivery: d, StatusChanged: true}, nil
}
