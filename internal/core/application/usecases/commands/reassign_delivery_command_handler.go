package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
)

type ReassignDeliveryCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewReassignDeliveryCommandHandler(uowFactory UoWFactory, clock Clock) ReassignDeliveryCommandHandler {
	return ReassignDeliveryCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrNow(clock),
	}
}

func (h ReassignDeliveryCommandHandler) Handle(ctx context.Context, cmd ReassignDeliveryCommand) (DeliveryChange, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryChange{}, err
	}

	act := cmd.Actor()
	if err := act.Authorize(actor.ReassignDelivery); err != nil {
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

	if err = reassign(ctx, uow, d, cmd.WorkerID(), h.clock()); err != nil {
		return DeliveryChange{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryChange{}, err
	}

	return DeliveryChange{Delivery: d, StatusChanged: true}, nil
}

// reassign moves d back to assigned under workerID and records the worker on
// the order.
func reassign(ctx context.Context, uow UoW, d *delivery.Delivery, workerID kernel.UUID, at time.Time) error {
	w, err := uow.WorkerDirectory().Get(ctx, workerID)
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, d.OrderID())
	if err != nil {
		return err
	}

	if err = d.Reassign(w, o.Status(), at); err != nil {
		return err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return err
	}

	return NewOrderUpdater(uow).ReplaceDeliveryWorker(ctx, d.OrderID(), w.ID())
}
