package commands

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

// OrderStatusChange is the result of a status change.
type OrderStatusChange struct {
	Order *order.Order
	// QueuedReleases counts lines whose stock could not be returned in the
	// same transaction and now wait in the release queue.
	QueuedReleases int
	// WithdrawnDelivery is set when cancelling the order failed its active
	// delivery.
	WithdrawnDelivery *delivery.Delivery
}

// ChangeOrderStatusCommandHandler applies an order transition and returns
// the reserved stock when the order ends rejected or cancelled. Cancelling a
// shipped order also fails its delivery so the goods are not picked up.
type ChangeOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewChangeOrderStatusCommandHandler(uowFactory UoWFactory, clock Clock) ChangeOrderStatusCommandHandler {
	return ChangeOrderStatusCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrNow(clock),
	}
}

func (h ChangeOrderStatusCommandHandler) Handle(ctx context.Context, cmd ChangeOrderStatusCommand) (OrderStatusChange, error) {
	if err := cmd.Validate(); err != nil {
		return OrderStatusChange{}, err
	}

	act := cmd.Actor()
	if err := act.Authorize(actor.OrderTransition(cmd.Target())); err != nil {
		return OrderStatusChange{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return OrderStatusChange{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	// The delivery is locked before the order, as in the delivery use cases.
	var d *delivery.Delivery
	if cmd.Target() == order.Cancelled {
		var err error
		if d, err = lockOrderDelivery(ctx, uow, cmd.OrderID()); err != nil {
			return OrderStatusChange{}, err
		}
	}

	orders := uow.OrderRepository()
	o, err := orders.GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return OrderStatusChange{}, err
	}

	if err = act.CheckOrderOwnership(o); err != nil {
		return OrderStatusChange{}, err
	}

	now := h.clock()
	if err = o.ChangeStatus(order.StatusChange{
		ActorID:  act.ID(),
		Target:   cmd.Target(),
		Reason:   cmd.Reason(),
		Override: act.Authorize(actor.OverrideOrderTransition) == nil,
		At:       now,
	}); err != nil {
		return OrderStatusChange{}, err
	}

	if err = orders.Update(ctx, o); err != nil {
		return OrderStatusChange{}, err
	}

	var queued int
	if o.RequiresStockRelease() {
		queued, err = releaseOrderStock(ctx, uow.ProductRepository(), uow.StockReleaseQueue(), o, now)
		if err != nil {
			return OrderStatusChange{}, err
		}
	}

	change := OrderStatusChange{Order: o, QueuedReleases: queued}
	if d != nil && o.Status() == order.Cancelled && d.Withdraw(o.CancellationReason(), now) {
		if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
			return OrderStatusChange{}, err
		}
		change.WithdrawnDelivery = d
	}

	if err = uow.Commit(ctx); err != nil {
		return OrderStatusChange{}, err
	}

	return change, nil
}

func lockOrderDelivery(ctx context.Context, uow UoW, orderID kernel.UUID) (*delivery.Delivery, error) {
	d, err := uow.DeliveryRepository().GetByOrderForUpdate(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, nil
	}
	return d, err
}
