package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// orderUpdater applies delivery side effects to orders inside the caller's
// unit of work.
type orderUpdater struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	queue    ports.StockReleaseQueue
}

// NewOrderUpdater binds the order update port to uow.
func NewOrderUpdater(uow OrderUoW) ports.OrderUpdatePort {
	return &orderUpdater{
		orders:   uow.OrderRepository(),
		products: uow.ProductRepository(),
		queue:    uow.StockReleaseQueue(),
	}
}

func (u *orderUpdater) MarkShipped(ctx context.Context, orderID, actorID, workerID kernel.UUID, at time.Time) error {
	o, err := u.orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status() == order.Shipped {
		return nil
	}
	if err = o.MarkShipped(actorID, workerID, at); err != nil {
		return err
	}
	return u.orders.Update(ctx, o)
}

func (u *orderUpdater) MarkDelivered(ctx context.Context, orderID, actorID kernel.UUID, at time.Time) error {
	o, err := u.orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if o.Status() == order.Delivered {
		return nil
	}
	if err = o.MarkDelivered(actorID, at); err != nil {
		return err
	}
	return u.orders.Update(ctx, o)
}

func (u *orderUpdater) ReplaceDeliveryWorker(ctx context.Context, orderID, workerID kernel.UUID) error {
	o, err := u.orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return err
	}
	if err = o.ReplaceDeliveryWorker(workerID); err != nil {
		return err
	}
	return u.orders.Update(ctx, o)
}

func (u *orderUpdater) Cancel(ctx context.Context, orderID, actorID kernel.UUID, reason string, at time.Time) (*order.Order, error) {
	o, err := u.orders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err = o.ChangeStatus(order.StatusChange{
		ActorID:  actorID,
		Target:   order.Cancelled,
		Reason:   reason,
		Override: true,
		At:       at,
	}); err != nil {
		return nil, err
	}

	if err = u.orders.Update(ctx, o); err != nil {
		return nil, err
	}

	if _, err = releaseOrderStock(ctx, u.products, u.queue, o, at); err != nil {
		return nil, err
	}

	return o, nil
}
