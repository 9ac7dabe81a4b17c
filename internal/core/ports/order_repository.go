package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

type OrderRepository interface {
	Add(ctx context.Context, o *order.Order) error

	// Update stores status, audit fields and any new timeline entries.
	Update(ctx context.Context, o *order.Order) error

	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate loads the order and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderUpdatePort is the only way the delivery flow changes an order.
type OrderUpdatePort interface {
	MarkShipped(ctx context.Context, orderID, actorID, workerID kernel.UUID, at time.Time) error
	MarkDelivered(ctx context.Context, orderID, actorID kernel.UUID, at time.Time) error
	ReplaceDeliveryWorker(ctx context.Context, orderID, workerID kernel.UUID) error

	// Cancel moves the order to cancelled through the override edge and
	// releases its stock.
	Cancel(ctx context.Context, orderID, actorID kernel.UUID, reason string, at time.Time) (*order.Order, error)
}
