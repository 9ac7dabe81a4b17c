package ports

import (
	"context"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
)

type DeliveryRepository interface {
	// Add stores a new delivery. A second delivery for the same order fails
	// with Conflict.
	Add(ctx context.Context, d *delivery.Delivery) error

	// Update stores status changes, proof and any new issues.
	Update(ctx context.Context, d *delivery.Delivery) error

	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)
	GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetByOrderForUpdate locks the delivery of an order. An order without a
	// delivery gives NotFound.
	GetByOrderForUpdate(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error)

	// CountActiveByWorker returns the number of assigned, picked up and in
	// transit deliveries per worker. Workers without any are absent.
	CountActiveByWorker(ctx context.Context) (map[kernel.UUID]int, error)
}
