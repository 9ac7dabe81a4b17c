package ports

import (
	"context"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/order"
)

// NumberSequence allocates human-readable numbers. Each call returns a value
// never returned before, even across concurrent transactions.
type NumberSequence interface {
	NextOrderNumber(ctx context.Context) (order.Number, error)
	NextDeliveryNumber(ctx context.Context) (delivery.Number, error)
}
