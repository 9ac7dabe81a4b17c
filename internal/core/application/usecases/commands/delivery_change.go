package commands

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// DeliveryChange is the result of a delivery use case.
type DeliveryChange struct {
	Delivery *delivery.Delivery
	// StatusChanged is false when only an issue was recorded.
	StatusChanged bool
	// Issue is set when the change reported one.
	Issue *delivery.Issue
	// CancelledOrder is set when the change cancelled the owning order.
	CancelledOrder *order.Order
}

// applyOutcome carries a delivery outcome over to the owning order.
func applyOutcome(
	ctx context.Context,
	updater ports.OrderUpdatePort,
	d *delivery.Delivery,
	actorID kernel.UUID,
	outcome delivery.Outcome,
) (*order.Order, error) {
	switch outcome.Effect {
	case delivery.MarkOrderDelivered:
		return nil, updater.MarkDelivered(ctx, d.OrderID(), actorID, outcome.At)
	case delivery.CancelOrder:
		return updater.Cancel(ctx, d.OrderID(), actorID, outcome.Reason, outcome.At)
	case delivery.NoOrderEffect:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown order effect %d", outcome.Effect)
	}
}

// loadOwnedDelivery locks the delivery and checks the caller may touch it.
func loadOwnedDelivery(ctx context.Context, uow UoW, id kernel.UUID, check func(*delivery.Delivery) error) (*delivery.Delivery, error) {
	d, err := uow.DeliveryRepository().GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = check(d); err != nil {
		return nil, err
	}
	return d, nil
}
