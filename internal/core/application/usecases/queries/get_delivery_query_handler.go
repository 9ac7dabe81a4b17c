package queries

import (
	"context"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
)

// GetDeliveryQueryHandler loads one delivery visible to the caller: its
// worker, the two trading parties and admins.
type GetDeliveryQueryHandler struct {
	readers ReadersFactory
}

func NewGetDeliveryQueryHandler(readers ReadersFactory) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{readers: readers}
}

func (h GetDeliveryQueryHandler) Handle(ctx context.Context, query GetDeliveryQuery) (*delivery.Delivery, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	act := query.Actor()
	if err := act.Authorize(actor.ViewDelivery); err != nil {
		return nil, err
	}

	d, err := h.readers.Create().DeliveryRepository().Get(ctx, query.DeliveryID())
	if err != nil {
		return nil, err
	}

	if err = act.CheckDeliveryOwnership(d); err != nil {
		return nil, err
	}
	return d, nil
}
