package queries

import (
	"context"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/order"
)

// GetOrderQueryHandler loads one order the caller is a party to.
type GetOrderQueryHandler struct {
	readers ReadersFactory
}

func NewGetOrderQueryHandler(readers ReadersFactory) GetOrderQueryHandler {
	return GetOrderQueryHandler{readers: readers}
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*order.Order, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	act := query.Actor()
	if err := act.Authorize(actor.ViewOrder); err != nil {
		return nil, err
	}

	o, err := h.readers.Create().OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return nil, err
	}

	if err = act.CheckOrderOwnership(o); err != nil {
		return nil, err
	}
	return o, nil
}
