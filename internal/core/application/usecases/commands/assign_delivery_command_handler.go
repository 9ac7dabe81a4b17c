package commands

import (
	"context"
	"strings"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/worker"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
)

// AssignDeliveryCommandHandler binds a worker to an approved order and ships
// it. The order row stays locked for the whole transaction so two concurrent
// assignments serialise; the unique order index catches anything else.
type AssignDeliveryCommandHandler struct {
	uowFactory UoWFactory
	resolver   services.AssignmentResolver
	clock      Clock
}

func NewAssignDeliveryCommandHandler(uowFactory UoWFactory, resolver services.AssignmentResolver, clock Clock) AssignDeliveryCommandHandler {
	return AssignDeliveryCommandHandler{
		uowFactory: uowFactory,
		resolver:   resolver,
		clock:      clockOrNow(clock),
	}
}

func (h AssignDeliveryCommandHandler) Handle(ctx context.Context, cmd AssignDeliveryCommand) (*delivery.Delivery, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	act := cmd.Actor()
	if err := act.Authorize(actor.AssignDelivery); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if err = act.CheckOrderOwnership(o); err != nil {
		return nil, err
	}

	deliveries := uow.DeliveryRepository()
	exists, err := deliveries.ExistsForOrder(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewConflictError("delivery for order", o.Number().String())
	}
	if !o.Status().IsOpenForDelivery() {
		return nil, errs.NewNotReadyError("order", o.Number().String(), o.Status().String())
	}

	w, err := h.worker(ctx, uow, cmd, o)
	if err != nil {
		return nil, err
	}

	pickup, err := h.pickupLocation(ctx, uow, cmd, o)
	if err != nil {
		return nil, err
	}

	number, err := uow.NumberSequence().NextDeliveryNumber(ctx)
	if err != nil {
		return nil, err
	}

	now := h.clock()
	d, err := delivery.NewFromOrder(delivery.Assignment{
		ID:             cmd.DeliveryID(),
		Number:         number,
		Order:          o,
		Worker:         w,
		PickupLocation: pickup,
		RouteSummary:   cmd.RouteSummary(),
		At:             now,
	})
	if err != nil {
		return nil, err
	}

	if err = deliveries.Add(ctx, d); err != nil {
		return nil, err
	}

	if err = NewOrderUpdater(uow).MarkShipped(ctx, o.ID(), act.ID(), w.ID(), now); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return d, nil
}

func (h AssignDeliveryCommandHandler) worker(ctx context.Context, uow UoW, cmd AssignDeliveryCommand, o *order.Order) (*worker.DeliveryWorker, error) {
	directory := uow.WorkerDirectory()
	if id := cmd.WorkerID(); id != nil {
		return directory.Get(ctx, *id)
	}

	workers, err := directory.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	load, err := uow.DeliveryRepository().CountActiveByWorker(ctx)
	if err != nil {
		return nil, err
	}

	return h.resolver.PickBest(o.Destination().Area, workers, load)
}

func (h AssignDeliveryCommandHandler) pickupLocation(ctx context.Context, uow UoW, cmd AssignDeliveryCommand, o *order.Order) (string, error) {
	if p := strings.TrimSpace(cmd.PickupLocation()); p != "" {
		return p, nil
	}

	company, err := uow.AccountDirectory().Get(ctx, o.CompanyID())
	if err != nil {
		return "", err
	}
	return company.Address(), nil
}
