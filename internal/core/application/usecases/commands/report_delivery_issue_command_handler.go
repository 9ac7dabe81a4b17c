package commands

import (
	"context"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
)

// ReportDeliveryIssueCommandHandler appends an issue and, depending on the
// verdict, fails the delivery and cancels its order (returning the stock) or
// completes the delivery.
type ReportDeliveryIssueCommandHandler struct {
	uowFactory UoWFactory
	clock      Clock
}

func NewReportDeliveryIssueCommandHandler(uowFactory UoWFactory, clock Clock) ReportDeliveryIssueCommandHandler {
	return ReportDeliveryIssueCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrNow(clock),
	}
}

func (h ReportDeliveryIssueCommandHandler) Handle(ctx context.Context, cmd ReportDeliveryIssueCommand) (DeliveryChange, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryChange{}, err
	}

	act := cmd.Actor()
	if err := act.Authorize(actor.ReportIssue); err != nil {
		return DeliveryChange{}, err
	}

	now := h.clock()
	issue, err := delivery.NewIssue(cmd.IssueType(), cmd.Description(), act.ID(), now)
	if err != nil {
		return DeliveryChange{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return DeliveryChange{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	d, err := loadOwnedDelivery(ctx, uow, cmd.DeliveryID(), act.CheckDeliveryOwnership)
	if err != nil {
		return DeliveryChange{}, err
	}

	outcome, err := d.ReportIssue(delivery.IssueReport{
		Issue:      issue,
		Resolvable: cmd.Resolvable(),
		Resolution: cmd.Resolution(),
	}, now)
	if err != nil {
		return DeliveryChange{}, err
	}

	if err = uow.DeliveryRepository().Update(ctx, d); err != nil {
		return DeliveryChange{}, err
	}

	cancelled, err := applyOutcome(ctx, NewOrderUpdater(uow), d, act.ID(), outcome)
	if err != nil {
		return DeliveryChange{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryChange{}, err
	}

	return DeliveryChange{
		Delivery:       d,
		StatusChanged:  outcome.Effect != delivery.NoOrderEffect,
		Issue:          &issue,
		CancelledOrder: cancelled,
	}, nil
}
