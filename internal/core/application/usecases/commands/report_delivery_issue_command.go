package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrReportDeliveryIssueCommandIsNotConstructed = errors.New(
	"ReportDeliveryIssueCommand must be created via NewReportDeliveryIssueCommand constructor",
)

// ReportDeliveryIssueCommand records an issue. Resolvable is nil when the
// reporter gives no verdict.
type ReportDeliveryIssueCommand struct {
	actor       actor.Actor
	deliveryID  kernel.UUID
	issueType   delivery.IssueType
	description string
	resolvable  *bool
	resolution  string

	guard guard.ConstructorGuard
}

func NewReportDeliveryIssueCommand(
	act actor.Actor,
	deliveryID kernel.UUID,
	issueType delivery.IssueType,
	description string,
	resolvable *bool,
	resolution string,
) (ReportDeliveryIssueCommand, error) {
	var descErr error
	if description == "" {
		descErr = errs.NewValueIsRequiredError("issue description")
	}
	if err := errors.Join(deliveryID.Validate(), issueType.Validate(), descErr); err != nil {
		return ReportDeliveryIssueCommand{}, err
	}

	return ReportDeliveryIssueCommand{
		actor:       act,
		deliveryID:  deliveryID,
		issueType:   issueType,
		description: description,
		resolvable:  resolvable,
		resolution:  resolution,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ReportDeliveryIssueCommand) Validate() error {
	return c.guard.Validate(ErrReportDeliveryIssueCommandIsNotConstructed)
}

func (c ReportDeliveryIssueCommand) Actor() actor.Actor {
	return c.actor
}

func (c ReportDeliveryIssueCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

func (c ReportDeliveryIssueCommand) IssueType() delivery.IssueType {
	return c.issueType
}

func (c ReportDeliveryIssueCommand) Description() string {
	return c.description
}

func (c ReportDeliveryIssueCommand) Resolvable() *bool {
	return c.resolvable
}

func (c ReportDeliveryIssueCommand) Resolution() string {
	return c.resolution
}
