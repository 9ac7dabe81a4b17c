package delivery

import (
	"errors"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/worker"
	"marketplace/internal/pkg/errs"
)

var (
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewFromOrder or RestoreDelivery constructor")
	ErrFailureReasonIsRequired  = errs.NewValueIsRequiredError("failure reason")
)

// Assignment is the input for creating a delivery from an order.
type Assignment struct {
	ID             kernel.UUID
	Number         Number
	Order          *order.Order
	Worker         *worker.DeliveryWorker
	PickupLocation string
	RouteSummary   string
	At             time.Time
}

// IssueReport is a reported issue plus the reporter's verdict on it.
// Resolvable is nil when the reporter gave no verdict.
type IssueReport struct {
	Issue      Issue
	Resolvable *bool
	Resolution string
}

// State is the full persisted form of a delivery.
type State struct {
	ID               kernel.UUID
	Number           Number
	OrderID          kernel.UUID
	ShopkeeperID     kernel.UUID
	CompanyID        kernel.UUID
	WorkerID         kernel.UUID
	Items            []order.Item
	PickupLocation   string
	DeliveryLocation string
	Area             string
	PaymentMethod    order.PaymentMethod
	AmountToCollect  kernel.Money
	Status           Status
	AssignedAt       time.Time
	PickedUpAt       *time.Time
	DeliveredAt      *time.Time
	Issues           []Issue
	Proof            *Proof
	FailureReason    string
	RouteSummary     string
}

// Delivery is the physical fulfilment of one order. It holds a reference to
// its order but never mutates it.
type Delivery struct {
	id               kernel.UUID
	number           Number
	orderID          kernel.UUID
	shopkeeperID     kernel.UUID
	companyID        kernel.UUID
	workerID         kernel.UUID
	items            []order.Item
	pickupLocation   string
	deliveryLocation string
	area             string
	paymentMethod    order.PaymentMethod
	amountToCollect  kernel.Money
	status           Status
	assignedAt       time.Time
	pickedUpAt       *time.Time
	deliveredAt      *time.Time
	issues           []Issue
	proof            *Proof
	failureReason    string
	routeSummary     string

	isConstructed bool
}

// NewFromOrder creates an assigned delivery for an approved or processing
// order, copying its items and destination.
func NewFromOrder(a Assignment) (*Delivery, error) {
	if err := errors.Join(a.ID.Validate(), a.Order.Validate(), a.Worker.Validate()); err != nil {
		return nil, err
	}
	if a.Number.IsZero() {
		return nil, errs.NewValueIsRequiredError("delivery number")
	}

	o := a.Order
	if !o.Status().IsOpenForDelivery() {
		return nil, errs.NewNotReadyError("order", o.ID().String(), o.Status().String())
	}
	if err := a.Worker.CheckAssignable(); err != nil {
		return nil, err
	}

	amount := kernel.Zero
	if o.PaymentMethod().CollectsOnDelivery() {
		amount = o.Totals().Final()
	}

	dest := o.Destination()
	return &Delivery{
		id:               a.ID,
		number:           a.Number,
		orderID:          o.ID(),
		shopkeeperID:     o.ShopkeeperID(),
		companyID:        o.CompanyID(),
		workerID:         a.Worker.ID(),
		items:            o.Items(),
		pickupLocation:   a.PickupLocation,
		deliveryLocation: dest.Address,
		area:             dest.Area,
		paymentMethod:    o.PaymentMethod(),
		amountToCollect:  amount,
		status:           Assigned,
		assignedAt:       a.At,
		routeSummary:     a.RouteSummary,
		isConstructed:    true,
	}, nil
}

// RestoreDelivery rebuilds a delivery from storage.
func RestoreDelivery(s State) (*Delivery, error) {
	if err := errors.Join(
		s.ID.Validate(),
		s.OrderID.Validate(),
		s.WorkerID.Validate(),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:               s.ID,
		number:           s.Number,
		orderID:          s.OrderID,
		shopkeeperID:     s.ShopkeeperID,
		companyID:        s.CompanyID,
		workerID:         s.WorkerID,
		items:            append([]order.Item(nil), s.Items...),
		pickupLocation:   s.PickupLocation,
		deliveryLocation: s.DeliveryLocation,
		area:             s.Area,
		paymentMethod:    s.PaymentMethod,
		amountToCollect:  s.AmountToCollect,
		status:           s.Status,
		assignedAt:       s.AssignedAt,
		pickedUpAt:       s.PickedUpAt,
		deliveredAt:      s.DeliveredAt,
		issues:           append([]Issue(nil), s.Issues...),
		proof:            s.Proof,
		failureReason:    s.FailureReason,
		routeSummary:     s.RouteSummary,
		isConstructed:    true,
	}, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) Number() Number {
	return d.number
}

func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

func (d *Delivery) ShopkeeperID() kernel.UUID {
	return d.shopkeeperID
}

func (d *Delivery) CompanyID() kernel.UUID {
	return d.companyID
}

func (d *Delivery) WorkerID() kernel.UUID {
	return d.workerID
}

func (d *Delivery) Items() []order.Item {
	return append([]order.Item(nil), d.items...)
}

func (d *Delivery) PickupLocation() string {
	return d.pickupLocation
}

func (d *Delivery) DeliveryLocation() string {
	return d.deliveryLocation
}

func (d *Delivery) Area() string {
	return d.area
}

func (d *Delivery) PaymentMethod() order.PaymentMethod {
	return d.paymentMethod
}

func (d *Delivery) AmountToCollect() kernel.Money {
	return d.amountToCollect
}

func (d *Delivery) Status() Status {
	return d.status
}

func (d *Delivery) AssignedAt() time.Time {
	return d.assignedAt
}

func (d *Delivery) PickedUpAt() *time.Time {
	return d.pickedUpAt
}

func (d *Delivery) DeliveredAt() *time.Time {
	return d.deliveredAt
}

// Issues returns the reported issues, oldest first.
func (d *Delivery) Issues() []Issue {
	return append([]Issue(nil), d.issues...)
}

func (d *Delivery) Proof() *Proof {
	return d.proof
}

func (d *Delivery) FailureReason() string {
	return d.failureReason
}

func (d *Delivery) RouteSummary() string {
	return d.routeSummary
}

func (d *Delivery) State() State {
	return State{
		ID:               d.id,
		Number:           d.number,
		OrderID:          d.orderID,
		ShopkeeperID:     d.shopkeeperID,
		CompanyID:        d.companyID,
		WorkerID:         d.workerID,
		Items:            d.Items(),
		PickupLocation:   d.pickupLocation,
		DeliveryLocation: d.deliveryLocation,
		Area:             d.area,
		PaymentMethod:    d.paymentMethod,
		AmountToCollect:  d.amountToCollect,
		Status:           d.status,
		AssignedAt:       d.assignedAt,
		PickedUpAt:       d.pickedUpAt,
		DeliveredAt:      d.deliveredAt,
		Issues:           d.Issues(),
		Proof:            d.proof,
		FailureReason:    d.failureReason,
		RouteSummary:     d.routeSummary,
	}
}

// IsAssignedTo reports whether workerID carries this delivery.
func (d *Delivery) IsAssignedTo(workerID kernel.UUID) bool {
	return d.workerID.IsEqual(workerID)
}

// TransitionTo moves the delivery along its graph. A failed transition needs
// a reason. Reaching Delivered yields an outcome that marks the order
// delivered.
func (d *Delivery) TransitionTo(target Status, reason string, at time.Time) (Outcome, error) {
	next, err := d.status.TransitionTo(target)
	if err != nil {
		return Outcome{}, err
	}

	reason = strings.TrimSpace(reason)
	if next == Failed && reason == "" {
		return Outcome{}, ErrFailureReasonIsRequired
	}

	return d.apply(next, reason, at), nil
}

// Complete delivers the goods with a proof attached. Only a picked up or in
// transit delivery can be completed.
func (d *Delivery) Complete(proof Proof, at time.Time) (Outcome, error) {
	if d.status != PickedUp && d.status != InTransit {
		return Outcome{}, errs.NewInvalidTransitionError("delivery", d.status, Delivered)
	}

	if proof.CapturedAt.IsZero() {
		proof.CapturedAt = at
	}
	d.proof = &proof
	return d.apply(Delivered, "", at), nil
}

// ReportIssue appends the issue and applies the reporter's verdict:
// unresolvable forces the delivery to failed and cancels the order, resolvable
// with a resolution completes it, anything else only records the issue.
// Nothing changes when the verdict cannot be applied.
func (d *Delivery) ReportIssue(report IssueReport, at time.Time) (Outcome, error) {
	issue := report.Issue
	if err := issue.Type.Validate(); err != nil {
		return Outcome{}, err
	}

	resolution := strings.TrimSpace(report.Resolution)
	var outcome Outcome

	switch {
	case report.Resolvable != nil && !*report.Resolvable:
		if d.status == Delivered {
			return Outcome{}, errs.NewInvalidTransitionError("delivery", d.status, Failed)
		}
		d.status = Failed
		d.failureReason = issue.Description
		outcome = Outcome{Effect: CancelOrder, At: at, Reason: issue.Description}

	case report.Resolvable != nil && *report.Resolvable && resolution != "":
		var err error
		outcome, err = d.Complete(Proof{Notes: resolution, CapturedAt: at}, at)
		if err != nil {
			return Outcome{}, err
		}
	}

	d.issues = append(d.issues, issue)
	return outcome, nil
}

// Withdraw fails an active delivery because its order was cancelled. It
// reports whether the delivery changed; finished deliveries are left alone.
func (d *Delivery) Withdraw(reason string, at time.Time) bool {
	if !d.status.IsActive() {
		return false
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "order cancelled"
	} else {
		reason = "order cancelled: " + reason
	}
	d.apply(Failed, reason, at)
	return true
}

// Reassign hands a failed or returned delivery to worker, who may be the
// previous one. The owning order must still be open.
func (d *Delivery) Reassign(w *worker.DeliveryWorker, orderStatus order.Status, at time.Time) error {
	if err := w.Validate(); err != nil {
		return err
	}
	if !d.status.IsReassignable() {
		return errs.NewInvalidTransitionError("delivery", d.status, Assigned)
	}
	if orderStatus.IsTerminal() {
		return errs.NewNotReadyError("order", d.orderID.String(), orderStatus.String())
	}
	if err := w.CheckAssignable(); err != nil {
		return err
	}

	d.workerID = w.ID()
	d.apply(Assigned, "", at)
	return nil
}

func (d *Delivery) apply(next Status, reason string, at time.Time) Outcome {
	d.status = next

	switch next {
	case Assigned:
		d.assignedAt = at
		d.pickedUpAt = nil
		d.failureReason = ""
	case PickedUp:
		d.pickedUpAt = &at
	case Failed:
		d.failureReason = reason
	case Delivered:
		d.deliveredAt = &at
		return Outcome{Effect: MarkOrderDelivered, At: at}
	}

	return Outcome{}
}
