package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")
	ErrItemsAreRequired      = errs.NewValueIsRequiredError("items")
	ErrReasonIsRequired      = errs.NewValueIsRequiredError("reason")
)

// Placement carries everything needed to create an order. Items must already
// hold reserved stock.
type Placement struct {
	ID            kernel.UUID
	Number        Number
	ShopkeeperID  kernel.UUID
	CompanyID     kernel.UUID
	Items         []Item
	Destination   Destination
	PaymentMethod PaymentMethod
	CreatedBy     kernel.UUID
	At            time.Time
}

// State is the full persisted form of an order.
type State struct {
	ID                 kernel.UUID
	Number             Number
	ShopkeeperID       kernel.UUID
	CompanyID          kernel.UUID
	Items              []Item
	Totals             Totals
	Status             Status
	DeliveryWorkerID   *kernel.UUID
	Destination        Destination
	PaymentMethod      PaymentMethod
	Timeline           []TimelineEntry
	CreatedBy          kernel.UUID
	ApprovedBy         *kernel.UUID
	RejectionReason    string
	CancellationReason string
	CreatedAt          time.Time
	DeliveredAt        *time.Time
}

// StatusChange is a request to move the order along its graph. Reason is kept
// as the timeline note. Override unlocks the admin/system cancellation edges.
type StatusChange struct {
	ActorID  kernel.UUID
	Target   Status
	Reason   string
	Override bool
	At       time.Time
}

// Order is a shopkeeper's purchase from one company. It is the aggregate root
// for its items, totals and timeline.
type Order struct {
	id                 kernel.UUID
	number             Number
	shopkeeperID       kernel.UUID
	companyID          kernel.UUID
	items              []Item
	totals             Totals
	status             Status
	deliveryWorkerID   *kernel.UUID
	destination        Destination
	paymentMethod      PaymentMethod
	timeline           []TimelineEntry
	createdBy          kernel.UUID
	approvedBy         *kernel.UUID
	rejectionReason    string
	cancellationReason string
	createdAt          time.Time
	deliveredAt        *time.Time

	isConstructed bool
}

// NewOrder creates a pending order, computes its totals from the item
// snapshots and opens the timeline.
func NewOrder(p Placement) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     p.At,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(p.ID),
		o.setNumber(p.Number),
		o.setParties(p.ShopkeeperID, p.CompanyID, p.CreatedBy),
		o.setItems(p.Items),
		o.setDestination(p.Destination),
		o.setPaymentMethod(p.PaymentMethod),
	); err != nil {
		return nil, err
	}

	o.totals = ComputeTotals(o.items)
	o.timeline = []TimelineEntry{{
		Status:  Pending,
		At:      p.At,
		ActorID: p.CreatedBy,
		Note:    "order placed",
	}}

	return o, nil
}

// RestoreOrder rebuilds an order from storage without recomputing totals.
func RestoreOrder(s State) (*Order, error) {
	o := &Order{
		totals:             s.Totals,
		deliveryWorkerID:   s.DeliveryWorkerID,
		destination:        s.Destination,
		paymentMethod:      s.PaymentMethod,
		timeline:           append([]TimelineEntry(nil), s.Timeline...),
		approvedBy:         s.ApprovedBy,
		rejectionReason:    s.RejectionReason,
		cancellationReason: s.CancellationReason,
		createdAt:          s.CreatedAt,
		deliveredAt:        s.DeliveredAt,
		isConstructed:      true,
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setNumber(s.Number),
		o.setParties(s.ShopkeeperID, s.CompanyID, s.CreatedBy),
		o.setItems(s.Items),
		s.Status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = s.Status

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() Number {
	return o.number
}

func (o *Order) ShopkeeperID() kernel.UUID {
	return o.shopkeeperID
}

func (o *Order) CompanyID() kernel.UUID {
	return o.companyID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

func (o *Order) Totals() Totals {
	return o.totals
}

func (o *Order) Status() Status {
	return o.status
}

// DeliveryWorkerID is nil until a delivery is assigned.
func (o *Order) DeliveryWorkerID() *kernel.UUID {
	return o.deliveryWorkerID
}

func (o *Order) Destination() Destination {
	return o.destination
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

// Timeline returns a copy of the status history, oldest first.
func (o *Order) Timeline() []TimelineEntry {
	return append([]TimelineEntry(nil), o.timeline...)
}

func (o *Order) CreatedBy() kernel.UUID {
	return o.createdBy
}

func (o *Order) ApprovedBy() *kernel.UUID {
	return o.approvedBy
}

func (o *Order) RejectionReason() string {
	return o.rejectionReason
}

func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) DeliveredAt() *time.Time {
	return o.deliveredAt
}

// State exports the order for persistence.
func (o *Order) State() State {
	return State{
		ID:                 o.id,
		Number:             o.number,
		ShopkeeperID:       o.shopkeeperID,
		CompanyID:          o.companyID,
		Items:              o.Items(),
		Totals:             o.totals,
		Status:             o.status,
		DeliveryWorkerID:   o.deliveryWorkerID,
		Destination:        o.destination,
		PaymentMethod:      o.paymentMethod,
		Timeline:           o.Timeline(),
		CreatedBy:          o.createdBy,
		ApprovedBy:         o.approvedBy,
		RejectionReason:    o.rejectionReason,
		CancellationReason: o.cancellationReason,
		CreatedAt:          o.createdAt,
		DeliveredAt:        o.deliveredAt,
	}
}

// ChangeStatus moves the order along the graph and appends a timeline entry.
// The order is left untouched when the edge does not exist. The reason is
// optional except when rejecting: the shopkeeper is shown the rejection
// reason, so a blank one gives ErrReasonIsRequired.
func (o *Order) ChangeStatus(change StatusChange) error {
	if err := change.ActorID.Validate(); err != nil {
		return err
	}

	next, err := o.status.TransitionTo(change.Target, change.Override)
	if err != nil {
		return err
	}

	reason := strings.TrimSpace(change.Reason)
	if next == Rejected && reason == "" {
		return ErrReasonIsRequired
	}

	switch next {
	case Approved:
		actorID := change.ActorID
		o.approvedBy = &actorID
	case Rejected:
		o.rejectionReason = reason
	case Cancelled:
		o.cancellationReason = reason
	case Delivered:
		at := change.At
		o.deliveredAt = &at
	}

	o.status = next
	o.appendTimeline(next, change.ActorID, change.At, reason)
	return nil
}

// RequiresStockRelease reports whether the reserved stock must go back to the
// ledger. Both states are terminal, so this becomes true at most once.
func (o *Order) RequiresStockRelease() bool {
	return o.status == Rejected || o.status == Cancelled
}

// MarkShipped binds the delivery worker and moves the order to shipped. It is
// a no-op when the order is already shipped.
func (o *Order) MarkShipped(actorID, workerID kernel.UUID, at time.Time) error {
	if o.status == Shipped {
		return nil
	}
	if err := workerID.Validate(); err != nil {
		return err
	}
	if err := o.ChangeStatus(StatusChange{
		ActorID: actorID,
		Target:  Shipped,
		Reason:  fmt.Sprintf("assigned to worker %s", workerID),
		At:      at,
	}); err != nil {
		return err
	}
	o.deliveryWorkerID = &workerID
	return nil
}

// MarkDelivered closes the order. It is a no-op when already delivered.
func (o *Order) MarkDelivered(actorID kernel.UUID, at time.Time) error {
	if o.status == Delivered {
		return nil
	}
	return o.ChangeStatus(StatusChange{
		ActorID: actorID,
		Target:  Delivered,
		At:      at,
	})
}

// ReplaceDeliveryWorker records a new worker after a delivery reassignment.
func (o *Order) ReplaceDeliveryWorker(workerID kernel.UUID) error {
	if err := workerID.Validate(); err != nil {
		return err
	}
	if o.status != Shipped {
		return errs.NewNotReadyError("order", o.id.String(), o.status.String())
	}
	o.deliveryWorkerID = &workerID
	return nil
}

func (o *Order) appendTimeline(status Status, actorID kernel.UUID, at time.Time, note string) {
	o.timeline = append(o.timeline, TimelineEntry{
		Status:  status,
		At:      at,
		ActorID: actorID,
		Note:    note,
	})
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setNumber(n Number) error {
	if n.IsZero() {
		return errs.NewValueIsRequiredError("order number")
	}
	o.number = n
	return nil
}

func (o *Order) setParties(shopkeeperID, companyID, createdBy kernel.UUID) error {
	if err := errors.Join(shopkeeperID.Validate(), companyID.Validate(), createdBy.Validate()); err != nil {
		return err
	}
	o.shopkeeperID = shopkeeperID
	o.companyID = companyID
	o.createdBy = createdBy
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for i, item := range items {
		if err := item.productID.Validate(); err != nil {
			return err
		}
		if item.quantity <= 0 {
			return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("item %d: %d is not greater than 0", i, item.quantity))
		}
		if _, dup := seen[item.productID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("product %s is listed more than once", item.productID))
		}
		seen[item.productID] = struct{}{}
	}

	o.items = append([]Item(nil), items...)
	return nil
}

func (o *Order) setDestination(d Destination) error {
	if strings.TrimSpace(d.Address) == "" {
		return errs.NewValueIsRequiredError("delivery address")
	}
	if strings.TrimSpace(d.Area) == "" {
		return errs.NewValueIsRequiredError("delivery area")
	}
	o.destination = d
	return nil
}

func (o *Order) setPaymentMethod(p PaymentMethod) error {
	if p == "" {
		p = CashOnDelivery
	}
	if err := p.Validate(); err != nil {
		return err
	}
	o.paymentMethod = p
	return nil
}
