package delivery_test

import (
	"fmt"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/worker"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func boolPtr(v bool) *bool {
	return &v
}

func newOrder(t *testing.T, status order.Status) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Rice", 2, kernel.MustMoney("100"), "kg")
	require.NoError(t, err)
	number, err := order.NewNumber(1001)
	require.NoError(t, err)
	shopkeeperID := kernel.NewUUID()

	o, err := order.NewOrder(order.Placement{
		ID:            kernel.NewUUID(),
		Number:        number,
		ShopkeeperID:  shopkeeperID,
		CompanyID:     kernel.NewUUID(),
		Items:         []order.Item{item},
		Destination:   order.Destination{Address: "12 Lake Road", Area: "Dhanmondi"},
		PaymentMethod: order.CashOnDelivery,
		CreatedBy:     shopkeeperID,
		At:            now,
	})
	require.NoError(t, err)

	admin := kernel.NewUUID()
	switch status {
	case order.Pending:
	case order.Approved:
		require.NoError(t, o.ChangeStatus(order.StatusChange{ActorID: admin, Target: order.Approved, At: now}))
	case order.Processing:
		require.NoError(t, o.ChangeStatus(order.StatusChange{ActorID: admin, Target: order.Approved, At: now}))
		require.NoError(t, o.ChangeStatus(order.StatusChange{ActorID: admin, Target: order.Processing, At: now}))
	case order.Cancelled:
		require.NoError(t, o.ChangeStatus(order.StatusChange{ActorID: admin, Target: order.Cancelled, At: now}))
	default:
		t.Fatalf("unsupported fixture status %s", status)
	}
	return o
}

func newWorker(t *testing.T, active bool) *worker.DeliveryWorker {
	t.Helper()
	w, err := worker.RestoreDeliveryWorker(kernel.NewUUID(), "Karim", "017", []string{"Dhanmondi"}, active, true, worker.Vehicle{Type: "motorbike", Number: "DHA-1234"})
	require.NoError(t, err)
	return w
}

func newDelivery(t *testing.T) *delivery.Delivery {
	t.Helper()
	number, err := delivery.NewNumber(1)
	require.NoError(t, err)
	d, err := delivery.NewFromOrder(delivery.Assignment{
		ID:             kernel.NewUUID(),
		Number:         number,
		Order:          newOrder(t, order.Approved),
		Worker:         newWorker(t, true),
		PickupLocation: "Warehouse 3, Tongi",
		At:             now,
	})
	require.NoError(t, err)
	return d
}

func moveTo(t *testing.T, d *delivery.Delivery, path ...delivery.Status) {
	t.Helper()
	for _, s := range path {
		_, err := d.TransitionTo(s, "reason", now)
		require.NoError(t, err)
	}
}

func TestNewFromOrder(t *testing.T) {
	t.Run("should snapshot the order", func(t *testing.T) {
		o := newOrder(t, order.Processing)
		w := newWorker(t, true)
		number, err := delivery.NewNumber(7)
		require.NoError(t, err)

		d, err := delivery.NewFromOrder(delivery.Assignment{ID: kernel.NewUUID(), Number: number, Order: o, Worker: w, PickupLocation: "Warehouse", At: now})

		require.NoError(t, err)
		assert.Equal(t, delivery.Assigned, d.Status())
		assert.Equal(t, "DEL-0007", d.Number().String())
		assert.True(t, d.OrderID().IsEqual(o.ID()))
		assert.True(t, d.IsAssignedTo(w.ID()))
		assert.Equal(t, "12 Lake Road", d.DeliveryLocation())
		assert.Equal(t, "Dhanmondi", d.Area())
		assert.Equal(t, o.Totals().Final(), d.AmountToCollect())
		assert.Len(t, d.Items(), 1)
		assert.Equal(t, now, d.AssignedAt())
	})

	t.Run("should refuse a pending order", func(t *testing.T) {
		number, _ := delivery.NewNumber(1)

		_, err := delivery.NewFromOrder(delivery.Assignment{ID: kernel.NewUUID(), Number: number, Order: newOrder(t, order.Pending), Worker: newWorker(t, true), At: now})

		require.ErrorIs(t, err, errs.ErrNotReady)
	})

	t.Run("should refuse an inactive worker", func(t *testing.T) {
		number, _ := delivery.NewNumber(1)

		_, err := delivery.NewFromOrder(delivery.Assignment{ID: kernel.NewUUID(), Number: number, Order: newOrder(t, order.Approved), Worker: newWorker(t, false), At: now})

		require.ErrorIs(t, err, errs.ErrUnavailable)
	})
}

func TestStatus_TransitionTo(t *testing.T) {
	allowed := map[delivery.Status][]delivery.Status{
		delivery.Assigned:  {delivery.PickedUp},
		delivery.PickedUp:  {delivery.InTransit, delivery.Delivered, delivery.Failed},
		delivery.InTransit: {delivery.Delivered, delivery.Failed},
		delivery.Failed:    {delivery.Assigned},
		delivery.Returned:  {delivery.Assigned},
	}

	for _, from := range delivery.AllStatuses() {
		for _, to := range delivery.AllStatuses() {
			t.Run(fmt.Sprintf("%s to %s", from, to), func(t *testing.T) {
				expected := false
				for _, s := range allowed[from] {
					expected = expected || s == to
				}

				next, err := from.TransitionTo(to)
				if expected {
					require.NoError(t, err)
					assert.Equal(t, to, next)
				} else {
					require.ErrorIs(t, err, errs.ErrInvalidTransition)
				}
			})
		}
	}
}

func TestDelivery_TransitionTo(t *testing.T) {
	t.Run("picked up stamps the time", func(t *testing.T) {
		d := newDelivery(t)

		outcome, err := d.TransitionTo(delivery.PickedUp, "", now)

		require.NoError(t, err)
		assert.Equal(t, delivery.NoOrderEffect, outcome.Effect)
		require.NotNil(t, d.PickedUpAt())
	})

	t.Run("delivered marks the order delivered", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp, delivery.InTransit)

		outcome, err := d.TransitionTo(delivery.Delivered, "", now)

		require.NoError(t, err)
		assert.Equal(t, delivery.MarkOrderDelivered, outcome.Effect)
		assert.Equal(t, now, outcome.At)
		require.NotNil(t, d.DeliveredAt())
	})

	t.Run("failed needs a reason", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp)

		_, err := d.TransitionTo(delivery.Failed, " ", now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		assert.Equal(t, delivery.PickedUp, d.Status())
	})

	t.Run("illegal edge leaves state unchanged", func(t *testing.T) {
		d := newDelivery(t)

		_, err := d.TransitionTo(delivery.Delivered, "", now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, delivery.Assigned, d.Status())
		assert.Nil(t, d.DeliveredAt())
	})
}

func TestDelivery_Complete(t *testing.T) {
	t.Run("attaches proof", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp)

		outcome, err := d.Complete(delivery.Proof{Signature: "sig", PhotoRef: "photos/1.jpg"}, now)

		require.NoError(t, err)
		assert.Equal(t, delivery.MarkOrderDelivered, outcome.Effect)
		assert.Equal(t, delivery.Delivered, d.Status())
		require.NotNil(t, d.Proof())
		assert.Equal(t, "sig", d.Proof().Signature)
		assert.Equal(t, now, d.Proof().CapturedAt)
	})

	t.Run("refused before pickup", func(t *testing.T) {
		d := newDelivery(t)

		_, err := d.Complete(delivery.Proof{}, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Nil(t, d.Proof())
	})
}

func TestDelivery_ReportIssue(t *testing.T) {
	reporter := kernel.NewUUID()
	damaged, err := delivery.NewIssue(delivery.DamagedGoods, "crate of eggs broken", reporter, now)
	require.NoError(t, err)

	t.Run("unresolvable issue fails delivery and cancels order", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp)

		outcome, err := d.ReportIssue(delivery.IssueReport{Issue: damaged, Resolvable: boolPtr(false)}, now)

		require.NoError(t, err)
		assert.Equal(t, delivery.Failed, d.Status())
		assert.Equal(t, "crate of eggs broken", d.FailureReason())
		assert.Equal(t, delivery.CancelOrder, outcome.Effect)
		assert.Contains(t, outcome.Reason, "crate of eggs broken")
		assert.Len(t, d.Issues(), 1)
	})

	t.Run("unresolvable issue forces failed even when just assigned", func(t *testing.T) {
		d := newDelivery(t)

		_, err := d.ReportIssue(delivery.IssueReport{Issue: damaged, Resolvable: boolPtr(false)}, now)

		require.NoError(t, err)
		assert.Equal(t, delivery.Failed, d.Status())
	})

	t.Run("resolved issue completes the delivery", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp, delivery.InTransit)

		outcome, err := d.ReportIssue(delivery.IssueReport{Issue: damaged, Resolvable: boolPtr(true), Resolution: "replaced on site"}, now)

		require.NoError(t, err)
		assert.Equal(t, delivery.MarkOrderDelivered, outcome.Effect)
		assert.Equal(t, delivery.Delivered, d.Status())
		require.NotNil(t, d.Proof())
		assert.Equal(t, "replaced on site", d.Proof().Notes)
		assert.Len(t, d.Issues(), 1)
	})

	t.Run("resolvable without resolution only records", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp)

		outcome, err := d.ReportIssue(delivery.IssueReport{Issue: damaged, Resolvable: boolPtr(true)}, now)

		require.NoError(t, err)
		assert.Equal(t, delivery.NoOrderEffect, outcome.Effect)
		assert.Equal(t, delivery.PickedUp, d.Status())
		assert.Len(t, d.Issues(), 1)
	})

	t.Run("no verdict only records", func(t *testing.T) {
		d := newDelivery(t)

		_, err := d.ReportIssue(delivery.IssueReport{Issue: damaged}, now)

		require.NoError(t, err)
		assert.Equal(t, delivery.Assigned, d.Status())
		assert.Len(t, d.Issues(), 1)
	})

	t.Run("delivered delivery cannot fail", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp, delivery.Delivered)

		_, err := d.ReportIssue(delivery.IssueReport{Issue: damaged, Resolvable: boolPtr(false)}, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Empty(t, d.Issues())
	})

	t.Run("resolution before pickup is refused", func(t *testing.T) {
		d := newDelivery(t)

		_, err := d.ReportIssue(delivery.IssueReport{Issue: damaged, Resolvable: boolPtr(true), Resolution: "fixed"}, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Empty(t, d.Issues())
	})
}

func TestNewIssue(t *testing.T) {
	_, err := delivery.NewIssue("flood", "water everywhere", kernel.NewUUID(), now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = delivery.NewIssue(delivery.WrongItems, "  ", kernel.NewUUID(), now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestDelivery_Withdraw(t *testing.T) {
	t.Run("assigned delivery fails with the cancellation reason", func(t *testing.T) {
		d := newDelivery(t)
		later := now.Add(time.Hour)

		changed := d.Withdraw("fraud check", later)

		assert.True(t, changed)
		assert.Equal(t, delivery.Failed, d.Status())
		assert.Equal(t, "order cancelled: fraud check", d.FailureReason())
		assert.False(t, d.Status().IsActive())
	})

	t.Run("in transit delivery is withdrawn too", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp, delivery.InTransit)

		assert.True(t, d.Withdraw("", now))
		assert.Equal(t, "order cancelled", d.FailureReason())
	})

	t.Run("finished delivery is left alone", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp, delivery.Failed)

		assert.False(t, d.Withdraw("fraud check", now))
		assert.Equal(t, "reason", d.FailureReason())
	})
}

func TestDelivery_Reassign(t *testing.T) {
	t.Run("failed delivery goes to a new worker", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp, delivery.Failed)
		replacement := newWorker(t, true)
		later := now.Add(time.Hour)

		err := d.Reassign(replacement, order.Shipped, later)

		require.NoError(t, err)
		assert.Equal(t, delivery.Assigned, d.Status())
		assert.True(t, d.IsAssignedTo(replacement.ID()))
		assert.Empty(t, d.FailureReason())
		assert.Nil(t, d.PickedUpAt())
		assert.Equal(t, later, d.AssignedAt())
	})

	t.Run("active delivery cannot be reassigned", func(t *testing.T) {
		d := newDelivery(t)

		require.ErrorIs(t, d.Reassign(newWorker(t, true), order.Shipped, now), errs.ErrInvalidTransition)
	})

	t.Run("cancelled order blocks reassignment", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp, delivery.Failed)

		require.ErrorIs(t, d.Reassign(newWorker(t, true), order.Cancelled, now), errs.ErrNotReady)
		assert.Equal(t, delivery.Failed, d.Status())
	})

	t.Run("inactive worker is unavailable", func(t *testing.T) {
		d := newDelivery(t)
		moveTo(t, d, delivery.PickedUp, delivery.Failed)

		require.ErrorIs(t, d.Reassign(newWorker(t, false), order.Shipped, now), errs.ErrUnavailable)
	})
}

func TestNumber(t *testing.T) {
	n, err := delivery.ParseNumber("DEL-0042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n.Value())
	assert.Equal(t, "DEL-12345", mustNumber(t, 12345).String())

	_, err = delivery.NewNumber(0)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
}

func mustNumber(t *testing.T, v int64) delivery.Number {
	t.Helper()
	n, err := delivery.NewNumber(v)
	require.NoError(t, err)
	return n
}

func TestRestoreDelivery(t *testing.T) {
	d := newDelivery(t)

	restored, err := delivery.RestoreDelivery(d.State())

	require.NoError(t, err)
	assert.Equal(t, d.State(), restored.State())
}
