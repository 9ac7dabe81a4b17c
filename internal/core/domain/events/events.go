// Package events defines the notifications published after a use case
// commits. Delivery to people is handled elsewhere; the engine only
// publishes.
package events

import (
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

type Type string

const (
	OrderPlaced           Type = "order_placed"
	OrderApproved         Type = "order_approved"
	OrderRejected         Type = "order_rejected"
	OrderCancelled        Type = "order_cancelled"
	DeliveryAssigned      Type = "delivery_assigned"
	DeliveryDelivered     Type = "delivery_delivered"
	DeliveryFailed        Type = "delivery_failed"
	DeliveryIssueReported Type = "delivery_issue_reported"
	DeliveryWithdrawn     Type = "delivery_withdrawn"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Event is a fire-and-forget notification.
type Event struct {
	Type        Type
	RecipientID kernel.UUID
	OrderID     *kernel.UUID
	DeliveryID  *kernel.UUID
	Priority    Priority
	Data        map[string]any
	OccurredAt  time.Time
}

func ptr(id kernel.UUID) *kernel.UUID {
	return &id
}

// ForOrderStatus returns the events for an order that just entered its
// current status. Statuses nobody is told about produce nothing.
func ForOrderStatus(o *order.Order, at time.Time) []Event {
	data := map[string]any{
		"orderNumber": o.Number().String(),
		"status":      o.Status().String(),
	}

	switch o.Status() {
	case order.Pending:
		data["finalAmount"] = o.Totals().Final().String()
		return []Event{{
			Type:        OrderPlaced,
			RecipientID: o.CompanyID(),
			OrderID:     ptr(o.ID()),
			Priority:    PriorityHigh,
			Data:        data,
			OccurredAt:  at,
		}}
	case order.Approved:
		return []Event{{
			Type:        OrderApproved,
			RecipientID: o.ShopkeeperID(),
			OrderID:     ptr(o.ID()),
			Priority:    PriorityMedium,
			Data:        data,
			OccurredAt:  at,
		}}
	case order.Rejected:
		data["reason"] = o.RejectionReason()
		return []Event{{
			Type:        OrderRejected,
			RecipientID: o.ShopkeeperID(),
			OrderID:     ptr(o.ID()),
			Priority:    PriorityHigh,
			Data:        data,
			OccurredAt:  at,
		}}
	case order.Cancelled:
		data["reason"] = o.CancellationReason()
		return []Event{
			{
				Type:        OrderCancelled,
				RecipientID: o.CompanyID(),
				OrderID:     ptr(o.ID()),
				Priority:    PriorityHigh,
				Data:        data,
				OccurredAt:  at,
			},
			{
				Type:        OrderCancelled,
				RecipientID: o.ShopkeeperID(),
				OrderID:     ptr(o.ID()),
				Priority:    PriorityMedium,
				Data:        data,
				OccurredAt:  at,
			},
		}
	default:
		return nil
	}
}

// ForDeliveryStatus returns the events for a delivery that just entered its
// current status.
func ForDeliveryStatus(d *delivery.Delivery, at time.Time) []Event {
	data := map[string]any{
		"deliveryNumber": d.Number().String(),
		"status":         d.Status().String(),
	}

	switch d.Status() {
	case delivery.Assigned:
		data["pickupLocation"] = d.PickupLocation()
		data["deliveryLocation"] = d.DeliveryLocation()
		data["amountToCollect"] = d.AmountToCollect().String()
		return []Event{
			deliveryEvent(DeliveryAssigned, d.WorkerID(), d, PriorityHigh, data, at),
			deliveryEvent(DeliveryAssigned, d.ShopkeeperID(), d, PriorityMedium, data, at),
		}
	case delivery.Delivered:
		return []Event{
			deliveryEvent(DeliveryDelivered, d.ShopkeeperID(), d, PriorityMedium, data, at),
			deliveryEvent(DeliveryDelivered, d.CompanyID(), d, PriorityMedium, data, at),
		}
	case delivery.Failed:
		data["reason"] = d.FailureReason()
		return []Event{
			deliveryEvent(DeliveryFailed, d.CompanyID(), d, PriorityHigh, data, at),
			deliveryEvent(DeliveryFailed, d.ShopkeeperID(), d, PriorityHigh, data, at),
		}
	default:
		return nil
	}
}

// IssueReported notifies the company about a new issue.
func IssueReported(d *delivery.Delivery, issue delivery.Issue) Event {
	return deliveryEvent(DeliveryIssueReported, d.CompanyID(), d, PriorityHigh, map[string]any{
		"deliveryNumber": d.Number().String(),
		"issueType":      string(issue.Type),
		"description":    issue.Description,
	}, issue.ReportedAt)
}

// Withdrawn tells the delivery worker to drop a delivery whose order was
// cancelled.
func Withdrawn(d *delivery.Delivery, at time.Time) Event {
	return deliveryEvent(DeliveryWithdrawn, d.WorkerID(), d, PriorityHigh, map[string]any{
		"deliveryNumber": d.Number().String(),
		"reason":         d.FailureReason(),
	}, at)
}

func deliveryEvent(t Type, recipient kernel.UUID, d *delivery.Delivery, p Priority, data map[string]any, at time.Time) Event {
	return Event{
		Type:        t,
		RecipientID: recipient,
		OrderID:     ptr(d.OrderID()),
		DeliveryID:  ptr(d.ID()),
		Priority:    p,
		Data:        data,
		OccurredAt:  at,
	}
}
