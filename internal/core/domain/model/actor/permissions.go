package actor

import (
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/order"
)

// Action names something an actor may be allowed to do.
type Action string

const (
	PlaceOrder          Action = "place order"
	ViewOrder           Action = "view order"
	AssignDelivery      Action = "assign delivery"
	ReassignDelivery    Action = "reassign delivery"
	CompleteDelivery    Action = "complete delivery"
	ReportIssue         Action = "report delivery issue"
	ViewDelivery        Action = "view delivery"
	FindEligibleWorkers Action = "find eligible workers"
)

// OrderTransition is the action of moving an order into target.
func OrderTransition(target order.Status) Action {
	return Action("order to " + target.String())
}

// DeliveryTransition is the action of moving a delivery into target.
func DeliveryTransition(target delivery.Status) Action {
	return Action("delivery to " + target.String())
}

// OverrideOrderTransition is the action of taking an override edge.
const OverrideOrderTransition Action = "override order transition"

var permissions = map[Role][]Action{
	Shopkeeper: {
		PlaceOrder,
		ViewOrder,
		ViewDelivery,
		OrderTransition(order.Cancelled),
	},
	Company: {
		ViewOrder,
		ViewDelivery,
		OrderTransition(order.Approved),
		OrderTransition(order.Rejected),
		OrderTransition(order.Processing),
		AssignDelivery,
		ReassignDelivery,
		FindEligibleWorkers,
	},
	DeliveryWorker: {
		ViewOrder,
		ViewDelivery,
		DeliveryTransition(delivery.PickedUp),
		DeliveryTransition(delivery.InTransit),
		DeliveryTransition(delivery.Delivered),
		DeliveryTransition(delivery.Failed),
		CompleteDelivery,
		ReportIssue,
	},
}

// allowed consults the table. Admins may do everything.
func allowed(role Role, action Action) bool {
	if role == Admin {
		return true
	}
	for _, a := range permissions[role] {
		if a == action {
			return true
		}
	}
	return false
}
