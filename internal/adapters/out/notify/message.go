// Package notify hands lifecycle events to the notification collaborator,
// either over RabbitMQ or, when no broker is configured, into the log.
package notify

import (
	"time"

	"marketplace/internal/core/domain/events"
)

// Message is the wire form of an event.
type Message struct {
	Type              string         `json:"type"`
	RecipientID       string         `json:"recipientId"`
	RelatedOrderID    string         `json:"relatedOrderId,omitempty"`
	RelatedDeliveryID string         `json:"relatedDeliveryId,omitempty"`
	Priority          string         `json:"priority"`
	Data              map[string]any `json:"data,omitempty"`
	OccurredAt        time.Time      `json:"occurredAt"`
}

func NewMessage(e events.Event) Message {
	m := Message{
		Type:        string(e.Type),
		RecipientID: e.RecipientID.String(),
		Priority:    string(e.Priority),
		Data:        e.Data,
		OccurredAt:  e.OccurredAt.UTC(),
	}
	if e.OrderID != nil {
		m.RelatedOrderID = e.OrderID.String()
	}
	if e.DeliveryID != nil {
		m.RelatedDeliveryID = e.DeliveryID.String()
	}
	return m
}
