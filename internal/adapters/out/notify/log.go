package notify

import (
	"context"

	"marketplace/internal/core/domain/events"

	"go.uber.org/zap"
)

// LogNotifier writes events to the log. It stands in for the broker in
// development.
type LogNotifier struct {
	log *zap.Logger
}

func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Publish(_ context.Context, event events.Event) error {
	m := NewMessage(event)
	n.log.Info("notification",
		zap.String("type", m.Type),
		zap.String("recipient", m.RecipientID),
		zap.String("priority", m.Priority),
		zap.String("order", m.RelatedOrderID),
		zap.String("delivery", m.RelatedDeliveryID),
		zap.Any("data", m.Data),
		zap.Time("occurred_at", m.OccurredAt),
	)
	return nil
}
