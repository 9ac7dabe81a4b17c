package ports

import (
	"context"

	"marketplace/internal/core/domain/events"
)

// Notifier hands events to the notification collaborator.
type Notifier interface {
	Publish(ctx context.Context, event events.Event) error
}
