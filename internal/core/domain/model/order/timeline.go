package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// TimelineEntry records one status change. The timeline is append-only.
type TimelineEntry struct {
	Status  Status
	At      time.Time
	ActorID kernel.UUID
	Note    string
}
