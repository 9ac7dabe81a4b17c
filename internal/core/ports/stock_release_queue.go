package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// PendingStockRelease is a release that could not be applied in the
// transaction that rejected or cancelled its order.
type PendingStockRelease struct {
	ID            int64
	OrderID       kernel.UUID
	LineNo        int
	ProductID     kernel.UUID
	Quantity      int
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
}

// StockReleaseQueue keeps failed releases until they succeed.
type StockReleaseQueue interface {
	// Enqueue is idempotent per order line.
	Enqueue(ctx context.Context, release PendingStockRelease) error

	// ClaimDue locks up to limit releases due at now, skipping rows another
	// worker already holds.
	ClaimDue(ctx context.Context, now time.Time, limit int) ([]PendingStockRelease, error)

	Complete(ctx context.Context, id int64) error
	Reschedule(ctx context.Context, id int64, attempts int, next time.Time, lastErr string) error
}
