package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// releaseOrderStock returns every line of a rejected or cancelled order to
// the ledger. Lines that cannot be released now are queued in the same
// transaction; only a failure to queue aborts the use case.
func releaseOrderStock(
	ctx context.Context,
	products ports.ProductRepository,
	queue ports.StockReleaseQueue,
	o *order.Order,
	at time.Time,
) (queued int, err error) {
	for i, item := range o.Items() {
		releaseErr := products.Release(ctx, item.ProductID(), item.Quantity())
		if releaseErr == nil {
			continue
		}
		if errors.Is(releaseErr, context.Canceled) || errors.Is(releaseErr, context.DeadlineExceeded) {
			return queued, releaseErr
		}

		if err = queue.Enqueue(ctx, ports.PendingStockRelease{
			OrderID:       o.ID(),
			LineNo:        i + 1,
			ProductID:     item.ProductID(),
			Quantity:      item.Quantity(),
			NextAttemptAt: at,
			LastError:     releaseErr.Error(),
		}); err != nil {
			return queued, fmt.Errorf("queue stock release for %s line %d: %w", o.Number(), i+1, err)
		}
		queued++
	}

	return queued, nil
}
