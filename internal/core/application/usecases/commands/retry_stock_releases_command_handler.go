package commands

import (
	"context"
	"time"
)

const (
	releaseBaseBackoff = 30 * time.Second
	releaseMaxBackoff  = 30 * time.Minute
)

// RetryStockReleasesResult reports one retry pass.
type RetryStockReleasesResult struct {
	Released    int
	Rescheduled int
}

// RetryStockReleasesCommandHandler applies queued releases. A release that
// still fails is pushed back with exponential backoff; releases are never
// dropped.
type RetryStockReleasesCommandHandler struct {
	uowFactory StockReleaseUoWFactory
	clock      Clock
}

func NewRetryStockReleasesCommandHandler(uowFactory StockReleaseUoWFactory, clock Clock) RetryStockReleasesCommandHandler {
	return RetryStockReleasesCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrNow(clock),
	}
}

func (h RetryStockReleasesCommandHandler) Handle(ctx context.Context, cmd RetryStockReleasesCommand) (RetryStockReleasesResult, error) {
	if err := cmd.Validate(); err != nil {
		return RetryStockReleasesResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return RetryStockReleasesResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := h.clock()
	queue := uow.StockReleaseQueue()
	due, err := queue.ClaimDue(ctx, now, cmd.BatchSize())
	if err != nil {
		return RetryStockReleasesResult{}, err
	}

	var result RetryStockReleasesResult
	products := uow.ProductRepository()
	for _, release := range due {
		releaseErr := products.Release(ctx, release.ProductID, release.Quantity)
		if releaseErr == nil {
			if err = queue.Complete(ctx, release.ID); err != nil {
				return RetryStockReleasesResult{}, err
			}
			result.Released++
			continue
		}

		attempts := release.Attempts + 1
		if err = queue.Reschedule(ctx, release.ID, attempts, now.Add(ReleaseBackoff(attempts)), releaseErr.Error()); err != nil {
			return RetryStockReleasesResult{}, err
		}
		result.Rescheduled++
	}

	if err = uow.Commit(ctx); err != nil {
		return RetryStockReleasesResult{}, err
	}

	return result, nil
}

// ReleaseBackoff doubles the wait with every attempt, capped at 30 minutes.
func ReleaseBackoff(attempts int) time.Duration {
	backoff := releaseBaseBackoff
	for i := 1; i < attempts; i++ {
		backoff *= 2
		if backoff >= releaseMaxBackoff {
			return releaseMaxBackoff
		}
	}
	return backoff
}
