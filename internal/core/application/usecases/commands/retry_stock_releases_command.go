package commands

import (
	"errors"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrRetryStockReleasesCommandIsNotConstructed = errors.New(
	"RetryStockReleasesCommand must be created via NewRetryStockReleasesCommand constructor",
)

// RetryStockReleasesCommand drains up to batchSize due releases.
type RetryStockReleasesCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewRetryStockReleasesCommand(batchSize int) (RetryStockReleasesCommand, error) {
	if batchSize <= 0 {
		return RetryStockReleasesCommand{}, errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, "unbounded")
	}

	return RetryStockReleasesCommand{
		batchSize: batchSize,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RetryStockReleasesCommand) Validate() error {
	return c.guard.Validate(ErrRetryStockReleasesCommandIsNotConstructed)
}

func (c RetryStockReleasesCommand) BatchSize() int {
	return c.batchSize
}
