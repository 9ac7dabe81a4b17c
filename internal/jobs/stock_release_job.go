package jobs

import (
	"context"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/pkg/logger"

	"go.uber.org/zap"
)

// StockReleaser applies due pending stock releases.
type StockReleaser interface {
	Handle(ctx context.Context, cmd commands.RetryStockReleasesCommand) (commands.RetryStockReleasesResult, error)
}

// StockReleaseJob retries stock releases that failed when an order was
// rejected or cancelled.
type StockReleaseJob struct {
	releaser  StockReleaser
	batchSize int
	log       *zap.Logger
}

func NewStockReleaseJob(releaser StockReleaser, batchSize int, log *zap.Logger) *StockReleaseJob {
	return &StockReleaseJob{
		releaser:  releaser,
		batchSize: batchSize,
		log:       logger.Component(log, "stock_release_job"),
	}
}

func (j *StockReleaseJob) Name() string {
	return "stock_release"
}

// Run drains the queue batch by batch. It stops when a batch comes back
// short, when nothing in a batch could be released, or when ctx ends.
func (j *StockReleaseJob) Run(ctx context.Context) {
	cmd, err := commands.NewRetryStockReleasesCommand(j.batchSize)
	if err != nil {
		j.log.Error("invalid batch size", zap.Int("batch_size", j.batchSize), zap.Error(err))
		return
	}

	var total commands.RetryStockReleasesResult
	for ctx.Err() == nil {
		result, err := j.releaser.Handle(ctx, cmd)
		if err != nil {
			j.log.Error("stock release pass failed", zap.Error(err))
			break
		}

		total.Released += result.Released
		total.Rescheduled += result.Rescheduled

		if result.Released+result.Rescheduled < j.batchSize || result.Released == 0 {
			break
		}
	}

	if total.Released > 0 || total.Rescheduled > 0 {
		j.log.Info("stock releases processed",
			zap.Int("released", total.Released),
			zap.Int("rescheduled", total.Rescheduled),
		)
	}
}
