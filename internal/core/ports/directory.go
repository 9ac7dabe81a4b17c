package ports

import (
	"context"

	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/worker"
)

// AccountDirectory resolves company and shopkeeper accounts.
type AccountDirectory interface {
	Get(ctx context.Context, id kernel.UUID) (*account.Account, error)
}

// WorkerDirectory resolves delivery workers.
type WorkerDirectory interface {
	Get(ctx context.Context, id kernel.UUID) (*worker.DeliveryWorker, error)

	// ListActive returns active workers ordered by name.
	ListActive(ctx context.Context) ([]*worker.DeliveryWorker, error)
}
