// Package commands contains the use cases that change state. Each handler
// runs in one unit of work and either commits everything or nothing.
package commands

import (
	"context"
	"time"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	ProductRepoFactory interface {
		ProductRepository() ports.ProductRepository
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	DirectoryFactory interface {
		AccountDirectory() ports.AccountDirectory
		WorkerDirectory() ports.WorkerDirectory
	}

	SequenceFactory interface {
		NumberSequence() ports.NumberSequence
	}

	StockReleaseQueueFactory interface {
		StockReleaseQueue() ports.StockReleaseQueue
	}

	// OrderUoW covers the order-side use cases: placing, approving,
	// rejecting and cancelling orders.
	OrderUoW interface {
		TxManager
		ProductRepoFactory
		OrderRepoFactory
		DirectoryFactory
		SequenceFactory
		StockReleaseQueueFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// UoW covers the delivery use cases, which touch both aggregates.
	UoW interface {
		OrderUoW
		DeliveryRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}

	// StockReleaseUoW is used by the retry job.
	StockReleaseUoW interface {
		TxManager
		ProductRepoFactory
		StockReleaseQueueFactory
	}

	StockReleaseUoWFactory interface {
		Create() StockReleaseUoW
	}
)

// Clock returns the current time. Handlers stamp every change with it.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}
