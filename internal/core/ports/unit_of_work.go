package ports

import (
	"context"
)

type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one database transaction. Repositories obtained after Begin
// run inside it; before Begin they read outside any transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	ProductRepository() ProductRepository
	OrderRepository() OrderRepository
	DeliveryRepository() DeliveryRepository
	AccountDirectory() AccountDirectory
	WorkerDirectory() WorkerDirectory
	NumberSequence() NumberSequence
	StockReleaseQueue() StockReleaseQueue
}
