// Package ports declares what the application core needs from the outside:
// persistence, directory lookups, sequences and notification.
package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/product"
)

// ProductRepository is the inventory ledger's storage.
type ProductRepository interface {
	// Add stores a new catalog entry.
	Add(ctx context.Context, p *product.Product) error

	Get(ctx context.Context, id kernel.UUID) (*product.Product, error)

	// Reserve atomically takes quantity units out of stock and returns the
	// product as it is after the decrement. It fails with NotFound,
	// Unavailable or InsufficientStock and changes nothing in that case.
	Reserve(ctx context.Context, id kernel.UUID, quantity int) (*product.Product, error)

	// Release atomically puts quantity units back. A failed release leaves
	// the surrounding transaction usable.
	Release(ctx context.Context, id kernel.UUID, quantity int) error
}
