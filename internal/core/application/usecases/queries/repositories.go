// Package queries contains the read use cases. Handlers never open a
// transaction; repositories obtained from a fresh unit of work read straight
// from the database.
package queries

import (
	"marketplace/internal/core/ports"
)

type (
	Readers interface {
		OrderRepository() ports.OrderRepository
		DeliveryRepository() ports.DeliveryRepository
		WorkerDirectory() ports.WorkerDirectory
	}

	ReadersFactory interface {
		Create() Readers
	}
)
