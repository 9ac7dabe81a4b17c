package queries

import (
	"context"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/services"
)

type FindEligibleWorkersQueryHandler struct {
	readers  ReadersFactory
	resolver services.AssignmentResolver
}

func NewFindEligibleWorkersQueryHandler(readers ReadersFactory, resolver services.AssignmentResolver) FindEligibleWorkersQueryHandler {
	return FindEligibleWorkersQueryHandler{
		readers:  readers,
		resolver: resolver,
	}
}

// Handle returns candidates sorted available, busy, offline and then by name.
func (h FindEligibleWorkersQueryHandler) Handle(ctx context.Context, query FindEligibleWorkersQuery) ([]services.Candidate, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if err := query.Actor().Authorize(actor.FindEligibleWorkers); err != nil {
		return nil, err
	}

	readers := h.readers.Create()
	workers, err := readers.WorkerDirectory().ListActive(ctx)
	if err != nil {
		return nil, err
	}

	load, err := readers.DeliveryRepository().CountActiveByWorker(ctx)
	if err != nil {
		return nil, err
	}

	return h.resolver.FindEligibleWorkers(query.Area(), query.Exact(), workers, load)
}
