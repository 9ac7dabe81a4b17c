package services

import (
	"sort"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/worker"
	"marketplace/internal/pkg/errs"
)

// Candidate is an eligible worker annotated for the assignment screen.
type Candidate struct {
	Worker           *worker.DeliveryWorker
	Availability     worker.Availability
	ActiveDeliveries int
}

// AssignmentResolver picks delivery workers for an area. It only reads.
type AssignmentResolver struct{}

func NewAssignmentResolver() AssignmentResolver {
	return AssignmentResolver{}
}

// FindEligibleWorkers returns the active workers serving area, sorted
// available first, then busy, then offline, and by name within each group.
// activeLoad maps a worker ID to its number of active deliveries.
func (r AssignmentResolver) FindEligibleWorkers(
	area string,
	requireExactArea bool,
	workers []*worker.DeliveryWorker,
	activeLoad map[kernel.UUID]int,
) ([]Candidate, error) {
	if strings.TrimSpace(area) == "" {
		return nil, errs.NewValueIsRequiredError("area")
	}

	candidates := make([]Candidate, 0, len(workers))
	for _, w := range workers {
		if err := w.Validate(); err != nil {
			return nil, err
		}

		if !w.IsActive() || !w.Serves(area, requireExactArea) {
			continue
		}

		load := activeLoad[w.ID()]
		candidates = append(candidates, Candidate{
			Worker:           w,
			Availability:     w.AvailabilityGiven(load),
			ActiveDeliveries: load,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Availability != candidates[j].Availability {
			return candidates[i].Availability < candidates[j].Availability
		}
		return strings.ToLower(candidates[i].Worker.Name()) < strings.ToLower(candidates[j].Worker.Name())
	})

	return candidates, nil
}

// PickBest returns the first online candidate, preferring the least loaded
// among available workers. Offline workers are never picked automatically.
func (r AssignmentResolver) PickBest(
	area string,
	workers []*worker.DeliveryWorker,
	activeLoad map[kernel.UUID]int,
) (*worker.DeliveryWorker, error) {
	candidates, err := r.FindEligibleWorkers(area, false, workers, activeLoad)
	if err != nil {
		return nil, err
	}

	var best *Candidate
	for i := range candidates {
		c := &candidates[i]
		if c.Availability == worker.Offline {
			continue
		}
		if best == nil || c.ActiveDeliveries < best.ActiveDeliveries {
			best = c
		}
	}

	if best == nil {
		return nil, errs.NewUnavailableError("delivery worker for area", area)
	}
	return best.Worker, nil
}
