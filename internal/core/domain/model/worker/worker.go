package worker

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrNameIsRequired         = errs.NewValueIsRequiredError("name")
	ErrWorkerIsNotConstructed = errors.New("DeliveryWorker must be created via NewDeliveryWorker or RestoreDeliveryWorker constructor")
)

// Vehicle describes what the worker rides.
type Vehicle struct {
	Type   string
	Number string
}

// DeliveryWorker is directory data about a courier account. The lifecycle
// engine reads it but never mutates it.
type DeliveryWorker struct {
	id            kernel.UUID
	name          string
	phone         string
	assignedAreas []string
	active        bool
	online        bool
	vehicle       Vehicle

	guard guard.ConstructorGuard
}

// NewDeliveryWorker creates an active, online worker.
func NewDeliveryWorker(id kernel.UUID, name, phone string, areas []string, vehicle Vehicle) (*DeliveryWorker, error) {
	return RestoreDeliveryWorker(id, name, phone, areas, true, true, vehicle)
}

func RestoreDeliveryWorker(
	id kernel.UUID,
	name, phone string,
	areas []string,
	active, online bool,
	vehicle Vehicle,
) (*DeliveryWorker, error) {
	w := &DeliveryWorker{
		phone:   phone,
		active:  active,
		online:  online,
		vehicle: vehicle,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		w.setID(id),
		w.setName(name),
	); err != nil {
		return nil, err
	}
	w.setAreas(areas)

	return w, nil
}

func (w *DeliveryWorker) Validate() error {
	if w == nil {
		return ErrWorkerIsNotConstructed
	}
	return w.guard.Validate(ErrWorkerIsNotConstructed)
}

func (w *DeliveryWorker) IsEqual(other *DeliveryWorker) bool {
	return other != nil && w.id.IsEqual(other.id)
}

func (w *DeliveryWorker) ID() kernel.UUID {
	return w.id
}

func (w *DeliveryWorker) Name() string {
	return w.name
}

func (w *DeliveryWorker) Phone() string {
	return w.phone
}

func (w *DeliveryWorker) AssignedAreas() []string {
	return append([]string(nil), w.assignedAreas...)
}

func (w *DeliveryWorker) IsActive() bool {
	return w.active
}

func (w *DeliveryWorker) IsOnline() bool {
	return w.online
}

func (w *DeliveryWorker) Vehicle() Vehicle {
	return w.vehicle
}

// CheckAssignable returns an Unavailable error for deactivated workers.
// Being offline does not block assignment.
func (w *DeliveryWorker) CheckAssignable() error {
	if !w.active {
		return errs.NewUnavailableError("delivery worker", w.id.String())
	}
	return nil
}

// Serves reports whether any of the worker's areas matches area.
func (w *DeliveryWorker) Serves(area string, exact bool) bool {
	return kernel.AnyAreaMatches(w.assignedAreas, area, exact)
}

// AvailabilityGiven classifies the worker for the assignment screen.
func (w *DeliveryWorker) AvailabilityGiven(activeDeliveries int) Availability {
	switch {
	case !w.online:
		return Offline
	case activeDeliveries > 0:
		return Busy
	default:
		return Available
	}
}

func (w *DeliveryWorker) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	w.id = id
	return nil
}

func (w *DeliveryWorker) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	w.name = name
	return nil
}

func (w *DeliveryWorker) setAreas(areas []string) {
	w.assignedAreas = make([]string, 0, len(areas))
	for _, area := range areas {
		if a := strings.TrimSpace(area); a != "" {
			w.assignedAreas = append(w.assignedAreas, a)
		}
	}
}
