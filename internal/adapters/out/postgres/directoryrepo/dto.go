// Package directoryrepo reads company, shopkeeper and delivery worker
// accounts. The rows are owned by the account management collaborator; this
// package only writes them to seed environments and tests.
package directoryrepo

import (
	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/worker"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type AccountDTO struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	Kind    string
	Name    string
	Active  bool
	Address string
	Area    string
	Phone   string
}

func (AccountDTO) TableName() string {
	return "accounts"
}

type WorkerDTO struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Name          string
	Phone         string
	AssignedAreas pq.StringArray `gorm:"type:text[]"`
	Active        bool
	Online        bool
	VehicleType   string
	VehicleNumber string
}

func (WorkerDTO) TableName() string {
	return "delivery_workers"
}

func accountFromDomain(a *account.Account) AccountDTO {
	return AccountDTO{
		ID:      a.ID().Bytes(),
		Kind:    string(a.Kind()),
		Name:    a.Name(),
		Active:  a.IsActive(),
		Address: a.Address(),
		Area:    a.Area(),
		Phone:   a.Phone(),
	}
}

func accountToDomain(dto AccountDTO) (*account.Account, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return account.RestoreAccount(id, account.Kind(dto.Kind), dto.Name, dto.Active, dto.Address, dto.Area, dto.Phone)
}

func workerFromDomain(w *worker.DeliveryWorker) WorkerDTO {
	vehicle := w.Vehicle()
	return WorkerDTO{
		ID:            w.ID().Bytes(),
		Name:          w.Name(),
		Phone:         w.Phone(),
		AssignedAreas: pq.StringArray(w.AssignedAreas()),
		Active:        w.IsActive(),
		Online:        w.IsOnline(),
		VehicleType:   vehicle.Type,
		VehicleNumber: vehicle.Number,
	}
}

func workerToDomain(dto WorkerDTO) (*worker.DeliveryWorker, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return worker.RestoreDeliveryWorker(
		id,
		dto.Name, dto.Phone,
		[]string(dto.AssignedAreas),
		dto.Active, dto.Online,
		worker.Vehicle{Type: dto.VehicleType, Number: dto.VehicleNumber},
	)
}
