package directoryrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/worker"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountDirectory implements AccountDirectory using GORM.
type GormAccountDirectory struct {
	db *gorm.DB
}

func NewGormAccountDirectory(db *gorm.DB) *GormAccountDirectory {
	return &GormAccountDirectory{db: db}
}

func (d *GormAccountDirectory) Get(ctx context.Context, id kernel.UUID) (*account.Account, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AccountDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("account", id.String())
		}
		return nil, err
	}

	return accountToDomain(dto)
}

// Save inserts or replaces the account.
func (d *GormAccountDirectory) Save(ctx context.Context, a *account.Account) error {
	if err := a.Validate(); err != nil {
		return err
	}
	dto := accountFromDomain(a)
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}

// GormWorkerDirectory implements WorkerDirectory using GORM.
type GormWorkerDirectory struct {
	db *gorm.DB
}

func NewGormWorkerDirectory(db *gorm.DB) *GormWorkerDirectory {
	return &GormWorkerDirectory{db: db}
}

func (d *GormWorkerDirectory) Get(ctx context.Context, id kernel.UUID) (*worker.DeliveryWorker, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto WorkerDTO
	if err := d.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery worker", id.String())
		}
		return nil, err
	}

	return workerToDomain(dto)
}

func (d *GormWorkerDirectory) ListActive(ctx context.Context) ([]*worker.DeliveryWorker, error) {
	var dtos []WorkerDTO
	if err := d.db.WithContext(ctx).Where("active").Order("name, id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	workers := make([]*worker.DeliveryWorker, 0, len(dtos))
	for _, dto := range dtos {
		w, err := workerToDomain(dto)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	return workers, nil
}

// Save inserts or replaces the worker.
func (d *GormWorkerDirectory) Save(ctx context.Context, w *worker.DeliveryWorker) error {
	if err := w.Validate(); err != nil {
		return err
	}
	dto := workerFromDomain(w)
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&dto).Error
}
