package deliveryrepo

import (
	"context"
	"errors"

	"marketplace/internal/adapters/out/postgres/pgerr"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// mutableColumns are the columns a delivery changes after it was created.
var mutableColumns = []string{
	"worker_id",
	"status",
	"assigned_at",
	"picked_up_at",
	"delivered_at",
	"proof",
	"failure_reason",
	"route_summary",
}

// GormDeliveryRepository implements DeliveryRepository using GORM.
type GormDeliveryRepository struct {
	db *gorm.DB
}

func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// Add stores a new delivery. The unique index on order_id turns a second
// delivery for the same order into a Conflict.
func (r *GormDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewConflictErrorWithCause("delivery for order", d.OrderID().String(), err)
		}
		return err
	}
	return nil
}

func (r *GormDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	if err := d.Validate(); err != nil {
		return err
	}

	dto := fromDomain(d)
	db := r.db.WithContext(ctx)

	result := db.Model(&dto).Select(mutableColumns).Omit(clause.Associations).Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("delivery", d.ID().String())
	}

	if len(dto.Issues) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto.Issues).Error
}

func (r *GormDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.load(r.db.WithContext(ctx), "id", id)
}

func (r *GormDeliveryRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	return r.load(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "id", id)
}

// GetByOrderForUpdate locks the delivery of an order.
func (r *GormDeliveryRepository) GetByOrderForUpdate(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	return r.load(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), "order_id", orderID)
}

func (r *GormDeliveryRepository) load(db *gorm.DB, column string, id kernel.UUID) (*delivery.Delivery, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	err := db.
		Preload("Issues", func(tx *gorm.DB) *gorm.DB { return tx.Order("seq") }).
		First(&dto, column+" = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormDeliveryRepository) ExistsForOrder(ctx context.Context, orderID kernel.UUID) (bool, error) {
	if err := orderID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Count(&count).Error
	return count > 0, err
}

func (r *GormDeliveryRepository) CountActiveByWorker(ctx context.Context) (map[kernel.UUID]int, error) {
	var rows []struct {
		WorkerID uuid.UUID
		Active   int
	}

	err := r.db.WithContext(ctx).
		Model(&DeliveryDTO{}).
		Select("worker_id, count(*) AS active").
		Where("status IN ?", activeStatusNames()).
		Group("worker_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[kernel.UUID]int, len(rows))
	for _, row := range rows {
		id, idErr := kernel.UUIDFromGoogle(row.WorkerID)
		if idErr != nil {
			return nil, idErr
		}
		counts[id] = row.Active
	}
	return counts, nil
}

func activeStatusNames() []string {
	var names []string
	for _, s := range delivery.AllStatuses() {
		if s.IsActive() {
			names = append(names, s.String())
		}
	}
	return names
}
