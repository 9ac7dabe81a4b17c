// Package releaserepo stores stock releases that failed inside the
// transaction of a reject or cancel and are retried by the background job.
package releaserepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PendingReleaseDTO struct {
	ID            int64     `gorm:"primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid"`
	LineNo        int
	ProductID     uuid.UUID `gorm:"type:uuid"`
	Quantity      int
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
	CreatedAt     time.Time
}

func (PendingReleaseDTO) TableName() string {
	return "pending_stock_releases"
}

// GormStockReleaseQueue implements StockReleaseQueue using GORM.
type GormStockReleaseQueue struct {
	db *gorm.DB
}

func NewGormStockReleaseQueue(db *gorm.DB) *GormStockReleaseQueue {
	return &GormStockReleaseQueue{db: db}
}

// Enqueue records the release once per order line; repeats are ignored.
func (q *GormStockReleaseQueue) Enqueue(ctx context.Context, release ports.PendingStockRelease) error {
	if err := release.OrderID.Validate(); err != nil {
		return err
	}
	if err := release.ProductID.Validate(); err != nil {
		return err
	}

	dto := PendingReleaseDTO{
		OrderID:       release.OrderID.Bytes(),
		LineNo:        release.LineNo,
		ProductID:     release.ProductID.Bytes(),
		Quantity:      release.Quantity,
		Attempts:      release.Attempts,
		NextAttemptAt: release.NextAttemptAt,
		LastError:     release.LastError,
	}

	return q.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "line_no"}},
			DoNothing: true,
		}).
		Create(&dto).Error
}

// ClaimDue locks due rows with SKIP LOCKED so concurrent job runs split the
// work instead of blocking each other.
func (q *GormStockReleaseQueue) ClaimDue(ctx context.Context, now time.Time, limit int) ([]ports.PendingStockRelease, error) {
	if limit <= 0 {
		return nil, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	var dtos []PendingReleaseDTO
	err := q.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("next_attempt_at <= ?", now).
		Order("next_attempt_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	releases := make([]ports.PendingStockRelease, 0, len(dtos))
	for _, dto := range dtos {
		release, convErr := toPort(dto)
		if convErr != nil {
			return nil, convErr
		}
		releases = append(releases, release)
	}
	return releases, nil
}

func (q *GormStockReleaseQueue) Complete(ctx context.Context, id int64) error {
	return q.db.WithContext(ctx).Delete(&PendingReleaseDTO{}, id).Error
}

func (q *GormStockReleaseQueue) Reschedule(ctx context.Context, id int64, attempts int, next time.Time, lastErr string) error {
	result := q.db.WithContext(ctx).
		Model(&PendingReleaseDTO{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"attempts":        attempts,
			"next_attempt_at": next,
			"last_error":      lastErr,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("pending stock release", id)
	}
	return nil
}

func toPort(dto PendingReleaseDTO) (ports.PendingStockRelease, error) {
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return ports.PendingStockRelease{}, err
	}
	productID, err := kernel.UUIDFromGoogle(dto.ProductID)
	if err != nil {
		return ports.PendingStockRelease{}, err
	}
	return ports.PendingStockRelease{
		ID:            dto.ID,
		OrderID:       orderID,
		LineNo:        dto.LineNo,
		ProductID:     productID,
		Quantity:      dto.Quantity,
		Attempts:      dto.Attempts,
		NextAttemptAt: dto.NextAttemptAt,
		LastError:     dto.LastError,
	}, nil
}
