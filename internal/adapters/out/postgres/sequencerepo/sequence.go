// Package sequencerepo allocates order and delivery numbers from PostgreSQL
// sequences. Sequence values are never handed out twice, even when the
// allocating transaction rolls back.
package sequencerepo

import (
	"context"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/order"

	"gorm.io/gorm"
)

const (
	orderSequence    = "order_number_seq"
	deliverySequence = "delivery_number_seq"
)

type GormNumberSequence struct {
	db *gorm.DB
}

func NewGormNumberSequence(db *gorm.DB) *GormNumberSequence {
	return &GormNumberSequence{db: db}
}

func (s *GormNumberSequence) NextOrderNumber(ctx context.Context) (order.Number, error) {
	v, err := s.next(ctx, orderSequence)
	if err != nil {
		return order.Number{}, err
	}
	return order.NewNumber(v)
}

func (s *GormNumberSequence) NextDeliveryNumber(ctx context.Context) (delivery.Number, error) {
	v, err := s.next(ctx, deliverySequence)
	if err != nil {
		return delivery.Number{}, err
	}
	return delivery.NewNumber(v)
}

func (s *GormNumberSequence) next(ctx context.Context, sequence string) (int64, error) {
	var v int64
	err := s.db.WithContext(ctx).Raw("SELECT nextval(?::regclass)", sequence).Scan(&v).Error
	return v, err
}
