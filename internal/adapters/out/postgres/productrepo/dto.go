// Package productrepo persists the inventory ledger.
package productrepo

import (
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/product"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductDTO maps a product onto the products table.
type ProductDTO struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	CompanyID     uuid.UUID       `gorm:"type:uuid"`
	Name          string
	UnitPrice     decimal.Decimal `gorm:"type:numeric(12,2)"`
	Unit          string
	StockQuantity int
	Active        bool
	Available     bool
	OrderCount    int
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(p *product.Product) ProductDTO {
	return ProductDTO{
		ID:            p.ID().Bytes(),
		CompanyID:     p.CompanyID().Bytes(),
		Name:          p.Name(),
		UnitPrice:     p.UnitPrice().Decimal(),
		Unit:          p.Unit(),
		StockQuantity: p.StockQuantity(),
		Active:        p.IsActive(),
		Available:     p.IsAvailable(),
		OrderCount:    p.OrderCount(),
	}
}

func toDomain(dto ProductDTO) (*product.Product, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}

	companyID, err := kernel.UUIDFromGoogle(dto.CompanyID)
	if err != nil {
		return nil, err
	}

	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return nil, err
	}

	return product.RestoreProduct(
		id, companyID,
		dto.Name,
		price,
		dto.Unit,
		dto.StockQuantity,
		dto.Active, dto.Available,
		dto.OrderCount,
	)
}
