// Package product holds the Product aggregate: the unit of the inventory
// ledger. Stock changes only through Reserve and Release, and the stock
// quantity can never become negative.
package product

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

var (
	ErrProductIsNotConstructed = errors.New("Product must be created via NewProduct or RestoreProduct constructor")
	ErrNameIsRequired          = errs.NewValueIsRequiredError("product name")
	ErrUnitIsRequired          = errs.NewValueIsRequiredError("unit")
)

// Product is a company's catalog entry together with its stock on hand.
type Product struct {
	id            kernel.UUID
	companyID     kernel.UUID
	name          string
	unitPrice     kernel.Money
	unit          string
	stockQuantity int
	active        bool
	available     bool
	orderCount    int

	isConstructed bool
}

// NewProduct creates an active, available product.
func NewProduct(
	id, companyID kernel.UUID,
	name string,
	unitPrice kernel.Money,
	unit string,
	stockQuantity int,
) (*Product, error) {
	return RestoreProduct(id, companyID, name, unitPrice, unit, stockQuantity, true, true, 0)
}

// RestoreProduct rebuilds a product from storage.
func RestoreProduct(
	id, companyID kernel.UUID,
	name string,
	unitPrice kernel.Money,
	unit string,
	stockQuantity int,
	active, available bool,
	orderCount int,
) (*Product, error) {
	p := &Product{
		unitPrice:     unitPrice,
		active:        active,
		available:     available,
		isConstructed: true,
	}

	if err := errors.Join(
		p.setID(id),
		p.setCompanyID(companyID),
		p.setName(name),
		p.setUnit(unit),
		p.setStockQuantity(stockQuantity),
		p.setOrderCount(orderCount),
	); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Product) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrProductIsNotConstructed
	}
	return nil
}

func (p *Product) ID() kernel.UUID {
	return p.id
}

func (p *Product) CompanyID() kernel.UUID {
	return p.companyID
}

func (p *Product) Name() string {
	return p.name
}

func (p *Product) UnitPrice() kernel.Money {
	return p.unitPrice
}

func (p *Product) Unit() string {
	return p.unit
}

func (p *Product) StockQuantity() int {
	return p.stockQuantity
}

func (p *Product) IsActive() bool {
	return p.active
}

func (p *Product) IsAvailable() bool {
	return p.available
}

func (p *Product) OrderCount() int {
	return p.orderCount
}

// BelongsTo reports whether the product is in companyID's catalog.
func (p *Product) BelongsTo(companyID kernel.UUID) bool {
	return p.companyID.IsEqual(companyID)
}

// CheckOrderable returns an Unavailable error when the product is inactive or
// switched off by its company.
func (p *Product) CheckOrderable() error {
	if !p.active || !p.available {
		return errs.NewUnavailableError("product", p.id.String())
	}
	return nil
}

// Reserve decrements stock by quantity and bumps the order counter. It fails
// without changing anything when the product is not orderable or the stock
// is short.
func (p *Product) Reserve(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}

	if err := p.CheckOrderable(); err != nil {
		return err
	}

	if p.stockQuantity < quantity {
		return errs.NewInsufficientStockError(p.id.String(), quantity, p.stockQuantity)
	}

	p.stockQuantity -= quantity
	p.orderCount++
	return nil
}

// Release puts quantity units back into stock. Releasing does not require the
// product to be orderable: stock returns even if the company deactivated it
// meanwhile.
func (p *Product) Release(quantity int) error {
	if err := ValidateQuantity(quantity); err != nil {
		return err
	}

	p.stockQuantity += quantity
	return nil
}

// ValidateQuantity rejects zero and negative quantities.
func ValidateQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	return nil
}

func (p *Product) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.id = id
	return nil
}

func (p *Product) setCompanyID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	p.companyID = id
	return nil
}

func (p *Product) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameIsRequired
	}
	p.name = name
	return nil
}

func (p *Product) setUnit(unit string) error {
	if strings.TrimSpace(unit) == "" {
		return ErrUnitIsRequired
	}
	p.unit = unit
	return nil
}

func (p *Product) setStockQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsOutOfRangeError("stock quantity", quantity, 0, "unbounded")
	}
	p.stockQuantity = quantity
	return nil
}

func (p *Product) setOrderCount(count int) error {
	if count < 0 {
		return errs.NewValueIsOutOfRangeError("order count", count, 0, "unbounded")
	}
	p.orderCount = count
	return nil
}
