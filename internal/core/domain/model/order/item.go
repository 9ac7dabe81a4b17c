package order

import (
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/pkg/errs"
)

// Item is an order line. Name, unit and price are snapshots taken when the
// order was placed; later catalog changes do not affect them.
type Item struct {
	productID   kernel.UUID
	productName string
	quantity    int
	unitPrice   kernel.Money
	unit        string
}

// NewItem snapshots a reserved product into an order line.
func NewItem(productID kernel.UUID, productName string, quantity int, unitPrice kernel.Money, unit string) (Item, error) {
	if err := productID.Validate(); err != nil {
		return Item{}, err
	}
	if strings.TrimSpace(productName) == "" {
		return Item{}, errs.NewValueIsRequiredError("product name")
	}
	if err := product.ValidateQuantity(quantity); err != nil {
		return Item{}, err
	}

	return Item{
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		unitPrice:   unitPrice,
		unit:        unit,
	}, nil
}

// ItemFromProduct snapshots p at the current price.
func ItemFromProduct(p *product.Product, quantity int) (Item, error) {
	return NewItem(p.ID(), p.Name(), quantity, p.UnitPrice(), p.Unit())
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) ProductName() string {
	return i.productName
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

func (i Item) Unit() string {
	return i.unit
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() kernel.Money {
	return i.unitPrice.Times(i.quantity)
}
