package order

import (
	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

var (
	// TaxRate applied to the item total.
	TaxRate = decimal.RequireFromString("0.05")

	// DeliveryCharge is the flat charge added to every order.
	DeliveryCharge = kernel.MoneyFromInt(50)
)

// Totals holds the amounts computed once when an order is created.
type Totals struct {
	total          kernel.Money
	tax            kernel.Money
	deliveryCharge kernel.Money
	final          kernel.Money
}

// ComputeTotals sums the line totals and applies tax and the delivery charge.
func ComputeTotals(items []Item) Totals {
	total := kernel.Zero
	for _, item := range items {
		total = total.Add(item.LineTotal())
	}

	tax := total.Percent(TaxRate)

	return Totals{
		total:          total,
		tax:            tax,
		deliveryCharge: DeliveryCharge,
		final:          total.Add(tax).Add(DeliveryCharge),
	}
}

// RestoreTotals rebuilds persisted totals as they were stored.
func RestoreTotals(total, tax, deliveryCharge, final kernel.Money) Totals {
	return Totals{
		total:          total,
		tax:            tax,
		deliveryCharge: deliveryCharge,
		final:          final,
	}
}

func (t Totals) Total() kernel.Money {
	return t.total
}

func (t Totals) Tax() kernel.Money {
	return t.tax
}

func (t Totals) DeliveryCharge() kernel.Money {
	return t.deliveryCharge
}

func (t Totals) Final() kernel.Money {
	return t.final
}
