package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// PaymentMethod is how the shopkeeper settles the order.
type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "cash_on_delivery"
	MobileBanking  PaymentMethod = "mobile_banking"
	BankTransfer   PaymentMethod = "bank_transfer"
	Credit         PaymentMethod = "credit"
)

func (p PaymentMethod) Validate() error {
	switch p {
	case CashOnDelivery, MobileBanking, BankTransfer, Credit:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("payment method", fmt.Errorf("%q is not supported", string(p)))
	}
}

// CollectsOnDelivery reports whether the worker must collect the amount.
func (p PaymentMethod) CollectsOnDelivery() bool {
	return p == CashOnDelivery
}
