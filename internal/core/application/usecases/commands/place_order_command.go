package commands

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/product"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
	ErrOrderLinesAreRequired = errs.NewValueIsRequiredError("items")
)

// OrderLine is one requested product and quantity.
type OrderLine struct {
	ProductID kernel.UUID
	Quantity  int
}

// PlaceOrderCommand asks to buy products from one company.
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID       kernel.UUID
	actor         actor.Actor
	shopkeeperID  kernel.UUID
	companyID     kernel.UUID
	lines         []OrderLine
	destination   order.Destination
	paymentMethod order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the request shape. Stock and catalog checks
// happen in the handler.
func NewPlaceOrderCommand(
	orderID kernel.UUID,
	act actor.Actor,
	shopkeeperID, companyID kernel.UUID,
	lines []OrderLine,
	destination order.Destination,
	paymentMethod order.PaymentMethod,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		actor:         act,
		destination:   destination,
		paymentMethod: paymentMethod,
		guard:         guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderID.Validate(),
		shopkeeperID.Validate(),
		companyID.Validate(),
		cmd.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}
	cmd.orderID = orderID
	cmd.shopkeeperID = shopkeeperID
	cmd.companyID = companyID

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c PlaceOrderCommand) Actor() actor.Actor {
	return c.actor
}

func (c PlaceOrderCommand) ShopkeeperID() kernel.UUID {
	return c.shopkeeperID
}

func (c PlaceOrderCommand) CompanyID() kernel.UUID {
	return c.companyID
}

func (c PlaceOrderCommand) Lines() []OrderLine {
	return append([]OrderLine(nil), c.lines...)
}

func (c PlaceOrderCommand) Destination() order.Destination {
	return c.destination
}

func (c PlaceOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c *PlaceOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return ErrOrderLinesAreRequired
	}

	seen := make(map[kernel.UUID]struct{}, len(lines))
	for i, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return err
		}
		if err := product.ValidateQuantity(line.Quantity); err != nil {
			return err
		}
		if _, dup := seen[line.ProductID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("items", fmt.Errorf("line %d repeats product %s", i+1, line.ProductID))
		}
		seen[line.ProductID] = struct{}{}
	}

	c.lines = append([]OrderLine(nil), lines...)
	return nil
}
