package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/account"
	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// PlaceOrderCommandHandler reserves stock for every line and persists a
// pending order. On any failure the reservations already made are released
// and nothing is stored.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	clock      Clock
}

func NewPlaceOrderCommandHandler(uowFactory OrderUoWFactory, clock Clock) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		clock:      clockOrNow(clock),
	}
}

func (h PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	act := cmd.Actor()
	if err := act.Authorize(actor.PlaceOrder); err != nil {
		return nil, err
	}
	if !act.IsAdmin() && !act.ID().IsEqual(cmd.ShopkeeperID()) {
		return nil, errs.NewForbiddenError(string(actor.PlaceOrder), "orders are placed for the caller's own shop")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	directory := uow.AccountDirectory()
	company, err := directory.Get(ctx, cmd.CompanyID())
	if err != nil {
		return nil, err
	}
	if err = company.CheckTradingAs(account.Company); err != nil {
		return nil, err
	}

	destination := cmd.Destination()
	if strings.TrimSpace(destination.Address) == "" || strings.TrimSpace(destination.Area) == "" {
		shopkeeper, shopErr := directory.Get(ctx, cmd.ShopkeeperID())
		if shopErr != nil {
			return nil, shopErr
		}
		destination = destination.WithFallback(order.Destination{
			Address:      shopkeeper.Address(),
			Area:         shopkeeper.Area(),
			ContactPhone: shopkeeper.Phone(),
		})
	}

	products := uow.ProductRepository()
	items, err := h.reserve(ctx, products, cmd)
	if err != nil {
		return nil, err
	}

	placed, err := h.persist(ctx, uow, cmd, items, destination)
	if err != nil {
		return nil, compensate(ctx, products, items, err)
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return placed, nil
}

// reserve takes stock line by line. When a line fails, every earlier line is
// released before the error is returned.
func (h PlaceOrderCommandHandler) reserve(
	ctx context.Context,
	products ports.ProductRepository,
	cmd PlaceOrderCommand,
) ([]order.Item, error) {
	lines := cmd.Lines()
	items := make([]order.Item, 0, len(lines))

	for i, line := range lines {
		p, err := products.Reserve(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, compensate(ctx, products, items, err)
		}

		item, err := order.ItemFromProduct(p, line.Quantity)
		if err != nil {
			err = compensate(ctx, products, items, err)
			if releaseErr := products.Release(ctx, line.ProductID, line.Quantity); releaseErr != nil {
				err = errors.Join(err, fmt.Errorf("release %s: %w", line.ProductID, releaseErr))
			}
			return nil, err
		}
		items = append(items, item)

		if !p.BelongsTo(cmd.CompanyID()) {
			return nil, compensate(ctx, products, items, errs.NewValueIsInvalidErrorWithCause(
				"items", fmt.Errorf("line %d: product %s is not sold by company %s", i+1, p.ID(), cmd.CompanyID()),
			))
		}
	}

	return items, nil
}

func (h PlaceOrderCommandHandler) persist(
	ctx context.Context,
	uow OrderUoW,
	cmd PlaceOrderCommand,
	items []order.Item,
	destination order.Destination,
) (*order.Order, error) {
	number, err := uow.NumberSequence().NextOrderNumber(ctx)
	if err != nil {
		return nil, err
	}

	placed, err := order.NewOrder(order.Placement{
		ID:            cmd.OrderID(),
		Number:        number,
		ShopkeeperID:  cmd.ShopkeeperID(),
		CompanyID:     cmd.CompanyID(),
		Items:         items,
		Destination:   destination,
		PaymentMethod: cmd.PaymentMethod(),
		CreatedBy:     cmd.Actor().ID(),
		At:            h.clock(),
	})
	if err != nil {
		return nil, err
	}

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return nil, err
	}

	return placed, nil
}

// compensate releases reserved lines and returns cause. Inside a database
// transaction the rollback undoes the reservations as well; stores without
// transactions rely on this, so a release that fails is joined to cause
// rather than dropped.
func compensate(ctx context.Context, products ports.ProductRepository, items []order.Item, cause error) error {
	var failed []error
	for _, item := range items {
		if err := products.Release(ctx, item.ProductID(), item.Quantity()); err != nil {
			failed = append(failed, fmt.Errorf("release %s: %w", item.ProductID(), err))
		}
	}
	if len(failed) == 0 {
		return cause
	}
	return errors.Join(append([]error{cause}, failed...)...)
}
