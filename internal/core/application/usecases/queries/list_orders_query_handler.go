package queries

import (
	"context"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/actor"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads order rows directly, without loading items
// or timelines.
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	act := query.Actor()
	if err := act.Authorize(actor.ViewOrder); err != nil {
		return nil, err
	}

	where, args := visibility(act)
	if query.Status() != order.Unknown {
		where += " AND status = ?"
		args = append(args, query.Status().String())
	}
	args = append(args, query.Limit())

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			number,
			status,
			shopkeeper_id,
			company_id,
			delivery_worker_id,
			area,
			final_amount,
			created_at
		FROM orders
		WHERE `+where+`
		ORDER BY created_at DESC, number DESC
		LIMIT ?
	`, args...).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]OrderSummary, 0)
	for rows.Next() {
		var (
			id, shopkeeperID, companyID uuid.UUID
			workerID                    uuid.NullUUID
			number                      int64
			status, area                string
			final                       decimal.Decimal
			createdAt                   time.Time
		)

		if err = rows.Scan(&id, &number, &status, &shopkeeperID, &companyID, &workerID, &area, &final, &createdAt); err != nil {
			return nil, err
		}

		summary, convErr := toSummary(id, number, status, shopkeeperID, companyID, workerID, area, final, createdAt)
		if convErr != nil {
			return nil, fmt.Errorf("order row %s: %w", id, convErr)
		}
		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

// visibility restricts rows to the orders the actor is a party to.
func visibility(act actor.Actor) (string, []any) {
	switch act.Role() {
	case actor.Company:
		return "company_id = ?", []any{act.ID().Bytes()}
	case actor.Shopkeeper:
		return "shopkeeper_id = ?", []any{act.ID().Bytes()}
	case actor.DeliveryWorker:
		return "delivery_worker_id = ?", []any{act.ID().Bytes()}
	default:
		return "TRUE", nil
	}
}

func toSummary(
	id uuid.UUID,
	number int64,
	status string,
	shopkeeperID, companyID uuid.UUID,
	workerID uuid.NullUUID,
	area string,
	final decimal.Decimal,
	createdAt time.Time,
) (OrderSummary, error) {
	var (
		s   OrderSummary
		err error
	)

	if s.ID, err = kernel.UUIDFromGoogle(id); err != nil {
		return OrderSummary{}, err
	}
	if s.Number, err = order.NewNumber(number); err != nil {
		return OrderSummary{}, err
	}
	if s.Status, err = order.ParseStatus(status); err != nil {
		return OrderSummary{}, err
	}
	if s.ShopkeeperID, err = kernel.UUIDFromGoogle(shopkeeperID); err != nil {
		return OrderSummary{}, err
	}
	if s.CompanyID, err = kernel.UUIDFromGoogle(companyID); err != nil {
		return OrderSummary{}, err
	}
	if workerID.Valid {
		w, wErr := kernel.UUIDFromGoogle(workerID.UUID)
		if wErr != nil {
			return OrderSummary{}, wErr
		}
		s.DeliveryWorkerID = &w
	}
	if s.FinalAmount, err = kernel.NewMoney(final); err != nil {
		return OrderSummary{}, err
	}

	s.Area = area
	s.CreatedAt = createdAt
	return s, nil
}
