// Package orderrepo persists order aggregates: the order row, its lines and
// its append-only timeline.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO maps an order onto the orders table. Lines and timeline live in
// their own tables.
type OrderDTO struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number             int64
	ShopkeeperID       uuid.UUID  `gorm:"type:uuid"`
	CompanyID          uuid.UUID  `gorm:"type:uuid"`
	Status             string
	DeliveryWorkerID   *uuid.UUID `gorm:"type:uuid"`
	Address            string
	Area               string
	ContactPhone       string
	Notes              string
	PaymentMethod      string
	TotalAmount        decimal.Decimal `gorm:"type:numeric(12,2)"`
	Tax                decimal.Decimal `gorm:"type:numeric(12,2)"`
	DeliveryCharge     decimal.Decimal `gorm:"type:numeric(12,2)"`
	FinalAmount        decimal.Decimal `gorm:"type:numeric(12,2)"`
	CreatedBy          uuid.UUID       `gorm:"type:uuid"`
	ApprovedBy         *uuid.UUID      `gorm:"type:uuid"`
	RejectionReason    string
	CancellationReason string
	CreatedAt          time.Time
	DeliveredAt        *time.Time

	Items    []ItemDTO          `gorm:"foreignKey:OrderID;references:ID"`
	Timeline []TimelineEntryDTO `gorm:"foreignKey:OrderID;references:ID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO is one order line.
type ItemDTO struct {
	OrderID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	LineNo      int       `gorm:"primaryKey;autoIncrement:false"`
	ProductID   uuid.UUID `gorm:"type:uuid"`
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2)"`
	Unit        string
}

func (ItemDTO) TableName() string {
	return "order_items"
}

// TimelineEntryDTO is one status change. Seq is the entry's position.
type TimelineEntryDTO struct {
	OrderID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq     int       `gorm:"primaryKey;autoIncrement:false"`
	Status  string
	At      time.Time
	ActorID uuid.UUID `gorm:"type:uuid"`
	Note    string
}

func (TimelineEntryDTO) TableName() string {
	return "order_timeline"
}

func fromDomain(o *order.Order) OrderDTO {
	dest := o.Destination()
	totals := o.Totals()

	dto := OrderDTO{
		ID:                 o.ID().Bytes(),
		Number:             o.Number().Value(),
		ShopkeeperID:       o.ShopkeeperID().Bytes(),
		CompanyID:          o.CompanyID().Bytes(),
		Status:             o.Status().String(),
		DeliveryWorkerID:   optionalID(o.DeliveryWorkerID()),
		Address:            dest.Address,
		Area:               dest.Area,
		ContactPhone:       dest.ContactPhone,
		Notes:              dest.Notes,
		PaymentMethod:      string(o.PaymentMethod()),
		TotalAmount:        totals.Total().Decimal(),
		Tax:                totals.Tax().Decimal(),
		DeliveryCharge:     totals.DeliveryCharge().Decimal(),
		FinalAmount:        totals.Final().Decimal(),
		CreatedBy:          o.CreatedBy().Bytes(),
		ApprovedBy:         optionalID(o.ApprovedBy()),
		RejectionReason:    o.RejectionReason(),
		CancellationReason: o.CancellationReason(),
		CreatedAt:          o.CreatedAt(),
		DeliveredAt:        o.DeliveredAt(),
	}

	for i, item := range o.Items() {
		dto.Items = append(dto.Items, ItemDTO{
			OrderID:     dto.ID,
			LineNo:      i + 1,
			ProductID:   item.ProductID().Bytes(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Decimal(),
			Unit:        item.Unit(),
		})
	}

	for i, entry := range o.Timeline() {
		dto.Timeline = append(dto.Timeline, TimelineEntryDTO{
			OrderID: dto.ID,
			Seq:     i + 1,
			Status:  entry.Status.String(),
			At:      entry.At,
			ActorID: entry.ActorID.Bytes(),
			Note:    entry.Note,
		})
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	var (
		s   order.State
		err error
	)

	if s.ID, err = kernel.UUIDFromGoogle(dto.ID); err != nil {
		return nil, err
	}
	if s.Number, err = order.NewNumber(dto.Number); err != nil {
		return nil, err
	}
	if s.ShopkeeperID, err = kernel.UUIDFromGoogle(dto.ShopkeeperID); err != nil {
		return nil, err
	}
	if s.CompanyID, err = kernel.UUIDFromGoogle(dto.CompanyID); err != nil {
		return nil, err
	}
	if s.CreatedBy, err = kernel.UUIDFromGoogle(dto.CreatedBy); err != nil {
		return nil, err
	}
	if s.Status, err = order.ParseStatus(dto.Status); err != nil {
		return nil, err
	}
	if s.DeliveryWorkerID, err = restoreOptionalID(dto.DeliveryWorkerID); err != nil {
		return nil, err
	}
	if s.ApprovedBy, err = restoreOptionalID(dto.ApprovedBy); err != nil {
		return nil, err
	}
	if s.Totals, err = restoreTotals(dto); err != nil {
		return nil, err
	}

	for _, line := range dto.Items {
		item, itemErr := restoreItem(line)
		if itemErr != nil {
			return nil, itemErr
		}
		s.Items = append(s.Items, item)
	}

	for _, row := range dto.Timeline {
		entry, entryErr := restoreTimelineEntry(row)
		if entryErr != nil {
			return nil, entryErr
		}
		s.Timeline = append(s.Timeline, entry)
	}

	s.Destination = order.Destination{
		Address:      dto.Address,
		Area:         dto.Area,
		ContactPhone: dto.ContactPhone,
		Notes:        dto.Notes,
	}
	s.PaymentMethod = order.PaymentMethod(dto.PaymentMethod)
	s.RejectionReason = dto.RejectionReason
	s.CancellationReason = dto.CancellationReason
	s.CreatedAt = dto.CreatedAt
	s.DeliveredAt = dto.DeliveredAt

	return order.RestoreOrder(s)
}

func restoreTotals(dto OrderDTO) (order.Totals, error) {
	total, err := kernel.NewMoney(dto.TotalAmount)
	if err != nil {
		return order.Totals{}, err
	}
	tax, err := kernel.NewMoney(dto.Tax)
	if err != nil {
		return order.Totals{}, err
	}
	charge, err := kernel.NewMoney(dto.DeliveryCharge)
	if err != nil {
		return order.Totals{}, err
	}
	final, err := kernel.NewMoney(dto.FinalAmount)
	if err != nil {
		return order.Totals{}, err
	}
	return order.RestoreTotals(total, tax, charge, final), nil
}

func restoreItem(dto ItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromGoogle(dto.ProductID)
	if err != nil {
		return order.Item{}, err
	}
	price, err := kernel.NewMoney(dto.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, dto.ProductName, dto.Quantity, price, dto.Unit)
}

func restoreTimelineEntry(dto TimelineEntryDTO) (order.TimelineEntry, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.TimelineEntry{}, err
	}
	actorID, err := kernel.UUIDFromGoogle(dto.ActorID)
	if err != nil {
		return order.TimelineEntry{}, err
	}
	return order.TimelineEntry{
		Status:  status,
		At:      dto.At,
		ActorID: actorID,
		Note:    dto.Note,
	}, nil
}

func optionalID(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func restoreOptionalID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromGoogle(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
