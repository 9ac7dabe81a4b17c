// Package deliveryrepo persists deliveries. Line snapshots and proof of
// delivery are stored as JSON documents, issues in their own table.
package deliveryrepo

import (
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DeliveryDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number           int64
	OrderID          uuid.UUID `gorm:"type:uuid"`
	ShopkeeperID     uuid.UUID `gorm:"type:uuid"`
	CompanyID        uuid.UUID `gorm:"type:uuid"`
	WorkerID         uuid.UUID `gorm:"type:uuid"`
	Items            []LineDTO `gorm:"type:jsonb;serializer:json"`
	PickupLocation   string
	DeliveryLocation string
	Area             string
	PaymentMethod    string
	AmountToCollect  decimal.Decimal `gorm:"type:numeric(12,2)"`
	Status           string
	AssignedAt       time.Time
	PickedUpAt       *time.Time
	DeliveredAt      *time.Time
	Proof            *ProofDTO `gorm:"type:jsonb;serializer:json"`
	FailureReason    string
	RouteSummary     string

	Issues []IssueDTO `gorm:"foreignKey:DeliveryID;references:ID"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// LineDTO is the JSON form of an order line snapshot.
type LineDTO struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Unit        string          `json:"unit"`
}

type ProofDTO struct {
	Signature  string    `json:"signature,omitempty"`
	PhotoRef   string    `json:"photo_ref,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CapturedAt time.Time `json:"captured_at"`
}

type IssueDTO struct {
	DeliveryID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq         int       `gorm:"primaryKey;autoIncrement:false"`
	Type        string
	Description string
	ReportedBy  uuid.UUID `gorm:"type:uuid"`
	ReportedAt  time.Time
}

func (IssueDTO) TableName() string {
	return "delivery_issues"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	dto := DeliveryDTO{
		ID:               d.ID().Bytes(),
		Number:           d.Number().Value(),
		OrderID:          d.OrderID().Bytes(),
		ShopkeeperID:     d.ShopkeeperID().Bytes(),
		CompanyID:        d.CompanyID().Bytes(),
		WorkerID:         d.WorkerID().Bytes(),
		PickupLocation:   d.PickupLocation(),
		DeliveryLocation: d.DeliveryLocation(),
		Area:             d.Area(),
		PaymentMethod:    string(d.PaymentMethod()),
		AmountToCollect:  d.AmountToCollect().Decimal(),
		Status:           d.Status().String(),
		AssignedAt:       d.AssignedAt(),
		PickedUpAt:       d.PickedUpAt(),
		DeliveredAt:      d.DeliveredAt(),
		FailureReason:    d.FailureReason(),
		RouteSummary:     d.RouteSummary(),
	}

	for _, item := range d.Items() {
		dto.Items = append(dto.Items, LineDTO{
			ProductID:   item.ProductID().Bytes(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().Decimal(),
			Unit:        item.Unit(),
		})
	}

	if p := d.Proof(); p != nil {
		dto.Proof = &ProofDTO{
			Signature:  p.Signature,
			PhotoRef:   p.PhotoRef,
			Notes:      p.Notes,
			CapturedAt: p.CapturedAt,
		}
	}

	for i, issue := range d.Issues() {
		dto.Issues = append(dto.Issues, IssueDTO{
			DeliveryID:  dto.ID,
			Seq:         i + 1,
			Type:        string(issue.Type),
			Description: issue.Description,
			ReportedBy:  issue.ReportedBy.Bytes(),
			ReportedAt:  issue.ReportedAt,
		})
	}

	return dto
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	var (
		s   delivery.State
		err error
	)

	if s.ID, err = kernel.UUIDFromGoogle(dto.ID); err != nil {
		return nil, err
	}
	if s.Number, err = delivery.NewNumber(dto.Number); err != nil {
		return nil, err
	}
	if s.OrderID, err = kernel.UUIDFromGoogle(dto.OrderID); err != nil {
		return nil, err
	}
	if s.ShopkeeperID, err = kernel.UUIDFromGoogle(dto.ShopkeeperID); err != nil {
		return nil, err
	}
	if s.CompanyID, err = kernel.UUIDFromGoogle(dto.CompanyID); err != nil {
		return nil, err
	}
	if s.WorkerID, err = kernel.UUIDFromGoogle(dto.WorkerID); err != nil {
		return nil, err
	}
	if s.Status, err = delivery.ParseStatus(dto.Status); err != nil {
		return nil, err
	}
	if s.AmountToCollect, err = kernel.NewMoney(dto.AmountToCollect); err != nil {
		return nil, err
	}

	for _, line := range dto.Items {
		item, itemErr := restoreItem(line)
		if itemErr != nil {
			return nil, itemErr
		}
		s.Items = append(s.Items, item)
	}

	for _, row := range dto.Issues {
		reportedBy, idErr := kernel.UUIDFromGoogle(row.ReportedBy)
		if idErr != nil {
			return nil, idErr
		}
		s.Issues = append(s.Issues, delivery.Issue{
			Type:        delivery.IssueType(row.Type),
			Description: row.Description,
			ReportedBy:  reportedBy,
			ReportedAt:  row.ReportedAt,
		})
	}

	if dto.Proof != nil {
		s.Proof = &delivery.Proof{
			Signature:  dto.Proof.Signature,
			PhotoRef:   dto.Proof.PhotoRef,
			Notes:      dto.Proof.Notes,
			CapturedAt: dto.Proof.CapturedAt,
		}
	}

	s.PickupLocation = dto.PickupLocation
	s.DeliveryLocation = dto.DeliveryLocation
	s.Area = dto.Area
	s.PaymentMethod = order.PaymentMethod(dto.PaymentMethod)
	s.AssignedAt = dto.AssignedAt
	s.PickedUpAt = dto.PickedUpAt
	s.DeliveredAt = dto.DeliveredAt
	s.FailureReason = dto.FailureReason
	s.RouteSummary = dto.RouteSummary

	return delivery.RestoreDelivery(s)
}

func restoreItem(line LineDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromGoogle(line.ProductID)
	if err != nil {
		return order.Item{}, err
	}
	price, err := kernel.NewMoney(line.UnitPrice)
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, line.ProductName, line.Quantity, price, line.Unit)
}
