package http

import (
	"time"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
)

// Error is the body of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type OrderLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type DestinationBody struct {
	Address      string `json:"address"`
	Area         string `json:"area"`
	ContactPhone string `json:"contactPhone,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type PlaceOrderRequest struct {
	ShopkeeperID  string             `json:"shopkeeperId"`
	CompanyID     string             `json:"companyId"`
	Items         []OrderLineRequest `json:"items"`
	Destination   DestinationBody    `json:"destination"`
	PaymentMethod string             `json:"paymentMethod"`
}

type StatusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type AssignDeliveryRequest struct {
	WorkerID       string `json:"workerId"`
	PickupLocation string `json:"pickupLocation"`
	RouteSummary   string `json:"routeSummary"`
}

type CompleteDeliveryRequest struct {
	Signature string `json:"signature"`
	PhotoRef  string `json:"photoRef"`
	Notes     string `json:"notes"`
}

type ReportIssueRequest struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Resolvable  *bool  `json:"resolvable"`
	Resolution  string `json:"resolution"`
}

type ReassignRequest struct {
	WorkerID string `json:"workerId"`
}

type ItemResponse struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	Unit        string `json:"unit"`
	LineTotal   string `json:"lineTotal"`
}

type TotalsResponse struct {
	Total          string `json:"total"`
	Tax            string `json:"tax"`
	DeliveryCharge string `json:"deliveryCharge"`
	FinalAmount    string `json:"finalAmount"`
}

type TimelineResponse struct {
	Status  string    `json:"status"`
	At      time.Time `json:"at"`
	ActorID string    `json:"actorId"`
	Note    string    `json:"note,omitempty"`
}

type OrderResponse struct {
	ID                 string             `json:"id"`
	Number             string             `json:"number"`
	ShopkeeperID       string             `json:"shopkeeperId"`
	CompanyID          string             `json:"companyId"`
	Status             string             `json:"status"`
	Items              []ItemResponse     `json:"items"`
	Totals             TotalsResponse     `json:"totals"`
	DeliveryWorkerID   *string            `json:"deliveryWorkerId,omitempty"`
	Destination        DestinationBody    `json:"destination"`
	PaymentMethod      string             `json:"paymentMethod"`
	Timeline           []TimelineResponse `json:"timeline"`
	ApprovedBy         *string            `json:"approvedBy,omitempty"`
	RejectionReason    string             `json:"rejectionReason,omitempty"`
	CancellationReason string             `json:"cancellationReason,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
	DeliveredAt        *time.Time         `json:"deliveredAt,omitempty"`
}

type OrderStatusResponse struct {
	Order          OrderResponse `json:"order"`
	QueuedReleases int           `json:"queuedReleases,omitempty"`
}

type OrderSummaryResponse struct {
	ID               string    `json:"id"`
	Number           string    `json:"number"`
	Status           string    `json:"status"`
	ShopkeeperID     string    `json:"shopkeeperId"`
	CompanyID        string    `json:"companyId"`
	DeliveryWorkerID *string   `json:"deliveryWorkerId,omitempty"`
	Area             string    `json:"area"`
	FinalAmount      string    `json:"finalAmount"`
	CreatedAt        time.Time `json:"createdAt"`
}

type IssueResponse struct {
	Type        string    `json:"type"`
	Description string    `json:"description"`
	ReportedBy  string    `json:"reportedBy"`
	ReportedAt  time.Time `json:"reportedAt"`
}

type ProofResponse struct {
	Signature  string    `json:"signature,omitempty"`
	PhotoRef   string    `json:"photoRef,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
}

type DeliveryResponse struct {
	ID               string          `json:"id"`
	Number           string          `json:"number"`
	OrderID          string          `json:"orderId"`
	ShopkeeperID     string          `json:"shopkeeperId"`
	CompanyID        string          `json:"companyId"`
	WorkerID         string          `json:"workerId"`
	Items            []ItemResponse  `json:"items"`
	PickupLocation   string          `json:"pickupLocation"`
	DeliveryLocation string          `json:"deliveryLocation"`
	Area             string          `json:"area"`
	PaymentMethod    string          `json:"paymentMethod"`
	AmountToCollect  string          `json:"amountToCollect"`
	Status           string          `json:"status"`
	AssignedAt       time.Time       `json:"assignedAt"`
	PickedUpAt       *time.Time      `json:"pickedUpAt,omitempty"`
	DeliveredAt      *time.Time      `json:"deliveredAt,omitempty"`
	Issues           []IssueResponse `json:"issues"`
	Proof            *ProofResponse  `json:"proof,omitempty"`
	FailureReason    string          `json:"failureReason,omitempty"`
	RouteSummary     string          `json:"routeSummary,omitempty"`
}

type DeliveryChangeResponse struct {
	Delivery       DeliveryResponse `json:"delivery"`
	CancelledOrder *OrderResponse   `json:"cancelledOrder,omitempty"`
}

type CandidateResponse struct {
	WorkerID         string   `json:"workerId"`
	Name             string   `json:"name"`
	Phone            string   `json:"phone,omitempty"`
	AssignedAreas    []string `json:"assignedAreas"`
	Availability     string   `json:"availability"`
	ActiveDeliveries int      `json:"activeDeliveries"`
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func toItems(items []order.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ItemResponse{
			ProductID:   item.ProductID().String(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice().String(),
			Unit:        item.Unit(),
			LineTotal:   item.LineTotal().String(),
		})
	}
	return out
}

func toOrderResponse(o *order.Order) OrderResponse {
	totals := o.Totals()
	dest := o.Destination()

	timeline := make([]TimelineResponse, 0, len(o.Timeline()))
	for _, entry := range o.Timeline() {
		timeline = append(timeline, TimelineResponse{
			Status:  entry.Status.String(),
			At:      entry.At,
			ActorID: entry.ActorID.String(),
			Note:    entry.Note,
		})
	}

	return OrderResponse{
		ID:           o.ID().String(),
		Number:       o.Number().String(),
		ShopkeeperID: o.ShopkeeperID().String(),
		CompanyID:    o.CompanyID().String(),
		Status:       o.Status().String(),
		Items:        toItems(o.Items()),
		Totals: TotalsResponse{
			Total:          totals.Total().String(),
			Tax:            totals.Tax().String(),
			DeliveryCharge: totals.DeliveryCharge().String(),
			FinalAmount:    totals.Final().String(),
		},
		DeliveryWorkerID: idString(o.DeliveryWorkerID()),
		Destination: DestinationBody{
			Address:      dest.Address,
			Area:         dest.Area,
			ContactPhone: dest.ContactPhone,
			Notes:        dest.Notes,
		},
		PaymentMethod:      string(o.PaymentMethod()),
		Timeline:           timeline,
		ApprovedBy:         idString(o.ApprovedBy()),
		RejectionReason:    o.RejectionReason(),
		CancellationReason: o.CancellationReason(),
		CreatedAt:          o.CreatedAt(),
		DeliveredAt:        o.DeliveredAt(),
	}
}

func toSummaryResponse(s queries.OrderSummary) OrderSummaryResponse {
	return OrderSummaryResponse{
		ID:               s.ID.String(),
		Number:           s.Number.String(),
		Status:           s.Status.String(),
		ShopkeeperID:     s.ShopkeeperID.String(),
		CompanyID:        s.CompanyID.String(),
		DeliveryWorkerID: idString(s.DeliveryWorkerID),
		Area:             s.Area,
		FinalAmount:      s.FinalAmount.String(),
		CreatedAt:        s.CreatedAt,
	}
}

func toDeliveryResponse(d *delivery.Delivery) DeliveryResponse {
	issues := make([]IssueResponse, 0, len(d.Issues()))
	for _, issue := range d.Issues() {
		issues = append(issues, IssueResponse{
			Type:        string(issue.Type),
			Description: issue.Description,
			ReportedBy:  issue.ReportedBy.String(),
			ReportedAt:  issue.ReportedAt,
		})
	}

	var proof *ProofResponse
	if p := d.Proof(); p != nil {
		proof = &ProofResponse{
			Signature:  p.Signature,
			PhotoRef:   p.PhotoRef,
			Notes:      p.Notes,
			CapturedAt: p.CapturedAt,
		}
	}

	return DeliveryResponse{
		ID:               d.ID().String(),
		Number:           d.Number().String(),
		OrderID:          d.OrderID().String(),
		ShopkeeperID:     d.ShopkeeperID().String(),
		CompanyID:        d.CompanyID().String(),
		WorkerID:         d.WorkerID().String(),
		Items:            toItems(d.Items()),
		PickupLocation:   d.PickupLocation(),
		DeliveryLocation: d.DeliveryLocation(),
		Area:             d.Area(),
		PaymentMethod:    string(d.PaymentMethod()),
		AmountToCollect:  d.AmountToCollect().String(),
		Status:           d.Status().String(),
		AssignedAt:       d.AssignedAt(),
		PickedUpAt:       d.PickedUpAt(),
		DeliveredAt:      d.DeliveredAt(),
		Issues:           issues,
		Proof:            proof,
		FailureReason:    d.FailureReason(),
		RouteSummary:     d.RouteSummary(),
	}
}

func toCandidateResponse(c services.Candidate) CandidateResponse {
	return CandidateResponse{
		WorkerID:         c.Worker.ID().String(),
		Name:             c.Worker.Name(),
		Phone:            c.Worker.Phone(),
		AssignedAreas:    c.Worker.AssignedAreas(),
		Availability:     c.Availability.String(),
		ActiveDeliveries: c.ActiveDeliveries,
	}
}
