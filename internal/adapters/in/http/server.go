// Package http exposes the lifecycle use cases over a JSON API.
package http

import (
	"context"
	"net/http"
	"strconv"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

// Lifecycle is the orchestrator surface the API drives.
type Lifecycle interface {
	PlaceOrder(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error)
	ChangeOrderStatus(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (commands.OrderStatusChange, error)
	CancelOrder(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (commands.OrderStatusChange, error)
	AssignDelivery(ctx context.Context, cmd commands.AssignDeliveryCommand) (*delivery.Delivery, error)
	UpdateDeliveryStatus(ctx context.Context, cmd commands.UpdateDeliveryStatusCommand) (commands.DeliveryChange, error)
	CompleteDelivery(ctx context.Context, cmd commands.CompleteDeliveryCommand) (commands.DeliveryChange, error)
	ReportDeliveryIssue(ctx context.Context, cmd commands.ReportDeliveryIssueCommand) (commands.DeliveryChange, error)
	ReassignDelivery(ctx context.Context, cmd commands.ReassignDeliveryCommand) (commands.DeliveryChange, error)
	FindEligibleWorkers(ctx context.Context, query queries.FindEligibleWorkersQuery) ([]services.Candidate, error)
	GetOrder(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error)
	GetDelivery(ctx context.Context, query queries.GetDeliveryQuery) (*delivery.Delivery, error)
	ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error)
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	lifecycle Lifecycle
}

func NewServer(lifecycle Lifecycle) *Server {
	return &Server{lifecycle: lifecycle}
}

// Register mounts the API under /api/v1.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	api := e.Group("/api/v1", Authenticate())

	api.POST("/orders", s.PlaceOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PATCH("/orders/:id/status", s.ChangeOrderStatus)
	api.POST("/orders/:id/cancel", s.CancelOrder)
	api.POST("/orders/:id/delivery", s.AssignDelivery)

	api.GET("/deliveries/:id", s.GetDelivery)
	api.PATCH("/deliveries/:id/status", s.UpdateDeliveryStatus)
	api.POST("/deliveries/:id/complete", s.CompleteDelivery)
	api.POST("/deliveries/:id/issues", s.ReportDeliveryIssue)
	api.POST("/deliveries/:id/reassign", s.ReassignDelivery)

	api.GET("/workers/eligible", s.FindEligibleWorkers)
}

func pathID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

func optionalUUID(raw string) (*kernel.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// PlaceOrder handles POST /api/v1/orders.
func (s *Server) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	shopkeeperID, err := kernel.UUIDFromString(req.ShopkeeperID)
	if err != nil {
		return fail(c, err)
	}
	companyID, err := kernel.UUIDFromString(req.CompanyID)
	if err != nil {
		return fail(c, err)
	}

	lines := make([]commands.OrderLine, 0, len(req.Items))
	for _, item := range req.Items {
		productID, idErr := kernel.UUIDFromString(item.ProductID)
		if idErr != nil {
			return fail(c, idErr)
		}
		lines = append(lines, commands.OrderLine{ProductID: productID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewPlaceOrderCommand(
		kernel.NewUUID(),
		currentActor(c),
		shopkeeperID, companyID,
		lines,
		order.Destination{
			Address:      req.Destination.Address,
			Area:         req.Destination.Area,
			ContactPhone: req.Destination.ContactPhone,
			Notes:        req.Destination.Notes,
		},
		order.PaymentMethod(req.PaymentMethod),
	)
	if err != nil {
		return fail(c, err)
	}

	placed, err := s.lifecycle.PlaceOrder(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toOrderResponse(placed))
}

// ListOrders handles GET /api/v1/orders?status=&limit=.
func (s *Server) ListOrders(c echo.Context) error {
	status := order.Unknown
	if raw := c.QueryParam("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			return fail(c, err)
		}
		status = parsed
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "limit must be a number")
		}
		limit = parsed
	}

	query, err := queries.NewListOrdersQuery(currentActor(c), status, limit)
	if err != nil {
		return fail(c, err)
	}

	summaries, err := s.lifecycle.ListOrders(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}

	response := make([]OrderSummaryResponse, 0, len(summaries))
	for _, summary := range summaries {
		response = append(response, toSummaryResponse(summary))
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	query, err := queries.NewGetOrderQuery(currentActor(c), id)
	if err != nil {
		return fail(c, err)
	}

	o, err := s.lifecycle.GetOrder(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toOrderResponse(o))
}

// ChangeOrderStatus handles PATCH /api/v1/orders/:id/status.
func (s *Server) ChangeOrderStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req StatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	target, err := order.ParseStatus(req.Status)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(currentActor(c), id, target, req.Reason)
	if err != nil {
		return fail(c, err)
	}

	change, err := s.lifecycle.ChangeOrderStatus(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatusResponse{
		Order:          toOrderResponse(change.Order),
		QueuedReleases: change.QueuedReleases,
	})
}

// CancelOrder handles POST /api/v1/orders/:id/cancel.
func (s *Server) CancelOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req CancelRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCancelOrderCommand(currentActor(c), id, req.Reason)
	if err != nil {
		return fail(c, err)
	}

	change, err := s.lifecycle.CancelOrder(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, OrderStatusResponse{
		Order:          toOrderResponse(change.Order),
		QueuedReleases: change.QueuedReleases,
	})
}

// AssignDelivery handles POST /api/v1/orders/:id/delivery. Without a workerId
// the best eligible worker for the destination area is picked.
func (s *Server) AssignDelivery(c echo.Context) error {
	orderID, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req AssignDeliveryRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	workerID, err := optionalUUID(req.WorkerID)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewAssignDeliveryCommand(
		kernel.NewUUID(),
		currentActor(c),
		orderID,
		workerID,
		req.PickupLocation, req.RouteSummary,
	)
	if err != nil {
		return fail(c, err)
	}

	d, err := s.lifecycle.AssignDelivery(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusCreated, toDeliveryResponse(d))
}

// GetDelivery handles GET /api/v1/deliveries/:id.
func (s *Server) GetDelivery(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	query, err := queries.NewGetDeliveryQuery(currentActor(c), id)
	if err != nil {
		return fail(c, err)
	}

	d, err := s.lifecycle.GetDelivery(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toDeliveryResponse(d))
}

// UpdateDeliveryStatus handles PATCH /api/v1/deliveries/:id/status.
func (s *Server) UpdateDeliveryStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req StatusRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	target, err := delivery.ParseStatus(req.Status)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewUpdateDeliveryStatusCommand(currentActor(c), id, target, req.Reason)
	if err != nil {
		return fail(c, err)
	}

	change, err := s.lifecycle.UpdateDeliveryStatus(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toDeliveryChangeResponse(change))
}

// CompleteDelivery handles POST /api/v1/deliveries/:id/complete.
func (s *Server) CompleteDelivery(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req CompleteDeliveryRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewCompleteDeliveryCommand(currentActor(c), id, delivery.Proof{
		Signature: req.Signature,
		PhotoRef:  req.PhotoRef,
		Notes:     req.Notes,
	})
	if err != nil {
		return fail(c, err)
	}

	change, err := s.lifecycle.CompleteDelivery(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toDeliveryChangeResponse(change))
}

// ReportDeliveryIssue handles POST /api/v1/deliveries/:id/issues.
func (s *Server) ReportDeliveryIssue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req ReportIssueRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewReportDeliveryIssueCommand(
		currentActor(c),
		id,
		delivery.IssueType(req.Type),
		req.Description,
		req.Resolvable,
		req.Resolution,
	)
	if err != nil {
		return fail(c, err)
	}

	change, err := s.lifecycle.ReportDeliveryIssue(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toDeliveryChangeResponse(change))
}

// ReassignDelivery handles POST /api/v1/deliveries/:id/reassign.
func (s *Server) ReassignDelivery(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req ReassignRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	workerID, err := kernel.UUIDFromString(req.WorkerID)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewReassignDeliveryCommand(currentActor(c), id, workerID)
	if err != nil {
		return fail(c, err)
	}

	change, err := s.lifecycle.ReassignDelivery(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toDeliveryChangeResponse(change))
}

// FindEligibleWorkers handles GET /api/v1/workers/eligible?area=&exact=.
func (s *Server) FindEligibleWorkers(c echo.Context) error {
	exact := false
	if raw := c.QueryParam("exact"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return badRequest(c, "exact must be true or false")
		}
		exact = parsed
	}

	query, err := queries.NewFindEligibleWorkersQuery(currentActor(c), c.QueryParam("area"), exact)
	if err != nil {
		return fail(c, err)
	}

	candidates, err := s.lifecycle.FindEligibleWorkers(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}

	response := make([]CandidateResponse, 0, len(candidates))
	for _, candidate := range candidates {
		response = append(response, toCandidateResponse(candidate))
	}
	return c.JSON(http.StatusOK, response)
}

func toDeliveryChangeResponse(change commands.DeliveryChange) DeliveryChangeResponse {
	resp := DeliveryChangeResponse{Delivery: toDeliveryResponse(change.Delivery)}
	if change.CancelledOrder != nil {
		o := toOrderResponse(change.CancelledOrder)
		resp.CancelledOrder = &o
	}
	return resp
}
