// Package lifecycle is the entry point for every order and delivery use
// case. It bounds each call with a timeout, traces it, and publishes the
// resulting events once the change is committed.
package lifecycle

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	DefaultTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	tracerName     = "marketplace/lifecycle"
)

// Handler is a command or query handler.
type Handler[C, R any] interface {
	Handle(ctx context.Context, cmd C) (R, error)
}

// Handlers groups the use cases the orchestrator drives.
type Handlers struct {
	PlaceOrder           Handler[commands.PlaceOrderCommand, *order.Order]
	ChangeOrderStatus    Handler[commands.ChangeOrderStatusCommand, commands.OrderStatusChange]
	AssignDelivery       Handler[commands.AssignDeliveryCommand, *delivery.Delivery]
	UpdateDeliveryStatus Handler[commands.UpdateDeliveryStatusCommand, commands.DeliveryChange]
	CompleteDelivery     Handler[commands.CompleteDeliveryCommand, commands.DeliveryChange]
	ReportDeliveryIssue  Handler[commands.ReportDeliveryIssueCommand, commands.DeliveryChange]
	ReassignDelivery     Handler[commands.ReassignDeliveryCommand, commands.DeliveryChange]
	FindEligibleWorkers  Handler[queries.FindEligibleWorkersQuery, []services.Candidate]
	GetOrder             Handler[queries.GetOrderQuery, *order.Order]
	GetDelivery          Handler[queries.GetDeliveryQuery, *delivery.Delivery]
	ListOrders           Handler[queries.ListOrdersQuery, []queries.OrderSummary]
}

// Options tune an Orchestrator. Zero values fall back to defaults.
type Options struct {
	Timeout time.Duration
	Logger  *zap.Logger
	Tracer  trace.Tracer
	Clock   func() time.Time
}

type Orchestrator struct {
	handlers Handlers
	notifier ports.Notifier
	timeout  time.Duration
	log      *zap.Logger
	tracer   trace.Tracer
	clock    func() time.Time
}

func NewOrchestrator(handlers Handlers, notifier ports.Notifier, opts Options) *Orchestrator {
	o := &Orchestrator{
		handlers: handlers,
		notifier: notifier,
		timeout:  opts.Timeout,
		log:      logger.Component(opts.Logger, "lifecycle"),
		tracer:   opts.Tracer,
		clock:    opts.Clock,
	}

	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	if o.tracer == nil {
		o.tracer = otel.Tracer(tracerName)
	}
	if o.clock == nil {
		o.clock = time.Now
	}
	return o
}

func (o *Orchestrator) PlaceOrder(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error) {
	return run(ctx, o, "PlaceOrder",
		func(ctx context.Context) (*order.Order, error) {
			return o.handlers.PlaceOrder.Handle(ctx, cmd)
		},
		func(placed *order.Order) []events.Event {
			return events.ForOrderStatus(placed, placed.CreatedAt())
		},
	)
}

// ChangeOrderStatus approves, rejects, cancels or advances an order.
func (o *Orchestrator) ChangeOrderStatus(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (commands.OrderStatusChange, error) {
	return run(ctx, o, "ChangeOrderStatus",
		func(ctx context.Context) (commands.OrderStatusChange, error) {
			return o.handlers.ChangeOrderStatus.Handle(ctx, cmd)
		},
		func(change commands.OrderStatusChange) []events.Event {
			if change.QueuedReleases > 0 {
				o.log.Warn("stock release queued for retry",
					zap.String("order", change.Order.Number().String()),
					zap.Int("lines", change.QueuedReleases),
				)
			}
			now := o.clock()
			out := events.ForOrderStatus(change.Order, now)
			if d := change.WithdrawnDelivery; d != nil {
				out = append(out, events.Withdrawn(d, now))
			}
			return out
		},
	)
}

// CancelOrder is ChangeOrderStatus with the cancelled target.
func (o *Orchestrator) CancelOrder(ctx context.Context, cmd commands.ChangeOrderStatusCommand) (commands.OrderStatusChange, error) {
	if cmd.Target() != order.Cancelled {
		return commands.OrderStatusChange{}, errs.NewValueIsInvalidError("cancel command target")
	}
	return o.ChangeOrderStatus(ctx, cmd)
}

func (o *Orchestrator) AssignDelivery(ctx context.Context, cmd commands.AssignDeliveryCommand) (*delivery.Delivery, error) {
	return run(ctx, o, "AssignDelivery",
		func(ctx context.Context) (*delivery.Delivery, error) {
			return o.handlers.AssignDelivery.Handle(ctx, cmd)
		},
		func(d *delivery.Delivery) []events.Event {
			return events.ForDeliveryStatus(d, d.AssignedAt())
		},
	)
}

func (o *Orchestrator) UpdateDeliveryStatus(ctx context.Context, cmd commands.UpdateDeliveryStatusCommand) (commands.DeliveryChange, error) {
	return run(ctx, o, "UpdateDeliveryStatus",
		func(ctx context.Context) (commands.DeliveryChange, error) {
			return o.handlers.UpdateDeliveryStatus.Handle(ctx, cmd)
		},
		o.deliveryEvents,
	)
}

func (o *Orchestrator) CompleteDelivery(ctx context.Context, cmd commands.CompleteDeliveryCommand) (commands.DeliveryChange, error) {
	return run(ctx, o, "CompleteDelivery",
		func(ctx context.Context) (commands.DeliveryChange, error) {
			return o.handlers.CompleteDelivery.Handle(ctx, cmd)
		},
		o.deliveryEvents,
	)
}

func (o *Orchestrator) ReportDeliveryIssue(ctx context.Context, cmd commands.ReportDeliveryIssueCommand) (commands.DeliveryChange, error) {
	return run(ctx, o, "ReportDeliveryIssue",
		func(ctx context.Context) (commands.DeliveryChange, error) {
			return o.handlers.ReportDeliveryIssue.Handle(ctx, cmd)
		},
		o.deliveryEvents,
	)
}

func (o *Orchestrator) ReassignDelivery(ctx context.Context, cmd commands.ReassignDeliveryCommand) (commands.DeliveryChange, error) {
	return run(ctx, o, "ReassignDelivery",
		func(ctx context.Context) (commands.DeliveryChange, error) {
			return o.handlers.ReassignDelivery.Handle(ctx, cmd)
		},
		o.deliveryEvents,
	)
}

func (o *Orchestrator) FindEligibleWorkers(ctx context.Context, query queries.FindEligibleWorkersQuery) ([]services.Candidate, error) {
	return run(ctx, o, "FindEligibleWorkers",
		func(ctx context.Context) ([]services.Candidate, error) {
			return o.handlers.FindEligibleWorkers.Handle(ctx, query)
		},
		nil,
	)
}

func (o *Orchestrator) GetOrder(ctx context.Context, query queries.GetOrderQuery) (*order.Order, error) {
	return run(ctx, o, "GetOrder",
		func(ctx context.Context) (*order.Order, error) {
			return o.handlers.GetOrder.Handle(ctx, query)
		},
		nil,
	)
}

func (o *Orchestrator) GetDelivery(ctx context.Context, query queries.GetDeliveryQuery) (*delivery.Delivery, error) {
	return run(ctx, o, "GetDelivery",
		func(ctx context.Context) (*delivery.Delivery, error) {
			return o.handlers.GetDelivery.Handle(ctx, query)
		},
		nil,
	)
}

func (o *Orchestrator) ListOrders(ctx context.Context, query queries.ListOrdersQuery) ([]queries.OrderSummary, error) {
	return run(ctx, o, "ListOrders",
		func(ctx context.Context) ([]queries.OrderSummary, error) {
			return o.handlers.ListOrders.Handle(ctx, query)
		},
		nil,
	)
}

func (o *Orchestrator) deliveryEvents(change commands.DeliveryChange) []events.Event {
	now := o.clock()
	var out []events.Event

	if change.Issue != nil {
		out = append(out, events.IssueReported(change.Delivery, *change.Issue))
	}
	if change.StatusChanged {
		out = append(out, events.ForDeliveryStatus(change.Delivery, now)...)
	}
	if change.CancelledOrder != nil {
		out = append(out, events.ForOrderStatus(change.CancelledOrder, now)...)
	}
	return out
}

// run executes one use case. Events are published only after it succeeded,
// on a context that outlives the caller's, and publish failures are logged
// without failing the call.
func run[R any](
	ctx context.Context,
	o *Orchestrator,
	name string,
	exec func(context.Context) (R, error),
	emit func(R) []events.Event,
) (R, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	ctx, span := o.tracer.Start(ctx, "lifecycle."+name)
	defer span.End()

	started := time.Now()
	result, err := exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		o.logFailure(name, err)
		return result, err
	}

	o.log.Debug("use case completed", zap.String("use_case", name), zap.Duration("took", time.Since(started)))

	if emit != nil {
		published := o.publish(ctx, emit(result))
		span.SetAttributes(attribute.Int("events.published", published))
	}
	return result, nil
}

func (o *Orchestrator) publish(ctx context.Context, evs []events.Event) int {
	if o.notifier == nil || len(evs) == 0 {
		return 0
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	published := 0
	for _, ev := range evs {
		if err := o.notifier.Publish(ctx, ev); err != nil {
			o.log.Error("publish event failed",
				zap.String("event", string(ev.Type)),
				zap.String("recipient", ev.RecipientID.String()),
				zap.Error(err),
			)
			continue
		}
		published++
	}
	return published
}

// logFailure keeps expected business refusals out of the error log.
func (o *Orchestrator) logFailure(name string, err error) {
	fields := []zap.Field{zap.String("use_case", name), zap.Error(err)}

	if isBusinessError(err) {
		o.log.Info("use case refused", fields...)
		return
	}
	o.log.Error("use case failed", fields...)
}

func isBusinessError(err error) bool {
	for _, target := range []error{
		errs.ErrObjectNotFound,
		errs.ErrValueIsInvalid,
		errs.ErrValueIsOutOfRange,
		errs.ErrValueIsRequired,
		errs.ErrUnavailable,
		errs.ErrInsufficientStock,
		errs.ErrInvalidTransition,
		errs.ErrConflict,
		errs.ErrNotReady,
		errs.ErrForbidden,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
