package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"marketplace/internal/adapters/out/notify"
	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	args := m.Called(exchange, key, mandatory, immediate, msg)
	return args.Error(0)
}

var occurredAt = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func rejectedEvent() events.Event {
	orderID := kernel.NewUUID()
	return events.Event{
		Type:        events.OrderRejected,
		RecipientID: kernel.NewUUID(),
		OrderID:     &orderID,
		Priority:    events.PriorityHigh,
		Data:        map[string]any{"orderNumber": "ORD-1001", "reason": "out of season"},
		OccurredAt:  occurredAt,
	}
}

func TestRabbitNotifier(t *testing.T) {
	t.Run("publishes json to the exchange keyed by event type", func(t *testing.T) {
		// Given
		channel := new(MockChannel)
		event := rejectedEvent()
		var published amqp.Publishing
		channel.On("Publish", "marketplace.events", "order_rejected", false, false, mock.Anything).
			Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
			Return(nil).Once()

		// When
		err := notify.NewRabbitNotifier(channel, "marketplace.events", zap.NewNop()).Publish(t.Context(), event)

		// Then
		require.NoError(t, err)
		channel.AssertExpectations(t)
		assert.Equal(t, "application/json", published.ContentType)
		assert.Equal(t, amqp.Persistent, published.DeliveryMode)
		assert.NotEmpty(t, published.MessageId)
		assert.Equal(t, occurredAt, published.Timestamp)

		var body map[string]any
		require.NoError(t, json.Unmarshal(published.Body, &body))
		assert.Equal(t, "order_rejected", body["type"])
		assert.Equal(t, event.RecipientID.String(), body["recipientId"])
		assert.Equal(t, event.OrderID.String(), body["relatedOrderId"])
		assert.NotContains(t, body, "relatedDeliveryId")
		assert.Equal(t, "high", body["priority"])
		assert.Equal(t, "2026-03-14T09:30:00Z", body["occurredAt"])
		assert.Equal(t, map[string]any{"orderNumber": "ORD-1001", "reason": "out of season"}, body["data"])
	})

	t.Run("carries the trace context in headers", func(t *testing.T) {
		prev := otel.GetTextMapPropagator()
		otel.SetTextMapPropagator(propagation.TraceContext{})
		t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

		ctx, span := sdktrace.NewTracerProvider().Tracer("test").Start(context.Background(), "publish")
		defer span.End()

		channel := new(MockChannel)
		var published amqp.Publishing
		channel.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).
			Run(func(args mock.Arguments) { published = args.Get(4).(amqp.Publishing) }).
			Return(nil)

		require.NoError(t, notify.NewRabbitNotifier(channel, "x", zap.NewNop()).Publish(ctx, rejectedEvent()))

		traceparent, ok := published.Headers["traceparent"].(string)
		require.True(t, ok)
		assert.Contains(t, traceparent, span.SpanContext().TraceID().String())
	})

	t.Run("broker failure is returned", func(t *testing.T) {
		channel := new(MockChannel)
		failure := amqp.ErrClosed
		channel.On("Publish", mock.Anything, mock.Anything, false, false, mock.Anything).Return(failure)

		err := notify.NewRabbitNotifier(channel, "x", zap.NewNop()).Publish(t.Context(), rejectedEvent())

		assert.ErrorIs(t, err, failure)
	})

	t.Run("cancelled context publishes nothing", func(t *testing.T) {
		channel := new(MockChannel)
		ctx, cancel := context.WithCancel(t.Context())
		cancel()

		err := notify.NewRabbitNotifier(channel, "x", zap.NewNop()).Publish(ctx, rejectedEvent())

		assert.True(t, errors.Is(err, context.Canceled))
		channel.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	deliveryID := kernel.NewUUID()
	event := events.Event{
		Type:        events.DeliveryFailed,
		RecipientID: kernel.NewUUID(),
		DeliveryID:  &deliveryID,
		Priority:    events.PriorityHigh,
		OccurredAt:  occurredAt,
	}

	err := notify.NewLogNotifier(zap.New(core)).Publish(t.Context(), event)

	require.NoError(t, err)
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "notification", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "delivery_failed", fields["type"])
	assert.Equal(t, deliveryID.String(), fields["delivery"])
	assert.Equal(t, "", fields["order"])
}
