package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"marketplace/internal/core/domain/events"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

const contentType = "application/json"

// Channel is the part of *amqp.Channel the notifier publishes through.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// RabbitNotifier publishes every event to a topic exchange, using the event
// type as routing key.
type RabbitNotifier struct {
	mu       sync.Mutex
	channel  Channel
	exchange string
	log      *zap.Logger
}

func NewRabbitNotifier(channel Channel, exchange string, log *zap.Logger) *RabbitNotifier {
	return &RabbitNotifier{channel: channel, exchange: exchange, log: log}
}

func (n *RabbitNotifier) Publish(ctx context.Context, event events.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := json.Marshal(NewMessage(event))
	if err != nil {
		return fmt.Errorf("encode %s event: %w", event.Type, err)
	}

	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, headerCarrier(headers))

	msg := amqp.Publishing{
		Headers:      headers,
		ContentType:  contentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	}

	// amqp channels must not be used for concurrent publishing.
	n.mu.Lock()
	err = n.channel.Publish(n.exchange, string(event.Type), false, false, msg)
	n.mu.Unlock()
	if err != nil {
		return fmt.Errorf("publish %s event: %w", event.Type, err)
	}

	n.log.Debug("event published",
		zap.String("type", string(event.Type)),
		zap.String("recipient", event.RecipientID.String()),
		zap.String("message_id", msg.MessageId),
	)
	return nil
}

// headerCarrier lets the otel propagator write trace context into AMQP
// headers.
type headerCarrier amqp.Table

func (c headerCarrier) Get(key string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return ""
}

func (c headerCarrier) Set(key, value string) {
	c[key] = value
}

func (c headerCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// RabbitClient owns the broker connection and the publishing channel.
type RabbitClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// DialRabbit connects and declares a durable topic exchange.
func DialRabbit(url, exchange string) (*RabbitClient, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect to rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	if err = channel.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = channel.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &RabbitClient{conn: conn, channel: channel}, nil
}

func (c *RabbitClient) Channel() *amqp.Channel {
	return c.channel
}

// Close closes the channel and connection for graceful shutdown.
func (c *RabbitClient) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
