package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	amqp "github.com/streadway/amqp"
)

// OrderQueue is the durable queue order events are routed to.
const OrderQueue = "order_queue"

// OrderPlacedEvent is published once an order aggregate has been committed.
type OrderPlacedEvent struct {
	Type        string          `json:"type"`
	OrderID     uint            `json:"order_id"`
	CustomerID  uint            `json:"customer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemCount   int             `json:"item_count"`
	PlacedAt    time.Time       `json:"placed_at_utc"`
}

// EventTypeOrderPlaced tags OrderPlacedEvent messages.
const EventTypeOrderPlaced = "order.placed"

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	mu      sync.Mutex // serializes publishes on the shared channel
	logger  *slog.Logger
}

// NewClient connects to RabbitMQ, opens a channel and declares the order queue.
func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareOrderQueue(ch); err != nil {
		ch.Close()
		conn.Close()
		return nil, err
	}

	logger.Info("rabbitmq client connected", "queue", OrderQueue)

	return &Client{
		conn:    conn,
		channel: ch,
		logger:  logger,
	}, nil
}

func declareOrderQueue(ch *amqp.Channel) (amqp.Queue, error) {
	q, err := ch.QueueDeclare(
		OrderQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return amqp.Queue{}, fmt.Errorf("failed to declare %s: %w", OrderQueue, err)
	}
	return q, nil
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("errors closing RabbitMQ client: %v", errs)
	}
	return nil
}

// PublishOrderPlaced publishes event as a persistent JSON message on the order queue.
func (c *Client) PublishOrderPlaced(ctx context.Context, event OrderPlacedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	event.Type = EventTypeOrderPlaced
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	err = c.channel.Publish(
		"",         // default exchange
		OrderQueue, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         EventTypeOrderPlaced,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}
	return nil
}

// ConsumeOrderEvents delivers every order event to handler until ctx is done or
// the channel closes. Handler errors nack the message without requeue so a bad
// message cannot loop forever.
func (c *Client) ConsumeOrderEvents(ctx context.Context, handler func(OrderPlacedEvent) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := declareOrderQueue(c.channel)
	if err != nil {
		return err
	}

	msgs, err := c.channel.Consume(
		queue.Name,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			c.handleDelivery(msg, handler)
		}
	}
}

func (c *Client) handleDelivery(msg amqp.Delivery, handler func(OrderPlacedEvent) error) {
	if err := HandleDelivery(msg.Body, handler); err != nil {
		c.logger.Error("failed to process order event", "delivery_tag", msg.DeliveryTag, "error", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("failed to nack order event", "delivery_tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("failed to ack order event", "delivery_tag", msg.DeliveryTag, "error", ackErr)
	}
}

// HandleDelivery decodes an order event body and passes it to handler.
func HandleDelivery(body []byte, handler func(OrderPlacedEvent) error) error {
	var event OrderPlacedEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fmt.Errorf("failed to decode order event: %w", err)
	}
	if event.Type != EventTypeOrderPlaced {
		return fmt.Errorf("unexpected event type %q", event.Type)
	}
	return handler(event)
}
