package mq

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// TripExchange receives every outbound trip notification event.
	TripExchange = "trip_topic"

	// NotificationQueue is consumed by the delivery worker.
	NotificationQueue = "trip_notifications"

	// NotifyRoutingKey is the routing key pattern for notification events.
	// Concrete keys are "trip.notify.<userID>".
	NotifyRoutingKey = "trip.notify.*"

	connectRetries  = 10
	connectInterval = 3 * time.Second
)

// Connection wraps an AMQP connection with a dedicated publisher channel.
type Connection struct {
	mu      sync.RWMutex
	conn    *amqp.Connection
	channel *amqp.Channel
}

// Connect dials RabbitMQ, declares the trip topology and returns a ready
// connection. It retries the initial dial a few times so the service can
// start before the broker does.
func Connect(url string) (*Connection, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < connectRetries; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.Printf("rabbitmq dial failed (attempt %d/%d): %v", i+1, connectRetries, err)
		time.Sleep(connectInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq after %d retries: %w", connectRetries, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	c := &Connection{conn: conn, channel: channel}
	if err := c.setupTopology(); err != nil {
		c.Close()
		return nil, err
	}

	return c, nil
}

// setupTopology declares the exchange, queue and binding used for trip
// notification events.
func (c *Connection) setupTopology() error {
	if err := c.channel.ExchangeDeclare(TripExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare exchange %s: %w", TripExchange, err)
	}

	if _, err := c.channel.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", NotificationQueue, err)
	}

	if err := c.channel.QueueBind(NotificationQueue, NotifyRoutingKey, TripExchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s: %w", NotificationQueue, err)
	}

	return nil
}

// Publish sends a persistent JSON message to the trip exchange. It is
// goroutine-safe.
func (c *Connection) Publish(ctx context.Context, routingKey string, body []byte) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
	}

	return c.channel.PublishWithContext(ctx, TripExchange, routingKey, false, false, msg)
}

// Consume starts a consumer on the notification queue. The handler runs for
// each delivery on a dedicated goroutine until the channel closes.
func (c *Connection) Consume(handler func(amqp.Delivery)) error {
	deliveries, err := c.channel.Consume(NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to start consumer on %s: %w", NotificationQueue, err)
	}

	go func() {
		for d := range deliveries {
			handler(d)
		}
		log.Printf("rabbitmq consumer on %s stopped", NotificationQueue)
	}()

	return nil
}

// Close closes the channel and connection.
func (c *Connection) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.channel != nil {
		_ = c.channel.Close()
	}
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
