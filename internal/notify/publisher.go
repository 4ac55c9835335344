package notify

import (
	"context"
	"encoding/json"
	"time"

	"wheels/internal/mq"
	"wheels/internal/service"
)

// Event is the wire form of a notification published to the trip exchange.
type Event struct {
	Type        string                 `json:"type"`
	RecipientID string                 `json:"recipient_id"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Data        map[string]interface{} `json:"data,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// AMQPSender publishes notifications to RabbitMQ for the delivery worker.
type AMQPSender struct {
	conn *mq.Connection
}

// NewAMQPSender creates a new AMQPSender.
func NewAMQPSender(conn *mq.Connection) *AMQPSender {
	return &AMQPSender{conn: conn}
}

// Send publishes the notification with routing key trip.notify.<recipient>.
func (s *AMQPSender) Send(ctx context.Context, n service.Notification) error {
	payload, err := json.Marshal(Event{
		Type:        string(n.Type),
		RecipientID: n.RecipientID,
		Title:       n.Title,
		Message:     n.Message,
		Data:        n.Data,
		CreatedAt:   n.CreatedAt,
	})
	if err != nil {
		return err
	}

	return s.conn.Publish(ctx, "trip.notify."+n.RecipientID, payload)
}

// Ensure AMQPSender implements service.Sender.
var _ service.Sender = (*AMQPSender)(nil)
