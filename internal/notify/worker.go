package notify

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"wheels/internal/mq"
	"wheels/internal/ws"
)

// Worker consumes notification events from the broker and pushes them to the
// recipient's websocket connection. Delivery is best-effort: events for
// users without a connection are acknowledged and dropped.
type Worker struct {
	conn *mq.Connection
	hub  *ws.Hub
}

// NewWorker creates a new Worker.
func NewWorker(conn *mq.Connection, hub *ws.Hub) *Worker {
	return &Worker{conn: conn, hub: hub}
}

// Start begins consuming the notification queue.
func (w *Worker) Start() error {
	return w.conn.Consume(w.handle)
}

func (w *Worker) handle(d amqp.Delivery) {
	var event Event
	if err := json.Unmarshal(d.Body, &event); err != nil {
		log.Printf("notification worker: malformed event: %v", err)
		_ = d.Nack(false, false)
		return
	}

	if !w.hub.Send(event.RecipientID, d.Body) {
		log.Printf("notification worker: no connection for %s, dropping %s", event.RecipientID, event.Type)
	}

	_ = d.Ack(false)
}
