package domain

import "time"

// Chat is the conversation channel created alongside a trip. It lives and
// dies with its trip.
type Chat struct {
	ID        string
	TripID    string
	CreatedAt time.Time
}

// Message represents a single chat message.
type Message struct {
	ID       string
	ChatID   string
	SenderID string
	Body     string
	SentAt   time.Time
}
