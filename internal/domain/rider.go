package domain

import "time"

// Rider represents a user who joins trips as a passenger.
type Rider struct {
	ID            string
	Name          string
	Phone         string
	CurrentTripID string
	CreatedAt     time.Time
}
