package domain

import (
	"slices"
	"time"
)

// TripStatus represents the current status of a trip.
type TripStatus string

const (
	TripStatusCreated    TripStatus = "CREATED"
	TripStatusInProgress TripStatus = "IN_PROGRESS"
	TripStatusFinished   TripStatus = "FINISHED"
	TripStatusCancelled  TripStatus = "CANCELLED"
)

// ActiveStatuses are the statuses in which a trip still binds its driver
// and riders.
var ActiveStatuses = []TripStatus{TripStatusCreated, TripStatusInProgress}

// HistoryStatuses are the terminal statuses kept for trip history.
var HistoryStatuses = []TripStatus{TripStatusFinished, TripStatusCancelled}

// Trip represents a carpool trip owned by one driver and shared with a
// bounded set of riders.
type Trip struct {
	ID           string
	DriverID     string
	Origin       string
	Destination  string
	DepartureAt  time.Time
	SeatCapacity int
	Status       TripStatus
	RiderIDs     []string
	ChatID       string
	CreatedAt    time.Time
}

// IsActive reports whether the trip is in a state that binds its driver
// and riders.
func (t *Trip) IsActive() bool {
	return t.Status == TripStatusCreated || t.Status == TripStatusInProgress
}

// HasRider reports whether the rider is currently a member of the trip.
func (t *Trip) HasRider(riderID string) bool {
	return slices.Contains(t.RiderIDs, riderID)
}

// SeatsLeft returns the number of seats still available.
func (t *Trip) SeatsLeft() int {
	return t.SeatCapacity - len(t.RiderIDs)
}
