package repository

import (
	"context"

	"wheels/internal/domain"
)

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip and its rider membership.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID, including its rider membership.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// Update updates an existing trip and syncs its rider membership.
	Update(ctx context.Context, trip *domain.Trip) error

	// Delete removes a trip and its rider membership.
	Delete(ctx context.Context, id string) error

	// ExistsActiveByDriverID reports whether the driver owns a trip in an
	// active status.
	ExistsActiveByDriverID(ctx context.Context, driverID string) (bool, error)

	// GetActiveByDriverID retrieves the driver's active trip.
	// Returns nil if no active trip exists.
	GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error)

	// GetActiveByRiderID retrieves the trip the rider is currently part of.
	// Returns nil if no active trip exists.
	GetActiveByRiderID(ctx context.Context, riderID string) (*domain.Trip, error)

	// GetHistoryByDriverID retrieves the driver's finished and cancelled trips.
	GetHistoryByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error)

	// GetHistoryByRiderID retrieves the finished and cancelled trips the
	// rider took part in.
	GetHistoryByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error)
}
