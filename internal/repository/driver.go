package repository

import (
	"context"

	"wheels/internal/domain"
)

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create adds a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID, including the registered vehicle.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// Update updates a driver's profile, vehicle and current-trip link.
	Update(ctx context.Context, driver *domain.Driver) error
}
