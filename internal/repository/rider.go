package repository

import (
	"context"

	"wheels/internal/domain"
)

// RiderRepository defines the persistence operations for riders.
type RiderRepository interface {
	// Create adds a new rider.
	Create(ctx context.Context, rider *domain.Rider) error

	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id string) (*domain.Rider, error)

	// Update updates a rider's profile and current-trip link.
	Update(ctx context.Context, rider *domain.Rider) error
}
