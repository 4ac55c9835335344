package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wheels/internal/domain"
	"wheels/internal/repository"
)

// RiderRepository is a PostgreSQL implementation of repository.RiderRepository.
type RiderRepository struct {
	q Querier
}

// NewRiderRepository creates a new PostgreSQL rider repository.
func NewRiderRepository(db *sql.DB) *RiderRepository {
	return &RiderRepository{q: db}
}

// NewRiderRepositoryWithTx creates a rider repository using a transaction.
func NewRiderRepositoryWithTx(tx *sql.Tx) *RiderRepository {
	return &RiderRepository{q: tx}
}

// Create adds a new rider.
func (r *RiderRepository) Create(ctx context.Context, rider *domain.Rider) error {
	query := `
		INSERT INTO riders (id, name, phone, current_trip_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		rider.ID,
		rider.Name,
		rider.Phone,
		nullString(rider.CurrentTripID),
		rider.CreatedAt,
	)
	return err
}

// GetByID retrieves a rider by ID.
func (r *RiderRepository) GetByID(ctx context.Context, id string) (*domain.Rider, error) {
	query := `
		SELECT id, name, phone, current_trip_id, created_at
		FROM riders WHERE id = $1
	`

	var rider domain.Rider
	var currentTripID sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&rider.ID,
		&rider.Name,
		&rider.Phone,
		&currentTripID,
		&rider.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	rider.CurrentTripID = currentTripID.String
	return &rider, nil
}

// Update updates a rider's profile and current-trip link.
func (r *RiderRepository) Update(ctx context.Context, rider *domain.Rider) error {
	query := `
		UPDATE riders
		SET name = $1, phone = $2, current_trip_id = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		rider.Name,
		rider.Phone,
		nullString(rider.CurrentTripID),
		rider.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Ensure RiderRepository implements repository.RiderRepository.
var _ repository.RiderRepository = (*RiderRepository)(nil)
