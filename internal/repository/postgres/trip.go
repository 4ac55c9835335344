package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"wheels/internal/domain"
	"wheels/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

// NewTripRepositoryWithTx creates a trip repository using a transaction.
func NewTripRepositoryWithTx(tx *sql.Tx) *TripRepository {
	return &TripRepository{q: tx}
}

const tripColumns = `id, driver_id, origin, destination, departure_at, seat_capacity, status, chat_id, created_at`

// Create persists a new trip and its rider membership.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (` + tripColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.Origin,
		trip.Destination,
		trip.DepartureAt,
		trip.SeatCapacity,
		trip.Status,
		nullString(trip.ChatID),
		trip.CreatedAt,
	)
	if err != nil {
		return err
	}

	return r.syncRiders(ctx, trip)
}

// GetByID retrieves a trip by ID, including its rider membership.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	return r.scanOne(ctx, r.q.QueryRowContext(ctx, query, id))
}

// Update updates an existing trip and syncs its rider membership.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET driver_id = $1, origin = $2, destination = $3, departure_at = $4,
		    seat_capacity = $5, status = $6, chat_id = $7
		WHERE id = $8
	`

	result, err := r.q.ExecContext(ctx, query,
		trip.DriverID,
		trip.Origin,
		trip.Destination,
		trip.DepartureAt,
		trip.SeatCapacity,
		trip.Status,
		nullString(trip.ChatID),
		trip.ID,
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

	return r.syncRiders(ctx, trip)
}

// Delete removes a trip and its rider membership.
func (r *TripRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM trip_riders WHERE trip_id = $1`, id); err != nil {
		return err
	}

	result, err := r.q.ExecContext(ctx, `DELETE FROM trips WHERE id = $1`, id)
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

// ExistsActiveByDriverID reports whether the driver owns a trip in an
// active status.
func (r *TripRepository) ExistsActiveByDriverID(ctx context.Context, driverID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM trips WHERE driver_id = $1 AND status = ANY($2)
		)
	`

	var exists bool
	err := r.q.QueryRowContext(ctx, query, driverID, pq.Array(statusStrings(domain.ActiveStatuses))).Scan(&exists)
	return exists, err
}

// GetActiveByDriverID retrieves the driver's active trip.
// Returns nil if no active trip exists.
func (r *TripRepository) GetActiveByDriverID(ctx context.Context, driverID string) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE driver_id = $1 AND status = ANY($2)
		LIMIT 1
	`

	trip, err := r.scanOne(ctx, r.q.QueryRowContext(ctx, query, driverID, pq.Array(statusStrings(domain.ActiveStatuses))))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return trip, err
}

// GetActiveByRiderID retrieves the trip the rider is currently part of.
// Returns nil if no active trip exists.
func (r *TripRepository) GetActiveByRiderID(ctx context.Context, riderID string) (*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE status = ANY($2)
		  AND id IN (SELECT trip_id FROM trip_riders WHERE rider_id = $1)
		LIMIT 1
	`

	trip, err := r.scanOne(ctx, r.q.QueryRowContext(ctx, query, riderID, pq.Array(statusStrings(domain.ActiveStatuses))))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return trip, err
}

// GetHistoryByDriverID retrieves the driver's finished and cancelled trips.
func (r *TripRepository) GetHistoryByDriverID(ctx context.Context, driverID string) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE driver_id = $1 AND status = ANY($2)
		ORDER BY departure_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query, driverID, pq.Array(statusStrings(domain.HistoryStatuses)))
	if err != nil {
		return nil, err
	}
	return r.scanMany(ctx, rows)
}

// GetHistoryByRiderID retrieves the finished and cancelled trips the rider
// took part in.
func (r *TripRepository) GetHistoryByRiderID(ctx context.Context, riderID string) ([]*domain.Trip, error) {
	query := `
		SELECT ` + tripColumns + ` FROM trips
		WHERE status = ANY($2)
		  AND id IN (SELECT trip_id FROM trip_riders WHERE rider_id = $1)
		ORDER BY departure_at DESC LIMIT 100
	`

	rows, err := r.q.QueryContext(ctx, query, riderID, pq.Array(statusStrings(domain.HistoryStatuses)))
	if err != nil {
		return nil, err
	}
	return r.scanMany(ctx, rows)
}

// syncRiders rewrites the trip_riders membership rows for the trip.
func (r *TripRepository) syncRiders(ctx context.Context, trip *domain.Trip) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM trip_riders WHERE trip_id = $1`, trip.ID); err != nil {
		return err
	}

	for _, riderID := range trip.RiderIDs {
		_, err := r.q.ExecContext(ctx,
			`INSERT INTO trip_riders (trip_id, rider_id) VALUES ($1, $2)`,
			trip.ID, riderID,
		)
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *TripRepository) scanOne(ctx context.Context, row *sql.Row) (*domain.Trip, error) {
	var trip domain.Trip
	var chatID sql.NullString

	err := row.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.Origin,
		&trip.Destination,
		&trip.DepartureAt,
		&trip.SeatCapacity,
		&trip.Status,
		&chatID,
		&trip.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	trip.ChatID = chatID.String

	if err := r.loadRiders(ctx, &trip); err != nil {
		return nil, err
	}

	return &trip, nil
}

func (r *TripRepository) scanMany(ctx context.Context, rows *sql.Rows) ([]*domain.Trip, error) {
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		var trip domain.Trip
		var chatID sql.NullString

		if err := rows.Scan(
			&trip.ID,
			&trip.DriverID,
			&trip.Origin,
			&trip.Destination,
			&trip.DepartureAt,
			&trip.SeatCapacity,
			&trip.Status,
			&chatID,
			&trip.CreatedAt,
		); err != nil {
			return nil, err
		}
		trip.ChatID = chatID.String

		trips = append(trips, &trip)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, trip := range trips {
		if err := r.loadRiders(ctx, trip); err != nil {
			return nil, err
		}
	}

	return trips, nil
}

func (r *TripRepository) loadRiders(ctx context.Context, trip *domain.Trip) error {
	rows, err := r.q.QueryContext(ctx,
		`SELECT rider_id FROM trip_riders WHERE trip_id = $1 ORDER BY rider_id`,
		trip.ID,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var riderID string
		if err := rows.Scan(&riderID); err != nil {
			return err
		}
		trip.RiderIDs = append(trip.RiderIDs, riderID)
	}

	return rows.Err()
}

func statusStrings(statuses []domain.TripStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
