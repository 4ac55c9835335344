package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wheels/internal/domain"
	"wheels/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// NewDriverRepositoryWithTx creates a driver repository using a transaction.
func NewDriverRepositoryWithTx(tx *sql.Tx) *DriverRepository {
	return &DriverRepository{q: tx}
}

// Create adds a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, name, phone, current_trip_id, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.Name,
		driver.Phone,
		nullString(driver.CurrentTripID),
		driver.CreatedAt,
	)
	if err != nil {
		return err
	}

	return r.saveVehicle(ctx, driver)
}

// GetByID retrieves a driver by ID, including the registered vehicle.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT d.id, d.name, d.phone, d.current_trip_id, d.created_at,
		       v.id, v.plate, v.model, v.type
		FROM drivers d
		LEFT JOIN vehicles v ON v.driver_id = d.id
		WHERE d.id = $1
	`

	var driver domain.Driver
	var currentTripID sql.NullString
	var vehicleID, plate, model, vtype sql.NullString

	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.Name,
		&driver.Phone,
		&currentTripID,
		&driver.CreatedAt,
		&vehicleID,
		&plate,
		&model,
		&vtype,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	driver.CurrentTripID = currentTripID.String
	if vehicleID.Valid {
		driver.Vehicle = &domain.Vehicle{
			ID:    vehicleID.String,
			Plate: plate.String,
			Model: model.String,
			Type:  domain.VehicleType(vtype.String),
		}
	}

	return &driver, nil
}

// Update updates a driver's profile, vehicle and current-trip link.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `
		UPDATE drivers
		SET name = $1, phone = $2, current_trip_id = $3
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		driver.Name,
		driver.Phone,
		nullString(driver.CurrentTripID),
		driver.ID,
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

	return r.saveVehicle(ctx, driver)
}

// saveVehicle upserts the driver's vehicle row. A driver has at most one
// vehicle; registering again replaces it.
func (r *DriverRepository) saveVehicle(ctx context.Context, driver *domain.Driver) error {
	if driver.Vehicle == nil {
		_, err := r.q.ExecContext(ctx, `DELETE FROM vehicles WHERE driver_id = $1`, driver.ID)
		return err
	}

	query := `
		INSERT INTO vehicles (id, driver_id, plate, model, type)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (driver_id) DO UPDATE
		SET id = EXCLUDED.id, plate = EXCLUDED.plate, model = EXCLUDED.model, type = EXCLUDED.type
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.Vehicle.ID,
		driver.ID,
		driver.Vehicle.Plate,
		driver.Vehicle.Model,
		driver.Vehicle.Type,
	)
	return err
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
