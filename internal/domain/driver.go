package domain

import "time"

// Driver represents a user who owns a vehicle and offers trips.
type Driver struct {
	ID            string
	Name          string
	Phone         string
	Vehicle       *Vehicle
	CurrentTripID string
	CreatedAt     time.Time
}

// HasVehicle reports whether the driver has a registered vehicle.
func (d *Driver) HasVehicle() bool {
	return d.Vehicle != nil
}
