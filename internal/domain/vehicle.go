package domain

// VehicleType represents the classification of a driver's vehicle.
type VehicleType string

const (
	VehicleTypeCar        VehicleType = "CAR"
	VehicleTypeMotorcycle VehicleType = "MOTORCYCLE"
)

// Vehicle represents the vehicle registered by a driver.
type Vehicle struct {
	ID    string
	Plate string
	Model string
	Type  VehicleType
}
