package tests

import (
	"errors"
	"testing"
	"time"

	"wheels/internal/domain"
	"wheels/internal/service"
)

// ──────────────────────────────────────────────
// 1. ROUTE TEMPLATES AND TRIP CONSTRUCTION
// ──────────────────────────────────────────────

func TestFactory_BuildFromTemplate(t *testing.T) {
	t.Parallel()

	factory := service.NewTripFactory()
	driver := &domain.Driver{
		ID:      "driver-1",
		Vehicle: &domain.Vehicle{Type: domain.VehicleTypeCar},
	}

	before := time.Now()
	trip, err := factory.Build(driver, "u-mutis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if trip.ID == "" {
		t.Error("expected a generated trip ID")
	}
	if trip.DriverID != "driver-1" {
		t.Errorf("expected driver-1, got %s", trip.DriverID)
	}
	if trip.Origin != "Universidad" || trip.Destination != "Barrio Mutis" {
		t.Errorf("unexpected route: %s -> %s", trip.Origin, trip.Destination)
	}
	if trip.Status != domain.TripStatusCreated {
		t.Errorf("expected status %s, got %s", domain.TripStatusCreated, trip.Status)
	}
	if trip.SeatCapacity != 3 {
		t.Errorf("expected 3 seats for a car, got %d", trip.SeatCapacity)
	}
	if len(trip.RiderIDs) != 0 {
		t.Errorf("expected no riders on a new trip, got %d", len(trip.RiderIDs))
	}

	// Departure is 15 minutes from creation.
	offset := trip.DepartureAt.Sub(before)
	if offset < 14*time.Minute || offset > 16*time.Minute {
		t.Errorf("expected departure ~15m out, got %v", offset)
	}
}

func TestFactory_MotorcycleCarriesOneRider(t *testing.T) {
	t.Parallel()

	factory := service.NewTripFactory()
	driver := &domain.Driver{
		ID:      "driver-1",
		Vehicle: &domain.Vehicle{Type: domain.VehicleTypeMotorcycle},
	}

	trip, err := factory.Build(driver, "cumbre-u")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.SeatCapacity != 1 {
		t.Errorf("expected 1 seat for a motorcycle, got %d", trip.SeatCapacity)
	}
}

func TestFactory_UnknownRoute(t *testing.T) {
	t.Parallel()

	factory := service.NewTripFactory()
	driver := &domain.Driver{ID: "driver-1"}

	_, err := factory.Build(driver, "no-such-route")
	if !errors.Is(err, service.ErrUnknownRoute) {
		t.Errorf("expected ErrUnknownRoute, got %v", err)
	}
}

func TestFactory_TemplatesReflectVehicle(t *testing.T) {
	t.Parallel()

	factory := service.NewTripFactory()

	carDriver := &domain.Driver{
		ID:      "driver-car",
		Vehicle: &domain.Vehicle{Type: domain.VehicleTypeCar},
	}
	motoDriver := &domain.Driver{
		ID:      "driver-moto",
		Vehicle: &domain.Vehicle{Type: domain.VehicleTypeMotorcycle},
	}

	carRoutes := factory.TemplatesFor(carDriver)
	motoRoutes := factory.TemplatesFor(motoDriver)

	if len(carRoutes) != 4 || len(motoRoutes) != 4 {
		t.Fatalf("expected 4 routes each, got %d and %d", len(carRoutes), len(motoRoutes))
	}
	for _, r := range carRoutes {
		if r.SeatCapacity != 3 {
			t.Errorf("route %s: expected 3 seats for car, got %d", r.ID, r.SeatCapacity)
		}
	}
	for _, r := range motoRoutes {
		if r.SeatCapacity != 1 {
			t.Errorf("route %s: expected 1 seat for motorcycle, got %d", r.ID, r.SeatCapacity)
		}
	}
}
