package tests

import (
	"context"
	"errors"
	"testing"

	"wheels/internal/domain"
	"wheels/internal/repository"
)

// ──────────────────────────────────────────────
// 7. LOOKUPS, HISTORY AND CACHING
// ──────────────────────────────────────────────

func TestGetTrip_SecondReadServedFromCache(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTrip(f, &domain.Trip{ID: "trip-1", DriverID: "driver-1", SeatCapacity: 3})

	if _, err := f.TripService.GetTrip(context.Background(), "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.Cache.SetCallCount != 1 {
		t.Fatalf("expected 1 cache fill, got %d", f.Cache.SetCallCount)
	}

	// Second read hits the cache, not the repository.
	trip, err := f.TripService.GetTrip(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.ID != "trip-1" {
		t.Errorf("expected trip-1, got %s", trip.ID)
	}
	if f.Cache.GetCallCount != 2 {
		t.Errorf("expected 2 cache lookups, got %d", f.Cache.GetCallCount)
	}
	if f.Cache.SetCallCount != 1 {
		t.Errorf("expected no second cache fill, got %d", f.Cache.SetCallCount)
	}
}

func TestGetTrip_UnknownTrip(t *testing.T) {
	t.Parallel()

	f := newFixture()

	_, err := f.TripService.GetTrip(context.Background(), "ghost")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestActiveTrip_ForDriverAndRider(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 3, RiderIDs: []string{"rider-1"},
	})
	seedTrip(f, &domain.Trip{
		ID: "trip-old", DriverID: "driver-1",
		SeatCapacity: 3, Status: domain.TripStatusFinished,
	})

	trip, err := f.TripService.ActiveTripForDriver(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.ID != "trip-1" {
		t.Errorf("expected trip-1, got %s", trip.ID)
	}

	trip, err = f.TripService.ActiveTripForRider(context.Background(), "rider-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if trip.ID != "trip-1" {
		t.Errorf("expected trip-1, got %s", trip.ID)
	}

	// No active trip answers not-found rather than nil.
	if _, err := f.TripService.ActiveTripForDriver(context.Background(), "driver-9"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := f.TripService.ActiveTripForRider(context.Background(), "rider-9"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistory_OnlyTerminalTrips(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTrip(f, &domain.Trip{ID: "trip-active", DriverID: "driver-1", SeatCapacity: 3, RiderIDs: []string{"rider-1"}})
	seedTrip(f, &domain.Trip{ID: "trip-done", DriverID: "driver-1", SeatCapacity: 3, Status: domain.TripStatusFinished, RiderIDs: []string{"rider-1"}})
	seedTrip(f, &domain.Trip{ID: "trip-cancelled", DriverID: "driver-1", SeatCapacity: 3, Status: domain.TripStatusCancelled})

	history, err := f.TripService.HistoryForDriver(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 terminal trips for the driver, got %d", len(history))
	}

	history, err = f.TripService.HistoryForRider(context.Background(), "rider-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 || history[0].ID != "trip-done" {
		t.Errorf("expected only trip-done for the rider, got %v", history)
	}
}

func TestRoutesForDriver_UsesRegisteredVehicle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	driver := f.addDriverWithCar("driver-1")
	driver.Vehicle.Type = domain.VehicleTypeMotorcycle

	routes, err := f.TripService.RoutesForDriver(context.Background(), "driver-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(routes) != 4 {
		t.Fatalf("expected 4 routes, got %d", len(routes))
	}
	for _, r := range routes {
		if r.SeatCapacity != 1 {
			t.Errorf("route %s: expected 1 seat, got %d", r.ID, r.SeatCapacity)
		}
	}
}
