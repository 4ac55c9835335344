package tests

import (
	"context"
	"errors"
	"testing"

	"wheels/internal/domain"
	"wheels/internal/repository"
	"wheels/internal/service"
)

// ──────────────────────────────────────────────
// 2. TRIP CREATION
// ──────────────────────────────────────────────

func TestCreateTrip_CreatesTripChatAndDriverLink(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriverWithCar("driver-1")

	trip, err := f.TripService.CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID:   "driver-1",
		TemplateID: "u-mutis",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := f.Trips.GetTrip(trip.ID)
	if stored == nil {
		t.Fatal("trip not persisted")
	}
	if stored.Status != domain.TripStatusCreated {
		t.Errorf("expected status %s, got %s", domain.TripStatusCreated, stored.Status)
	}

	// The chat is created in the same transaction and linked both ways.
	if trip.ChatID == "" {
		t.Fatal("expected trip to carry a chat ID")
	}
	chat, err := f.Chats.GetByTripID(context.Background(), trip.ID)
	if err != nil {
		t.Fatalf("chat not persisted: %v", err)
	}
	if chat.ID != trip.ChatID {
		t.Errorf("chat link mismatch: trip has %s, chat is %s", trip.ChatID, chat.ID)
	}

	driver := f.Drivers.GetDriver("driver-1")
	if driver.CurrentTripID != trip.ID {
		t.Errorf("expected driver linked to %s, got %q", trip.ID, driver.CurrentTripID)
	}
}

func TestCreateTrip_RejectsDriverWithActiveTrip(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriverWithCar("driver-1")

	if _, err := f.TripService.CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID: "driver-1", TemplateID: "u-mutis",
	}); err != nil {
		t.Fatalf("first trip: unexpected error: %v", err)
	}

	_, err := f.TripService.CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID: "driver-1", TemplateID: "mutis-u",
	})
	if !errors.Is(err, service.ErrDriverHasActiveTrip) {
		t.Errorf("expected ErrDriverHasActiveTrip, got %v", err)
	}
	if f.Trips.CountTrips() != 1 {
		t.Errorf("expected 1 trip, got %d", f.Trips.CountTrips())
	}
}

func TestCreateTrip_RejectsDriverWithoutVehicle(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.Drivers.AddDriver(&domain.Driver{ID: "driver-1", Name: "No Car", Phone: "3000000"})

	_, err := f.TripService.CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID: "driver-1", TemplateID: "u-mutis",
	})
	if !errors.Is(err, service.ErrNoVehicleRegistered) {
		t.Errorf("expected ErrNoVehicleRegistered, got %v", err)
	}
}

func TestCreateTrip_RejectsUnknownRoute(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriverWithCar("driver-1")

	_, err := f.TripService.CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID: "driver-1", TemplateID: "u-nowhere",
	})
	if !errors.Is(err, service.ErrUnknownRoute) {
		t.Errorf("expected ErrUnknownRoute, got %v", err)
	}
}

func TestCreateTrip_UnknownDriver(t *testing.T) {
	t.Parallel()

	f := newFixture()

	_, err := f.TripService.CreateTrip(context.Background(), service.CreateTripRequest{
		DriverID: "ghost", TemplateID: "u-mutis",
	})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = f.TripService.CreateTrip(context.Background(), service.CreateTripRequest{TemplateID: "u-mutis"})
	if !errors.Is(err, service.ErrInvalidDriverID) {
		t.Errorf("expected ErrInvalidDriverID, got %v", err)
	}
}
