package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"wheels/internal/domain"
	"wheels/internal/service"
)

// ──────────────────────────────────────────────
// 3. RIDER ADMISSION
// ──────────────────────────────────────────────

// seedTrip stores an active trip directly, bypassing the factory, so tests
// control capacity and departure.
func seedTrip(f *fixture, trip *domain.Trip) *domain.Trip {
	if trip.Status == "" {
		trip.Status = domain.TripStatusCreated
	}
	f.Trips.AddTrip(trip)
	return trip
}

func TestAdmitRider_AddsRiderAndLinksIt(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRider("rider-1")
	seedTrip(f, &domain.Trip{ID: "trip-1", DriverID: "driver-1", SeatCapacity: 3})

	trip, err := f.TripService.AdmitRider(context.Background(), service.AdmitRiderRequest{
		TripID: "trip-1", RiderID: "rider-1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !trip.HasRider("rider-1") {
		t.Error("expected rider-1 in the trip")
	}
	if trip.SeatsLeft() != 2 {
		t.Errorf("expected 2 seats left, got %d", trip.SeatsLeft())
	}

	rider := f.Riders.GetRider("rider-1")
	if rider.CurrentTripID != "trip-1" {
		t.Errorf("expected rider linked to trip-1, got %q", rider.CurrentTripID)
	}
}

func TestAdmitRider_DuplicateWinsOverFullTrip(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRider("rider-1")

	// rider-1 already holds the only seat, so the trip is both full and
	// already contains them. The duplicate answer must win.
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 1, RiderIDs: []string{"rider-1"},
	})

	_, err := f.TripService.AdmitRider(context.Background(), service.AdmitRiderRequest{
		TripID: "trip-1", RiderID: "rider-1",
	})
	if !errors.Is(err, service.ErrRiderAlreadyInTrip) {
		t.Errorf("expected ErrRiderAlreadyInTrip, got %v", err)
	}
}

func TestAdmitRider_RejectsWhenFull(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRider("rider-3")
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 2, RiderIDs: []string{"rider-1", "rider-2"},
	})

	_, err := f.TripService.AdmitRider(context.Background(), service.AdmitRiderRequest{
		TripID: "trip-1", RiderID: "rider-3",
	})
	if !errors.Is(err, service.ErrNoSeatsLeft) {
		t.Errorf("expected ErrNoSeatsLeft, got %v", err)
	}

	trip := f.Trips.GetTrip("trip-1")
	if len(trip.RiderIDs) != 2 {
		t.Errorf("expected rider set untouched, got %v", trip.RiderIDs)
	}
}

func TestAdmitRider_RejectsBusyRider(t *testing.T) {
	t.Parallel()

	f := newFixture()
	rider := f.addRider("rider-1")
	rider.CurrentTripID = "other-trip"
	seedTrip(f, &domain.Trip{ID: "trip-1", DriverID: "driver-1", SeatCapacity: 3})

	_, err := f.TripService.AdmitRider(context.Background(), service.AdmitRiderRequest{
		TripID: "trip-1", RiderID: "rider-1",
	})
	if !errors.Is(err, service.ErrRiderHasActiveTrip) {
		t.Errorf("expected ErrRiderHasActiveTrip, got %v", err)
	}
}

func TestAdmitRider_RejectsInactiveTrip(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRider("rider-1")
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 3, Status: domain.TripStatusFinished,
	})

	_, err := f.TripService.AdmitRider(context.Background(), service.AdmitRiderRequest{
		TripID: "trip-1", RiderID: "rider-1",
	})
	if !errors.Is(err, service.ErrTripNotActive) {
		t.Errorf("expected ErrTripNotActive, got %v", err)
	}
}

func TestAdmitRider_TripLockedByAnotherOperation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRider("rider-1")
	seedTrip(f, &domain.Trip{ID: "trip-1", DriverID: "driver-1", SeatCapacity: 3})
	f.Locks.HoldLock("trip-1")

	_, err := f.TripService.AdmitRider(context.Background(), service.AdmitRiderRequest{
		TripID: "trip-1", RiderID: "rider-1",
	})
	if !errors.Is(err, service.ErrTripBusy) {
		t.Errorf("expected ErrTripBusy, got %v", err)
	}
}

func TestAdmitRider_InvalidatesCachedSnapshot(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addRider("rider-1")
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 3, DepartureAt: time.Now().Add(15 * time.Minute),
	})

	// Warm the cache through a read.
	if _, err := f.TripService.GetTrip(context.Background(), "trip-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(f.Cache.CachedIDs()) != 1 {
		t.Fatal("expected trip-1 cached after read")
	}

	if _, err := f.TripService.AdmitRider(context.Background(), service.AdmitRiderRequest{
		TripID: "trip-1", RiderID: "rider-1",
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(f.Cache.CachedIDs()) != 0 {
		t.Error("expected cache invalidated after admission")
	}

	// The next read must see the new rider, not a stale snapshot.
	trip, err := f.TripService.GetTrip(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !trip.HasRider("rider-1") {
		t.Error("expected fresh read to include rider-1")
	}
}
