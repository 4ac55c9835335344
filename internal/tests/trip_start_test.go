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
// 4. TRIP START RULES
// ──────────────────────────────────────────────

func TestStartTrip_TooEarlyReturnsFalseWithoutError(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 3,
		DepartureAt:  time.Now().Add(10 * time.Minute),
	})

	started, err := f.TripService.StartTrip(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if started {
		t.Error("expected trip not to start before departure")
	}

	trip := f.Trips.GetTrip("trip-1")
	if trip.Status != domain.TripStatusCreated {
		t.Errorf("expected status unchanged, got %s", trip.Status)
	}
}

func TestStartTrip_StartsAtDeparture(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 3,
		DepartureAt:  time.Now().Add(-time.Second),
	})

	started, err := f.TripService.StartTrip(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !started {
		t.Fatal("expected trip to start once departure passed")
	}

	trip := f.Trips.GetTrip("trip-1")
	if trip.Status != domain.TripStatusInProgress {
		t.Errorf("expected status %s, got %s", domain.TripStatusInProgress, trip.Status)
	}
}

func TestStartTrip_ZeroSeatTripStartsEarly(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 0,
		DepartureAt:  time.Now().Add(10 * time.Minute),
	})

	started, err := f.TripService.StartTrip(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !started {
		t.Error("expected zero-seat trip to start regardless of time")
	}
}

func TestStartTrip_RejectsWrongState(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 3,
		Status:       domain.TripStatusInProgress,
		DepartureAt:  time.Now().Add(-time.Hour),
	})

	_, err := f.TripService.StartTrip(context.Background(), "trip-1")
	if !errors.Is(err, service.ErrTripNotCreated) {
		t.Errorf("expected ErrTripNotCreated, got %v", err)
	}
}

func TestStartTrip_IsIdempotentOnRepeatedEarlyPolls(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTrip(f, &domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 3,
		DepartureAt:  time.Now().Add(10 * time.Minute),
	})

	// Clients poll; every poll before departure answers false and leaves
	// the trip unchanged.
	for i := 0; i < 3; i++ {
		started, err := f.TripService.StartTrip(context.Background(), "trip-1")
		if err != nil {
			t.Fatalf("poll %d: unexpected error: %v", i, err)
		}
		if started {
			t.Fatalf("poll %d: expected not started", i)
		}
	}
	if got := f.Trips.GetTrip("trip-1").Status; got != domain.TripStatusCreated {
		t.Errorf("expected status %s, got %s", domain.TripStatusCreated, got)
	}
}
