package tests

import (
	"context"
	"errors"
	"testing"

	"wheels/internal/domain"
	"wheels/internal/service"
)

// ──────────────────────────────────────────────
// 5. CANCELLATION PATHS
// ──────────────────────────────────────────────

// seedTripWithRiders stores a trip, its chat, and links every participant.
func seedTripWithRiders(f *fixture, tripID, driverID string, riderIDs ...string) *domain.Trip {
	driver := f.addDriverWithCar(driverID)
	driver.CurrentTripID = tripID

	for _, id := range riderIDs {
		rider := f.addRider(id)
		rider.CurrentTripID = tripID
	}

	trip := &domain.Trip{
		ID:           tripID,
		DriverID:     driverID,
		Origin:       "Universidad",
		Destination:  "Barrio Mutis",
		SeatCapacity: 3,
		Status:       domain.TripStatusCreated,
		RiderIDs:     append([]string(nil), riderIDs...),
		ChatID:       "chat-" + tripID,
	}
	f.Trips.AddTrip(trip)
	f.Chats.AddChat(&domain.Chat{ID: trip.ChatID, TripID: tripID})
	return trip
}

func TestCancelTrip_ByDriverRemovesTripAndNotifiesEveryRider(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTripWithRiders(f, "trip-1", "driver-1", "rider-1", "rider-2", "rider-3")

	err := f.TripService.CancelTrip(context.Background(), service.CancelTripRequest{
		TripID: "trip-1", ActingUserID: "driver-1", ActingDriver: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.Trips.CountTrips() != 0 {
		t.Error("expected trip removed")
	}
	if f.Chats.CountChats() != 0 {
		t.Error("expected chat removed with the trip")
	}
	if got := f.Drivers.GetDriver("driver-1").CurrentTripID; got != "" {
		t.Errorf("expected driver unlinked, got %q", got)
	}
	for _, id := range []string{"rider-1", "rider-2", "rider-3"} {
		if got := f.Riders.GetRider(id).CurrentTripID; got != "" {
			t.Errorf("expected %s unlinked, got %q", id, got)
		}
		sent := f.Sender.SentTo(id)
		if len(sent) != 1 {
			t.Fatalf("expected 1 notification for %s, got %d", id, len(sent))
		}
		if sent[0].Type != service.NotificationTripCancelled {
			t.Errorf("expected %s notification, got %s", service.NotificationTripCancelled, sent[0].Type)
		}
	}
}

func TestCancelTrip_OnlyOwnerMayCancelAsDriver(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTripWithRiders(f, "trip-1", "driver-1", "rider-1")
	f.addDriverWithCar("driver-2")

	err := f.TripService.CancelTrip(context.Background(), service.CancelTripRequest{
		TripID: "trip-1", ActingUserID: "driver-2", ActingDriver: true,
	})
	if !errors.Is(err, service.ErrNotTripDriver) {
		t.Errorf("expected ErrNotTripDriver, got %v", err)
	}
	if f.Trips.CountTrips() != 1 {
		t.Error("expected trip untouched")
	}
}

func TestCancelTrip_ByRiderRemovesOnlyThatRider(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTripWithRiders(f, "trip-1", "driver-1", "rider-1", "rider-2")

	err := f.TripService.CancelTrip(context.Background(), service.CancelTripRequest{
		TripID: "trip-1", ActingUserID: "rider-1", ActingDriver: false,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	trip := f.Trips.GetTrip("trip-1")
	if trip == nil {
		t.Fatal("expected trip to survive a rider withdrawal")
	}
	if trip.HasRider("rider-1") {
		t.Error("expected rider-1 removed from the trip")
	}
	if !trip.HasRider("rider-2") {
		t.Error("expected rider-2 to stay")
	}
	if trip.Status != domain.TripStatusCreated {
		t.Errorf("expected status unchanged, got %s", trip.Status)
	}

	if got := f.Riders.GetRider("rider-1").CurrentTripID; got != "" {
		t.Errorf("expected rider-1 unlinked, got %q", got)
	}
	if got := f.Riders.GetRider("rider-2").CurrentTripID; got != "trip-1" {
		t.Errorf("expected rider-2 still linked, got %q", got)
	}

	// The driver, and only the driver, hears about the withdrawal.
	sent := f.Sender.SentTo("driver-1")
	if len(sent) != 1 {
		t.Fatalf("expected 1 notification for the driver, got %d", len(sent))
	}
	if sent[0].Type != service.NotificationRiderWithdrew {
		t.Errorf("expected %s notification, got %s", service.NotificationRiderWithdrew, sent[0].Type)
	}
	if len(f.Sender.SentTo("rider-2")) != 0 {
		t.Error("expected no notification for remaining riders")
	}
}

func TestCancelTrip_NonMemberRiderRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTripWithRiders(f, "trip-1", "driver-1", "rider-1")
	f.addRider("rider-9")

	err := f.TripService.CancelTrip(context.Background(), service.CancelTripRequest{
		TripID: "trip-1", ActingUserID: "rider-9", ActingDriver: false,
	})
	if !errors.Is(err, service.ErrRiderNotInTrip) {
		t.Errorf("expected ErrRiderNotInTrip, got %v", err)
	}
}

func TestCancelTrip_TerminalTripRejected(t *testing.T) {
	t.Parallel()

	f := newFixture()
	f.addDriverWithCar("driver-1")
	f.Trips.AddTrip(&domain.Trip{
		ID: "trip-1", DriverID: "driver-1",
		SeatCapacity: 3, Status: domain.TripStatusFinished,
	})

	err := f.TripService.CancelTrip(context.Background(), service.CancelTripRequest{
		TripID: "trip-1", ActingUserID: "driver-1", ActingDriver: true,
	})
	if !errors.Is(err, service.ErrTripNotActive) {
		t.Errorf("expected ErrTripNotActive, got %v", err)
	}
	if f.Trips.CountTrips() != 1 {
		t.Error("expected finished trip kept for history")
	}
}
