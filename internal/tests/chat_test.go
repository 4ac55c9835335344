package tests

import (
	"context"
	"errors"
	"testing"

	"wheels/internal/service"
)

// ──────────────────────────────────────────────
// 8. TRIP CHAT
// ──────────────────────────────────────────────

func TestChat_DriverAndRidersMayPost(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTripWithRiders(f, "trip-1", "driver-1", "rider-1")

	msg, err := f.ChatService.PostMessage(context.Background(), service.PostMessageRequest{
		TripID: "trip-1", SenderID: "driver-1", Body: "Saliendo en 5",
	})
	if err != nil {
		t.Fatalf("driver post: unexpected error: %v", err)
	}
	if msg.SenderID != "driver-1" || msg.Body != "Saliendo en 5" {
		t.Errorf("unexpected message: %+v", msg)
	}

	if _, err := f.ChatService.PostMessage(context.Background(), service.PostMessageRequest{
		TripID: "trip-1", SenderID: "rider-1", Body: "Listo, ya voy",
	}); err != nil {
		t.Fatalf("rider post: unexpected error: %v", err)
	}

	_, messages, err := f.ChatService.GetTripChat(context.Background(), "trip-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(messages) != 2 {
		t.Errorf("expected 2 messages, got %d", len(messages))
	}
}

func TestChat_OutsiderMayNotPost(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTripWithRiders(f, "trip-1", "driver-1", "rider-1")
	f.addRider("rider-9")

	_, err := f.ChatService.PostMessage(context.Background(), service.PostMessageRequest{
		TripID: "trip-1", SenderID: "rider-9", Body: "hola",
	})
	if !errors.Is(err, service.ErrNotTripMember) {
		t.Errorf("expected ErrNotTripMember, got %v", err)
	}
}

func TestChat_RejectsBlankMessage(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTripWithRiders(f, "trip-1", "driver-1", "rider-1")

	_, err := f.ChatService.PostMessage(context.Background(), service.PostMessageRequest{
		TripID: "trip-1", SenderID: "driver-1", Body: "   ",
	})
	if !errors.Is(err, service.ErrEmptyMessage) {
		t.Errorf("expected ErrEmptyMessage, got %v", err)
	}
}

func TestChat_DiesWithDriverCancellation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	seedTripWithRiders(f, "trip-1", "driver-1", "rider-1")

	if err := f.TripService.CancelTrip(context.Background(), service.CancelTripRequest{
		TripID: "trip-1", ActingUserID: "driver-1", ActingDriver: true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, _, err := f.ChatService.GetTripChat(context.Background(), "trip-1"); err == nil {
		t.Error("expected chat gone after driver cancellation")
	}
}
