package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"wheels/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationTripCancelled NotificationType = "TRIP_CANCELLED"
	NotificationRiderWithdrew NotificationType = "RIDER_WITHDREW"
	NotificationTripFinished  NotificationType = "TRIP_FINISHED"
)

// Notification represents a notification to be delivered to one user.
type Notification struct {
	Type        NotificationType
	RecipientID string
	Title       string
	Message     string
	Data        map[string]interface{}
	CreatedAt   time.Time
}

// Sender delivers a notification. Delivery is best-effort: the lifecycle
// operations never fail because a send failed.
type Sender interface {
	Send(ctx context.Context, n Notification) error
}

// NopSender discards notifications. Used when no broker is configured; the
// send is still logged by NotificationService.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, n Notification) error { return nil }

// NotificationService builds and dispatches trip notifications.
type NotificationService struct {
	sender Sender
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(sender Sender) *NotificationService {
	if sender == nil {
		sender = NopSender{}
	}
	return &NotificationService{sender: sender}
}

// NotifyTripCancelled tells a rider the driver cancelled the trip.
func (s *NotificationService) NotifyTripCancelled(ctx context.Context, trip *domain.Trip, riderID string) {
	s.send(ctx, Notification{
		Type:        NotificationTripCancelled,
		RecipientID: riderID,
		Title:       "Trip Cancelled",
		Message:     fmt.Sprintf("The trip to %s was cancelled by the driver.", trip.Destination),
		Data: map[string]interface{}{
			"trip_id":     trip.ID,
			"destination": trip.Destination,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyRiderWithdrew tells the driver a rider left the trip.
func (s *NotificationService) NotifyRiderWithdrew(ctx context.Context, trip *domain.Trip, rider *domain.Rider) {
	s.send(ctx, Notification{
		Type:        NotificationRiderWithdrew,
		RecipientID: trip.DriverID,
		Title:       "Rider Withdrew",
		Message:     fmt.Sprintf("%s has withdrawn from the trip to %s.", rider.Name, trip.Destination),
		Data: map[string]interface{}{
			"trip_id":  trip.ID,
			"rider_id": rider.ID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyTripFinished tells a rider the trip was completed.
func (s *NotificationService) NotifyTripFinished(ctx context.Context, trip *domain.Trip, riderID string) {
	s.send(ctx, Notification{
		Type:        NotificationTripFinished,
		RecipientID: riderID,
		Title:       "Trip Completed",
		Message:     fmt.Sprintf("The trip to %s has been completed by the driver.", trip.Destination),
		Data: map[string]interface{}{
			"trip_id":     trip.ID,
			"destination": trip.Destination,
		},
		CreatedAt: time.Now(),
	})
}

// send dispatches a notification. Failures are logged, never propagated.
func (s *NotificationService) send(ctx context.Context, n Notification) {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Message=%s", n.Type, n.RecipientID, n.Message)

	if err := s.sender.Send(ctx, n); err != nil {
		log.Printf("[NOTIFICATION] delivery to %s failed: %v", n.RecipientID, err)
	}
}
