package repository

import (
	"context"

	"wheels/internal/domain"
)

// ChatRepository defines the persistence operations for trip chats.
type ChatRepository interface {
	// Create persists a new chat.
	Create(ctx context.Context, chat *domain.Chat) error

	// GetByTripID retrieves the chat attached to a trip.
	GetByTripID(ctx context.Context, tripID string) (*domain.Chat, error)

	// Delete removes a chat and its messages.
	Delete(ctx context.Context, id string) error

	// AddMessage appends a message to a chat.
	AddMessage(ctx context.Context, msg *domain.Message) error

	// GetMessages retrieves a chat's messages in send order.
	GetMessages(ctx context.Context, chatID string) ([]*domain.Message, error)
}
