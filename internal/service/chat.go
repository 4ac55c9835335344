package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"wheels/internal/domain"
	"wheels/internal/repository"
)

// ChatService handles the conversation channel attached to each trip.
type ChatService struct {
	chatRepo repository.ChatRepository
	tripRepo repository.TripRepository
}

// NewChatService creates a new ChatService.
func NewChatService(chatRepo repository.ChatRepository, tripRepo repository.TripRepository) *ChatService {
	return &ChatService{chatRepo: chatRepo, tripRepo: tripRepo}
}

// GetTripChat retrieves a trip's chat and its messages.
func (s *ChatService) GetTripChat(ctx context.Context, tripID string) (*domain.Chat, []*domain.Message, error) {
	if tripID == "" {
		return nil, nil, ErrInvalidTripID
	}

	chat, err := s.chatRepo.GetByTripID(ctx, tripID)
	if err != nil {
		return nil, nil, err
	}

	messages, err := s.chatRepo.GetMessages(ctx, chat.ID)
	if err != nil {
		return nil, nil, err
	}

	return chat, messages, nil
}

// PostMessageRequest contains the parameters for posting a chat message.
type PostMessageRequest struct {
	TripID   string
	SenderID string
	Body     string
}

// PostMessage appends a message to the trip's chat. Only the trip's driver
// and its current riders may post.
func (s *ChatService) PostMessage(ctx context.Context, req PostMessageRequest) (*domain.Message, error) {
	if req.TripID == "" {
		return nil, ErrInvalidTripID
	}
	if req.SenderID == "" {
		return nil, ErrInvalidUserID
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, ErrEmptyMessage
	}

	trip, err := s.tripRepo.GetByID(ctx, req.TripID)
	if err != nil {
		return nil, err
	}

	if req.SenderID != trip.DriverID && !trip.HasRider(req.SenderID) {
		return nil, ErrNotTripMember
	}

	chat, err := s.chatRepo.GetByTripID(ctx, trip.ID)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:       uuid.New().String(),
		ChatID:   chat.ID,
		SenderID: req.SenderID,
		Body:     req.Body,
		SentAt:   time.Now(),
	}

	if err := s.chatRepo.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	return msg, nil
}
