package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wheels/internal/domain"
	"wheels/internal/service"
)

// ChatHandler handles HTTP requests for trip chats.
type ChatHandler struct {
	chatService *service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// MessageResponse is the HTTP response for a chat message.
type MessageResponse struct {
	ID       string `json:"id"`
	SenderID string `json:"sender_id"`
	Body     string `json:"body"`
	SentAt   string `json:"sent_at"`
}

// ChatResponse is the HTTP response for a trip chat.
type ChatResponse struct {
	ChatID   string            `json:"chat_id"`
	TripID   string            `json:"trip_id"`
	Messages []MessageResponse `json:"messages"`
}

func toMessageResponse(msg *domain.Message) MessageResponse {
	return MessageResponse{
		ID:       msg.ID,
		SenderID: msg.SenderID,
		Body:     msg.Body,
		SentAt:   msg.SentAt.Format(time.RFC3339),
	}
}

// GetChat handles GET /v1/trips/:id/chat
func (h *ChatHandler) GetChat(c *gin.Context) {
	chat, messages, err := h.chatService.GetTripChat(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := ChatResponse{
		ChatID:   chat.ID,
		TripID:   chat.TripID,
		Messages: make([]MessageResponse, 0, len(messages)),
	}
	for _, msg := range messages {
		response.Messages = append(response.Messages, toMessageResponse(msg))
	}

	respondJSON(c, http.StatusOK, response)
}

// PostMessageRequest is the HTTP request body for posting a chat message.
type PostMessageRequest struct {
	SenderID string `json:"sender_id"`
	Body     string `json:"body"`
}

// PostMessage handles POST /v1/trips/:id/chat/messages
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	msg, err := h.chatService.PostMessage(c.Request.Context(), service.PostMessageRequest{
		TripID:   c.Param("id"),
		SenderID: req.SenderID,
		Body:     req.Body,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toMessageResponse(msg))
}
