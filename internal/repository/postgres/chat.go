package postgres

import (
	"context"
	"database/sql"
	"errors"

	"wheels/internal/domain"
	"wheels/internal/repository"
)

// ChatRepository is a PostgreSQL implementation of repository.ChatRepository.
type ChatRepository struct {
	q Querier
}

// NewChatRepository creates a new PostgreSQL chat repository.
func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{q: db}
}

// NewChatRepositoryWithTx creates a chat repository using a transaction.
func NewChatRepositoryWithTx(tx *sql.Tx) *ChatRepository {
	return &ChatRepository{q: tx}
}

// Create persists a new chat.
func (r *ChatRepository) Create(ctx context.Context, chat *domain.Chat) error {
	query := `INSERT INTO chats (id, trip_id, created_at) VALUES ($1, $2, $3)`

	_, err := r.q.ExecContext(ctx, query, chat.ID, chat.TripID, chat.CreatedAt)
	return err
}

// GetByTripID retrieves the chat attached to a trip.
func (r *ChatRepository) GetByTripID(ctx context.Context, tripID string) (*domain.Chat, error) {
	query := `SELECT id, trip_id, created_at FROM chats WHERE trip_id = $1`

	var chat domain.Chat
	err := r.q.QueryRowContext(ctx, query, tripID).Scan(&chat.ID, &chat.TripID, &chat.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &chat, nil
}

// Delete removes a chat and its messages.
func (r *ChatRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM messages WHERE chat_id = $1`, id); err != nil {
		return err
	}

	_, err := r.q.ExecContext(ctx, `DELETE FROM chats WHERE id = $1`, id)
	return err
}

// AddMessage appends a message to a chat.
func (r *ChatRepository) AddMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, chat_id, sender_id, body, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.q.ExecContext(ctx, query, msg.ID, msg.ChatID, msg.SenderID, msg.Body, msg.SentAt)
	return err
}

// GetMessages retrieves a chat's messages in send order.
func (r *ChatRepository) GetMessages(ctx context.Context, chatID string) ([]*domain.Message, error) {
	query := `
		SELECT id, chat_id, sender_id, body, sent_at
		FROM messages WHERE chat_id = $1 ORDER BY sent_at ASC
	`

	rows, err := r.q.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Body, &msg.SentAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, &msg)
	}

	return msgs, rows.Err()
}

// Ensure ChatRepository implements repository.ChatRepository.
var _ repository.ChatRepository = (*ChatRepository)(nil)
