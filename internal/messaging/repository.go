// AngelaMos | 2026
// repository.go

package messaging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/forum-system/forum-backend/internal/core"
)

type Repository interface {
	GetConversation(ctx context.Context, id string) (*Conversation, error)
	GetConversationByPair(
		ctx context.Context,
		userAID, userBID string,
	) (*Conversation, error)
	CreateConversation(ctx context.Context, conv *Conversation) error
	ListConversations(
		ctx context.Context,
		userID string,
	) ([]Conversation, error)

	CreateMessage(ctx context.Context, message *Message) error
	ListMessages(
		ctx context.Context,
		conversationID string,
		limit, offset int,
	) ([]Message, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) GetConversation(
	ctx context.Context,
	id string,
) (*Conversation, error) {
	query := `
		SELECT id, user_a_id, user_b_id, created_at
		FROM conversations
		WHERE id = $1`

	var conv Conversation
	err := r.db.GetContext(ctx, &conv, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get conversation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return &conv, nil
}

func (r *repository) GetConversationByPair(
	ctx context.Context,
	userAID, userBID string,
) (*Conversation, error) {
	query := `
		SELECT id, user_a_id, user_b_id, created_at
		FROM conversations
		WHERE user_a_id = $1 AND user_b_id = $2`

	var conv Conversation
	err := r.db.GetContext(ctx, &conv, query, userAID, userBID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get conversation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation: %w", err)
	}

	return &conv, nil
}

func (r *repository) CreateConversation(
	ctx context.Context,
	conv *Conversation,
) error {
	query := `
		INSERT INTO conversations (id, user_a_id, user_b_id)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &conv.CreatedAt, query,
		conv.ID,
		conv.UserAID,
		conv.UserBID,
	)
	if err != nil {
		return fmt.Errorf("create conversation: %w", err)
	}

	return nil
}

func (r *repository) ListConversations(
	ctx context.Context,
	userID string,
) ([]Conversation, error) {
	query := `
		SELECT id, user_a_id, user_b_id, created_at
		FROM conversations
		WHERE user_a_id = $1 OR user_b_id = $1
		ORDER BY created_at DESC`

	var conversations []Conversation
	err := r.db.SelectContext(ctx, &conversations, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}

	return conversations, nil
}

func (r *repository) CreateMessage(
	ctx context.Context,
	message *Message,
) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &message.CreatedAt, query,
		message.ID,
		message.ConversationID,
		message.SenderID,
		message.Content,
	)
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	return nil
}

func (r *repository) ListMessages(
	ctx context.Context,
	conversationID string,
	limit, offset int,
) ([]Message, error) {
	query := `
		SELECT id, conversation_id, sender_id, content, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var messages []Message
	err := r.db.SelectContext(
		ctx,
		&messages,
		query,
		conversationID,
		limit,
		offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}

	return messages, nil
}
