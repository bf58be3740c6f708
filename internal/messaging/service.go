// AngelaMos | 2026
// service.go

package messaging

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/forum-system/forum-backend/internal/core"
)

// RecipientChecker verifies a message recipient exists before a
// conversation is created for the pair.
type RecipientChecker interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// Service stores and reads direct messages between user pairs. Delivery
// fan-out to connected clients is a separate collaborator; this service
// only persists an already-authorized message.
type Service struct {
	repo       Repository
	recipients RecipientChecker
}

func NewService(repo Repository, recipients RecipientChecker) *Service {
	return &Service{repo: repo, recipients: recipients}
}

// orderPair normalizes a user pair so each pair maps to one conversation
// row regardless of who messaged first.
func orderPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

func (s *Service) getOrCreateConversation(
	ctx context.Context,
	userID, otherID string,
) (*Conversation, error) {
	userA, userB := orderPair(userID, otherID)

	conv, err := s.repo.GetConversationByPair(ctx, userA, userB)
	if err == nil {
		return conv, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, err
	}

	conv = &Conversation{
		ID:      uuid.New().String(),
		UserAID: userA,
		UserBID: userB,
	}

	if err := s.repo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}

	return conv, nil
}

func (s *Service) SendMessage(
	ctx context.Context,
	senderID string,
	req SendMessageRequest,
) (*Message, error) {
	if req.RecipientID == senderID {
		return nil, fmt.Errorf(
			"cannot message yourself: %w",
			core.ErrInvalidInput,
		)
	}

	exists, err := s.recipients.Exists(ctx, req.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("check recipient: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("recipient: %w", core.ErrNotFound)
	}

	conv, err := s.getOrCreateConversation(ctx, senderID, req.RecipientID)
	if err != nil {
		return nil, err
	}

	message := &Message{
		ID:             uuid.New().String(),
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        req.Content,
	}

	if err := s.repo.CreateMessage(ctx, message); err != nil {
		return nil, err
	}

	return message, nil
}

func (s *Service) ListConversations(
	ctx context.Context,
	userID string,
) ([]Conversation, error) {
	return s.repo.ListConversations(ctx, userID)
}

// ListMessages is participant-only. A non-participant probing a
// conversation id gets not-found, never forbidden, so existence does not
// leak.
func (s *Service) ListMessages(
	ctx context.Context,
	userID, conversationID string,
	limit, offset int,
) ([]Message, error) {
	conv, err := s.repo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	if !conv.Participant(userID) {
		return nil, fmt.Errorf("conversation: %w", core.ErrNotFound)
	}

	if limit < 1 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	return s.repo.ListMessages(ctx, conversationID, limit, offset)
}
