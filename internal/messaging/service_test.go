// AngelaMos | 2026
// service_test.go

package messaging

import (
	"context"
	"errors"
	"testing"

	"github.com/forum-system/forum-backend/internal/core"
)

type fakeRepo struct {
	conversations map[string]*Conversation
	messages      []*Message
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{conversations: make(map[string]*Conversation)}
}

func (f *fakeRepo) GetConversation(
	_ context.Context,
	id string,
) (*Conversation, error) {
	conv, ok := f.conversations[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	copied := *conv
	return &copied, nil
}

func (f *fakeRepo) GetConversationByPair(
	_ context.Context,
	userAID, userBID string,
) (*Conversation, error) {
	for _, conv := range f.conversations {
		if conv.UserAID == userAID && conv.UserBID == userBID {
			copied := *conv
			return &copied, nil
		}
	}
	return nil, core.ErrNotFound
}

func (f *fakeRepo) CreateConversation(
	_ context.Context,
	conv *Conversation,
) error {
	copied := *conv
	f.conversations[conv.ID] = &copied
	return nil
}

func (f *fakeRepo) ListConversations(
	_ context.Context,
	userID string,
) ([]Conversation, error) {
	var result []Conversation
	for _, conv := range f.conversations {
		if conv.Participant(userID) {
			result = append(result, *conv)
		}
	}
	return result, nil
}

func (f *fakeRepo) CreateMessage(
	_ context.Context,
	message *Message,
) error {
	copied := *message
	f.messages = append(f.messages, &copied)
	return nil
}

func (f *fakeRepo) ListMessages(
	_ context.Context,
	conversationID string,
	_, _ int,
) ([]Message, error) {
	var result []Message
	for _, message := range f.messages {
		if message.ConversationID == conversationID {
			result = append(result, *message)
		}
	}
	return result, nil
}

type fakeRecipients struct {
	known map[string]bool
}

func (f *fakeRecipients) Exists(
	_ context.Context,
	userID string,
) (bool, error) {
	return f.known[userID], nil
}

func newTestService(known ...string) (*Service, *fakeRepo) {
	recipients := &fakeRecipients{known: make(map[string]bool)}
	for _, id := range known {
		recipients.known[id] = true
	}

	repo := newFakeRepo()
	return NewService(repo, recipients), repo
}

func TestSendMessageReusesPairConversation(t *testing.T) {
	svc, repo := newTestService("alice", "bob")
	ctx := context.Background()

	first, err := svc.SendMessage(ctx, "alice", SendMessageRequest{
		RecipientID: "bob",
		Content:     "hi bob",
	})
	if err != nil {
		t.Fatalf("SendMessage(alice->bob) error = %v", err)
	}

	// The reply from the other side lands in the same conversation.
	second, err := svc.SendMessage(ctx, "bob", SendMessageRequest{
		RecipientID: "alice",
		Content:     "hi alice",
	})
	if err != nil {
		t.Fatalf("SendMessage(bob->alice) error = %v", err)
	}

	if first.ConversationID != second.ConversationID {
		t.Fatalf(
			"conversation ids differ: %q vs %q",
			first.ConversationID,
			second.ConversationID,
		)
	}
	if len(repo.conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(repo.conversations))
	}

	conv := repo.conversations[first.ConversationID]
	if conv.UserAID >= conv.UserBID {
		t.Fatalf(
			"pair not normalized: (%q, %q)",
			conv.UserAID,
			conv.UserBID,
		)
	}
}

func TestSendMessageToSelf(t *testing.T) {
	svc, _ := newTestService("alice")

	_, err := svc.SendMessage(context.Background(), "alice", SendMessageRequest{
		RecipientID: "alice",
		Content:     "note to self",
	})
	if !errors.Is(err, core.ErrInvalidInput) {
		t.Fatalf("self message: error = %v, want ErrInvalidInput", err)
	}
}

func TestSendMessageUnknownRecipient(t *testing.T) {
	svc, _ := newTestService("alice")

	_, err := svc.SendMessage(context.Background(), "alice", SendMessageRequest{
		RecipientID: "ghost",
		Content:     "anyone there?",
	})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("unknown recipient: error = %v, want ErrNotFound", err)
	}
}

func TestListMessagesParticipantOnly(t *testing.T) {
	svc, _ := newTestService("alice", "bob")
	ctx := context.Background()

	message, err := svc.SendMessage(ctx, "alice", SendMessageRequest{
		RecipientID: "bob",
		Content:     "secret",
	})
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	messages, err := svc.ListMessages(ctx, "bob", message.ConversationID, 0, 0)
	if err != nil {
		t.Fatalf("ListMessages(participant) error = %v", err)
	}
	if len(messages) != 1 {
		t.Fatalf("messages = %d, want 1", len(messages))
	}

	// A non-participant gets not-found, same as a missing conversation.
	_, err = svc.ListMessages(ctx, "mallory", message.ConversationID, 0, 0)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("non-participant: error = %v, want ErrNotFound", err)
	}

	_, err = svc.ListMessages(ctx, "alice", "missing", 0, 0)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing conversation: error = %v, want ErrNotFound", err)
	}
}
