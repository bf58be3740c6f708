// AngelaMos | 2026
// guard_test.go

package access

import (
	"context"
	"errors"
	"testing"

	"github.com/forum-system/forum-backend/internal/core"
)

type fakeTitles struct {
	taken map[string]bool
}

func (f *fakeTitles) TitleExists(
	_ context.Context,
	title string,
) (bool, error) {
	return f.taken[title], nil
}

func newTestGuard(
	categories map[string]CategoryState,
	grants map[string]Level,
	admins map[string]bool,
	takenTitles map[string]bool,
) *Guard {
	adminChecker := &fakeAdmins{admins: admins}
	resolver := NewResolver(
		&fakeCategories{categories: categories},
		&fakeGrants{grants: grants},
		adminChecker,
	)
	return NewGuard(resolver, adminChecker, &fakeTitles{taken: takenTitles})
}

func TestAuthorizeTopicCreateLockedCategory(t *testing.T) {
	guard := newTestGuard(
		map[string]CategoryState{
			"c1": {ID: "c1", IsLocked: true},
		},
		map[string]Level{grantKey("bob", "c1"): LevelWrite},
		map[string]bool{"carol": true},
		nil,
	)
	ctx := context.Background()

	err := guard.AuthorizeTopicCreate(ctx, "bob", "c1", "new topic")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("non-admin create in locked category: error = %v, want ErrForbidden", err)
	}

	if err := guard.AuthorizeTopicCreate(ctx, "carol", "c1", "new topic"); err != nil {
		t.Fatalf("admin create in locked category: error = %v", err)
	}
}

func TestAuthorizeTopicCreateDuplicateTitle(t *testing.T) {
	guard := newTestGuard(
		map[string]CategoryState{"c1": {ID: "c1"}},
		nil,
		nil,
		map[string]bool{"taken title": true},
	)

	err := guard.AuthorizeTopicCreate(
		context.Background(),
		"bob",
		"c1",
		"taken title",
	)
	if !errors.Is(err, core.ErrDuplicateKey) {
		t.Fatalf("duplicate title: error = %v, want ErrDuplicateKey", err)
	}
}

func TestAuthorizeTopicRead(t *testing.T) {
	guard := newTestGuard(
		map[string]CategoryState{
			"private": {ID: "private", IsPrivate: true},
		},
		map[string]Level{grantKey("dave", "private"): LevelRead},
		map[string]bool{"carol": true},
		nil,
	)
	ctx := context.Background()
	topic := TopicState{ID: "t1", AuthorID: "alice", CategoryID: "private"}

	// Author reads their own topic regardless of grants.
	if err := guard.AuthorizeTopicRead(ctx, "alice", topic); err != nil {
		t.Fatalf("author read: error = %v", err)
	}

	if err := guard.AuthorizeTopicRead(ctx, "carol", topic); err != nil {
		t.Fatalf("admin read: error = %v", err)
	}

	if err := guard.AuthorizeTopicRead(ctx, "dave", topic); err != nil {
		t.Fatalf("granted read: error = %v", err)
	}

	err := guard.AuthorizeTopicRead(ctx, "mallory", topic)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("ungranted read: error = %v, want ErrForbidden", err)
	}
}

func TestAuthorizeReplyCreateLockedTopic(t *testing.T) {
	guard := newTestGuard(
		map[string]CategoryState{"c1": {ID: "c1"}},
		nil,
		map[string]bool{"carol": true},
		nil,
	)
	ctx := context.Background()
	locked := TopicState{ID: "t1", AuthorID: "alice", CategoryID: "c1", IsLocked: true}

	err := guard.AuthorizeReplyCreate(ctx, "bob", locked)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("reply to locked topic: error = %v, want ErrForbidden", err)
	}

	// The author gets no exemption from the topic lock.
	err = guard.AuthorizeReplyCreate(ctx, "alice", locked)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("author reply to locked topic: error = %v, want ErrForbidden", err)
	}

	if err := guard.AuthorizeReplyCreate(ctx, "carol", locked); err != nil {
		t.Fatalf("admin reply to locked topic: error = %v", err)
	}
}

func TestAuthorizeTopicMutate(t *testing.T) {
	guard := newTestGuard(
		map[string]CategoryState{
			"c1":      {ID: "c1"},
			"private": {ID: "private", IsPrivate: true},
		},
		nil,
		map[string]bool{"carol": true},
		nil,
	)
	ctx := context.Background()
	topic := TopicState{ID: "t1", AuthorID: "alice", CategoryID: "c1"}

	if err := guard.AuthorizeTopicMutate(ctx, "alice", topic, "c1"); err != nil {
		t.Fatalf("author mutate: error = %v", err)
	}

	err := guard.AuthorizeTopicMutate(ctx, "bob", topic, "c1")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("non-author mutate: error = %v, want ErrForbidden", err)
	}

	// Moving the topic requires write access to the destination.
	err = guard.AuthorizeTopicMutate(ctx, "alice", topic, "private")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("move to ungranted category: error = %v, want ErrForbidden", err)
	}

	locked := topic
	locked.IsLocked = true
	err = guard.AuthorizeTopicMutate(ctx, "alice", locked, "c1")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("author mutate of locked topic: error = %v, want ErrForbidden", err)
	}

	if err := guard.AuthorizeTopicMutate(ctx, "carol", locked, "private"); err != nil {
		t.Fatalf("admin mutate of locked topic: error = %v", err)
	}
}

func TestAuthorizeBestReplySelect(t *testing.T) {
	guard := newTestGuard(
		map[string]CategoryState{"c1": {ID: "c1"}},
		nil,
		map[string]bool{"carol": true},
		nil,
	)
	ctx := context.Background()
	topic := TopicState{ID: "t1", AuthorID: "alice", CategoryID: "c1"}
	ownReply := ReplyState{ID: "r1", AuthorID: "bob", TopicID: "t1"}
	foreignReply := ReplyState{ID: "r2", AuthorID: "bob", TopicID: "t2"}

	if err := guard.AuthorizeBestReplySelect(ctx, "alice", topic, ownReply); err != nil {
		t.Fatalf("author select: error = %v", err)
	}

	if err := guard.AuthorizeBestReplySelect(ctx, "carol", topic, ownReply); err != nil {
		t.Fatalf("admin select: error = %v", err)
	}

	err := guard.AuthorizeBestReplySelect(ctx, "bob", topic, ownReply)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("non-author select: error = %v, want ErrForbidden", err)
	}

	err = guard.AuthorizeBestReplySelect(ctx, "alice", topic, foreignReply)
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("cross-topic select: error = %v, want ErrNotFound", err)
	}
}

func TestAuthorizeLockToggle(t *testing.T) {
	guard := newTestGuard(nil, nil, map[string]bool{"carol": true}, nil)
	ctx := context.Background()

	if err := guard.AuthorizeLockToggle(ctx, "carol"); err != nil {
		t.Fatalf("admin lock toggle: error = %v", err)
	}

	err := guard.AuthorizeLockToggle(ctx, "alice")
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("non-admin lock toggle: error = %v, want ErrForbidden", err)
	}
}
