// AngelaMos | 2026
// guard.go

package access

import (
	"context"
	"fmt"

	"github.com/forum-system/forum-backend/internal/core"
)

// TopicState carries the topic fields the guard evaluates. Callers load the
// topic themselves; the guard never fetches content.
type TopicState struct {
	ID         string
	AuthorID   string
	CategoryID string
	IsLocked   bool
}

// ReplyState carries the reply fields the guard evaluates.
type ReplyState struct {
	ID       string
	AuthorID string
	TopicID  string
}

// TitleChecker reports whether a topic title is already taken anywhere.
// Titles are globally unique, not per-category.
type TitleChecker interface {
	TitleExists(ctx context.Context, title string) (bool, error)
}

// Guard applies the permission resolver plus entity-level state (topic
// locks, author identity) to authorize content operations. Every check runs
// before the first mutation of the enclosing operation.
type Guard struct {
	resolver *Resolver
	admins   AdminChecker
	titles   TitleChecker
}

func NewGuard(
	resolver *Resolver,
	admins AdminChecker,
	titles TitleChecker,
) *Guard {
	return &Guard{
		resolver: resolver,
		admins:   admins,
		titles:   titles,
	}
}

// AuthorizeTopicCreate requires write access to the category and rejects
// titles that already exist with core.ErrDuplicateKey.
func (g *Guard) AuthorizeTopicCreate(
	ctx context.Context,
	userID, categoryID, title string,
) error {
	if err := g.resolver.CanAccess(ctx, userID, categoryID, ModeWrite); err != nil {
		return err
	}

	exists, err := g.titles.TitleExists(ctx, title)
	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}
	if exists {
		return fmt.Errorf("topic title taken: %w", core.ErrDuplicateKey)
	}

	return nil
}

// AuthorizeCategoryRead requires read access to the category, for listing
// its topics.
func (g *Guard) AuthorizeCategoryRead(
	ctx context.Context,
	userID, categoryID string,
) error {
	return g.resolver.CanAccess(ctx, userID, categoryID, ModeRead)
}

// AuthorizeTopicRead lets the author and admins through unconditionally;
// everyone else needs read access to the topic's category.
func (g *Guard) AuthorizeTopicRead(
	ctx context.Context,
	userID string,
	topic TopicState,
) error {
	if userID == topic.AuthorID {
		return nil
	}

	isAdmin, err := g.admins.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if isAdmin {
		return nil
	}

	return g.resolver.CanAccess(ctx, userID, topic.CategoryID, ModeRead)
}

// AuthorizeReplyCreate rejects replies to locked topics from non-admins,
// then requires write access to the topic's category.
func (g *Guard) AuthorizeReplyCreate(
	ctx context.Context,
	userID string,
	topic TopicState,
) error {
	isAdmin, err := g.admins.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}

	if topic.IsLocked && !isAdmin {
		return fmt.Errorf("topic is locked: %w", core.ErrForbidden)
	}

	if isAdmin {
		return nil
	}

	return g.resolver.CanAccess(ctx, userID, topic.CategoryID, ModeWrite)
}

// AuthorizeTopicMutate covers title and category edits. The actor must be
// the topic's author or an admin, the topic must be unlocked unless the
// actor is an admin, and the actor needs write access to the target
// category (which differs from the current one when the topic is moved).
func (g *Guard) AuthorizeTopicMutate(
	ctx context.Context,
	userID string,
	topic TopicState,
	targetCategoryID string,
) error {
	isAdmin, err := g.admins.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}

	if userID != topic.AuthorID && !isAdmin {
		return fmt.Errorf("not the topic author: %w", core.ErrForbidden)
	}

	if topic.IsLocked && !isAdmin {
		return fmt.Errorf("topic is locked: %w", core.ErrForbidden)
	}

	if isAdmin {
		return nil
	}

	return g.resolver.CanAccess(ctx, userID, targetCategoryID, ModeWrite)
}

// AuthorizeReplyMutate covers reply edits and deletion. The actor must be
// the reply's author or an admin, the enclosing topic must be unlocked
// unless the actor is an admin, and a non-admin author still needs write
// access to the topic's category.
func (g *Guard) AuthorizeReplyMutate(
	ctx context.Context,
	userID string,
	topic TopicState,
	reply ReplyState,
) error {
	isAdmin, err := g.admins.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}

	if userID != reply.AuthorID && !isAdmin {
		return fmt.Errorf("not the reply author: %w", core.ErrForbidden)
	}

	if topic.IsLocked && !isAdmin {
		return fmt.Errorf("topic is locked: %w", core.ErrForbidden)
	}

	if isAdmin {
		return nil
	}

	return g.resolver.CanAccess(ctx, userID, topic.CategoryID, ModeWrite)
}

// AuthorizeBestReplySelect requires author-or-admin and rejects a reply
// that belongs to a different topic as core.ErrNotFound, so a caller
// probing with foreign reply ids learns nothing.
func (g *Guard) AuthorizeBestReplySelect(
	ctx context.Context,
	userID string,
	topic TopicState,
	reply ReplyState,
) error {
	isAdmin, err := g.admins.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}

	if userID != topic.AuthorID && !isAdmin {
		return fmt.Errorf("not the topic author: %w", core.ErrForbidden)
	}

	if reply.TopicID != topic.ID {
		return fmt.Errorf(
			"reply does not belong to topic: %w",
			core.ErrNotFound,
		)
	}

	return nil
}

// AuthorizeLockToggle is admin-only, unconditionally.
func (g *Guard) AuthorizeLockToggle(
	ctx context.Context,
	userID string,
) error {
	isAdmin, err := g.admins.IsAdmin(ctx, userID)
	if err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if !isAdmin {
		return fmt.Errorf("admin required: %w", core.ErrForbidden)
	}

	return nil
}
