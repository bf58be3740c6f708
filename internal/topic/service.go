// AngelaMos | 2026
// service.go

package topic

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/forum-system/forum-backend/internal/access"
	"github.com/forum-system/forum-backend/internal/core"
)

// TxRunner runs a function against a transaction-scoped repository. The
// reaction toggle reads and writes the same row and must see a consistent
// snapshot.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(Repository) error) error
}

type sqlTxRunner struct {
	db *sqlx.DB
}

func NewTxRunner(db *sqlx.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) RunInTx(
	ctx context.Context,
	fn func(Repository) error,
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		return fn(NewRepository(tx))
	})
}

// Service owns topics, replies and reactions. Every operation runs its
// authorization checks before the first mutation.
type Service struct {
	repo  Repository
	tx    TxRunner
	guard *access.Guard
}

func NewService(repo Repository, tx TxRunner, guard *access.Guard) *Service {
	return &Service{repo: repo, tx: tx, guard: guard}
}

func topicState(t *Topic) access.TopicState {
	return access.TopicState{
		ID:         t.ID,
		AuthorID:   t.AuthorID,
		CategoryID: t.CategoryID,
		IsLocked:   t.IsLocked,
	}
}

func (s *Service) CreateTopic(
	ctx context.Context,
	actorID string,
	req CreateTopicRequest,
) (*Topic, error) {
	err := s.guard.AuthorizeTopicCreate(ctx, actorID, req.CategoryID, req.Title)
	if err != nil {
		return nil, err
	}

	topic := &Topic{
		ID:         uuid.New().String(),
		Title:      req.Title,
		Content:    req.Content,
		AuthorID:   actorID,
		CategoryID: req.CategoryID,
	}

	if err := s.repo.CreateTopic(ctx, topic); err != nil {
		return nil, err
	}

	return topic, nil
}

func (s *Service) GetTopic(
	ctx context.Context,
	actorID, topicID string,
) (*Topic, error) {
	topic, err := s.repo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.AuthorizeTopicRead(ctx, actorID, topicState(topic)); err != nil {
		return nil, err
	}

	return topic, nil
}

func (s *Service) ListTopics(
	ctx context.Context,
	actorID, categoryID string,
	params ListTopicsParams,
) ([]Topic, int, error) {
	err := s.guard.AuthorizeCategoryRead(ctx, actorID, categoryID)
	if err != nil {
		return nil, 0, err
	}

	return s.repo.ListByCategory(ctx, categoryID, params)
}

// UpdateTopic covers title, content and category edits. Moving the topic
// requires write access to the destination category.
func (s *Service) UpdateTopic(
	ctx context.Context,
	actorID, topicID string,
	req UpdateTopicRequest,
) (*Topic, error) {
	topic, err := s.repo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	targetCategoryID := topic.CategoryID
	if req.CategoryID != nil {
		targetCategoryID = *req.CategoryID
	}

	err = s.guard.AuthorizeTopicMutate(
		ctx,
		actorID,
		topicState(topic),
		targetCategoryID,
	)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != topic.Title {
		taken, err := s.repo.TitleExists(ctx, *req.Title)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf(
				"topic title taken: %w",
				core.ErrDuplicateKey,
			)
		}
		topic.Title = *req.Title
	}
	if req.Content != nil {
		topic.Content = *req.Content
	}
	topic.CategoryID = targetCategoryID

	if err := s.repo.UpdateTopic(ctx, topic); err != nil {
		return nil, err
	}

	return topic, nil
}

func (s *Service) DeleteTopic(
	ctx context.Context,
	actorID, topicID string,
) error {
	topic, err := s.repo.GetTopicByID(ctx, topicID)
	if err != nil {
		return err
	}

	err = s.guard.AuthorizeTopicMutate(
		ctx,
		actorID,
		topicState(topic),
		topic.CategoryID,
	)
	if err != nil {
		return err
	}

	return s.repo.DeleteTopic(ctx, topicID)
}

func (s *Service) SetTopicLock(
	ctx context.Context,
	actorID, topicID string,
	locked bool,
) error {
	if err := s.guard.AuthorizeLockToggle(ctx, actorID); err != nil {
		return err
	}

	return s.repo.SetTopicLocked(ctx, topicID, locked)
}

// SelectBestReply points the topic at one of its own replies. A reply id
// from a different topic is rejected as not found.
func (s *Service) SelectBestReply(
	ctx context.Context,
	actorID, topicID, replyID string,
) (*Topic, error) {
	topic, err := s.repo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	reply, err := s.repo.GetReplyByID(ctx, replyID)
	if err != nil {
		return nil, err
	}

	err = s.guard.AuthorizeBestReplySelect(
		ctx,
		actorID,
		topicState(topic),
		access.ReplyState{
			ID:       reply.ID,
			AuthorID: reply.AuthorID,
			TopicID:  reply.TopicID,
		},
	)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetBestReply(ctx, topicID, &replyID); err != nil {
		return nil, err
	}

	topic.BestReplyID = &replyID
	return topic, nil
}

func (s *Service) CreateReply(
	ctx context.Context,
	actorID, topicID string,
	req CreateReplyRequest,
) (*Reply, error) {
	topic, err := s.repo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	err = s.guard.AuthorizeReplyCreate(ctx, actorID, topicState(topic))
	if err != nil {
		return nil, err
	}

	reply := &Reply{
		ID:       uuid.New().String(),
		Content:  req.Content,
		AuthorID: actorID,
		TopicID:  topicID,
	}

	if err := s.repo.CreateReply(ctx, reply); err != nil {
		return nil, err
	}

	return reply, nil
}

func (s *Service) ListReplies(
	ctx context.Context,
	actorID, topicID string,
) ([]Reply, error) {
	topic, err := s.repo.GetTopicByID(ctx, topicID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.AuthorizeTopicRead(ctx, actorID, topicState(topic)); err != nil {
		return nil, err
	}

	return s.repo.ListReplies(ctx, topicID)
}

func (s *Service) replyWithTopic(
	ctx context.Context,
	replyID string,
) (*Reply, *Topic, error) {
	reply, err := s.repo.GetReplyByID(ctx, replyID)
	if err != nil {
		return nil, nil, err
	}

	topic, err := s.repo.GetTopicByID(ctx, reply.TopicID)
	if err != nil {
		return nil, nil, err
	}

	return reply, topic, nil
}

func (s *Service) UpdateReply(
	ctx context.Context,
	actorID, replyID string,
	req UpdateReplyRequest,
) (*Reply, error) {
	reply, topic, err := s.replyWithTopic(ctx, replyID)
	if err != nil {
		return nil, err
	}

	err = s.guard.AuthorizeReplyMutate(
		ctx,
		actorID,
		topicState(topic),
		access.ReplyState{
			ID:       reply.ID,
			AuthorID: reply.AuthorID,
			TopicID:  reply.TopicID,
		},
	)
	if err != nil {
		return nil, err
	}

	reply.Content = req.Content
	if err := s.repo.UpdateReply(ctx, reply); err != nil {
		return nil, err
	}

	return reply, nil
}

func (s *Service) DeleteReply(
	ctx context.Context,
	actorID, replyID string,
) error {
	reply, topic, err := s.replyWithTopic(ctx, replyID)
	if err != nil {
		return err
	}

	err = s.guard.AuthorizeReplyMutate(
		ctx,
		actorID,
		topicState(topic),
		access.ReplyState{
			ID:       reply.ID,
			AuthorID: reply.AuthorID,
			TopicID:  reply.TopicID,
		},
	)
	if err != nil {
		return err
	}

	return s.repo.DeleteReply(ctx, replyID)
}

// ToggleReaction applies the vote toggle: no prior vote creates one,
// repeating the same value removes it, the opposite value flips it. The
// returned reaction is nil when the toggle removed the vote.
func (s *Service) ToggleReaction(
	ctx context.Context,
	actorID, replyID, value string,
) (*Reaction, error) {
	if value != ReactionUp && value != ReactionDown {
		return nil, fmt.Errorf("invalid reaction: %w", core.ErrInvalidInput)
	}

	reply, err := s.repo.GetReplyByID(ctx, replyID)
	if err != nil {
		return nil, err
	}

	topic, err := s.repo.GetTopicByID(ctx, reply.TopicID)
	if err != nil {
		return nil, err
	}

	if err := s.guard.AuthorizeTopicRead(ctx, actorID, topicState(topic)); err != nil {
		return nil, err
	}

	var result *Reaction
	err = s.tx.RunInTx(ctx, func(repo Repository) error {
		existing, err := repo.GetReaction(ctx, actorID, replyID)
		if err != nil && !errors.Is(err, core.ErrNotFound) {
			return err
		}

		if existing != nil && existing.Value == value {
			result = nil
			return repo.DeleteReaction(ctx, actorID, replyID)
		}

		reaction := &Reaction{
			UserID:  actorID,
			ReplyID: replyID,
			Value:   value,
		}
		if err := repo.UpsertReaction(ctx, reaction); err != nil {
			return err
		}

		result = reaction
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *Service) GetReactionCounts(
	ctx context.Context,
	replyID string,
) (int, int, error) {
	return s.repo.CountReactions(ctx, replyID)
}
