// AngelaMos | 2026
// repository.go

package topic

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/forum-system/forum-backend/internal/core"
)

type Repository interface {
	CreateTopic(ctx context.Context, topic *Topic) error
	GetTopicByID(ctx context.Context, id string) (*Topic, error)
	TitleExists(ctx context.Context, title string) (bool, error)
	ListByCategory(
		ctx context.Context,
		categoryID string,
		params ListTopicsParams,
	) ([]Topic, int, error)
	UpdateTopic(ctx context.Context, topic *Topic) error
	DeleteTopic(ctx context.Context, id string) error
	SetTopicLocked(ctx context.Context, id string, locked bool) error
	SetBestReply(ctx context.Context, topicID string, replyID *string) error

	CreateReply(ctx context.Context, reply *Reply) error
	GetReplyByID(ctx context.Context, id string) (*Reply, error)
	ListReplies(ctx context.Context, topicID string) ([]Reply, error)
	UpdateReply(ctx context.Context, reply *Reply) error
	DeleteReply(ctx context.Context, id string) error

	GetReaction(
		ctx context.Context,
		userID, replyID string,
	) (*Reaction, error)
	UpsertReaction(ctx context.Context, reaction *Reaction) error
	DeleteReaction(ctx context.Context, userID, replyID string) error
	CountReactions(ctx context.Context, replyID string) (up, down int, err error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateTopic(ctx context.Context, topic *Topic) error {
	query := `
		INSERT INTO topics (id, title, content, author_id, category_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &topic.CreatedAt, query,
		topic.ID,
		topic.Title,
		topic.Content,
		topic.AuthorID,
		topic.CategoryID,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create topic: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create topic: %w", err)
	}

	return nil
}

func (r *repository) GetTopicByID(
	ctx context.Context,
	id string,
) (*Topic, error) {
	query := `
		SELECT id, title, content, is_locked, author_id, category_id,
		       best_reply_id, created_at
		FROM topics
		WHERE id = $1`

	var topic Topic
	err := r.db.GetContext(ctx, &topic, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get topic: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get topic: %w", err)
	}

	return &topic, nil
}

// TitleExists checks global title uniqueness. Titles are unique across
// all categories, not within one.
func (r *repository) TitleExists(
	ctx context.Context,
	title string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM topics WHERE title = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, title); err != nil {
		return false, fmt.Errorf("check title: %w", err)
	}

	return exists, nil
}

func (r *repository) ListByCategory(
	ctx context.Context,
	categoryID string,
	params ListTopicsParams,
) ([]Topic, int, error) {
	params.Normalize()

	countQuery := `SELECT COUNT(*) FROM topics WHERE category_id = $1`
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, categoryID); err != nil {
		return nil, 0, fmt.Errorf("count topics: %w", err)
	}

	query := `
		SELECT id, title, content, is_locked, author_id, category_id,
		       best_reply_id, created_at
		FROM topics
		WHERE category_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	var topics []Topic
	err := r.db.SelectContext(
		ctx,
		&topics,
		query,
		categoryID,
		params.PageSize,
		params.Offset(),
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list topics: %w", err)
	}

	return topics, total, nil
}

func (r *repository) UpdateTopic(ctx context.Context, topic *Topic) error {
	query := `
		UPDATE topics
		SET title = $2, content = $3, category_id = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		topic.ID,
		topic.Title,
		topic.Content,
		topic.CategoryID,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update topic: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update topic: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update topic: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update topic: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteTopic(ctx context.Context, id string) error {
	query := `DELETE FROM topics WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete topic: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetTopicLocked(
	ctx context.Context,
	id string,
	locked bool,
) error {
	query := `UPDATE topics SET is_locked = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, locked)
	if err != nil {
		return fmt.Errorf("set topic lock: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set topic lock: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set topic lock: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetBestReply(
	ctx context.Context,
	topicID string,
	replyID *string,
) error {
	query := `UPDATE topics SET best_reply_id = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, topicID, replyID)
	if err != nil {
		return fmt.Errorf("set best reply: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set best reply: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set best reply: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CreateReply(ctx context.Context, reply *Reply) error {
	query := `
		INSERT INTO replies (id, content, author_id, topic_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &reply.CreatedAt, query,
		reply.ID,
		reply.Content,
		reply.AuthorID,
		reply.TopicID,
	)
	if err != nil {
		return fmt.Errorf("create reply: %w", err)
	}

	return nil
}

func (r *repository) GetReplyByID(
	ctx context.Context,
	id string,
) (*Reply, error) {
	query := `
		SELECT id, content, author_id, topic_id, created_at
		FROM replies
		WHERE id = $1`

	var reply Reply
	err := r.db.GetContext(ctx, &reply, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get reply: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reply: %w", err)
	}

	return &reply, nil
}

func (r *repository) ListReplies(
	ctx context.Context,
	topicID string,
) ([]Reply, error) {
	query := `
		SELECT id, content, author_id, topic_id, created_at
		FROM replies
		WHERE topic_id = $1
		ORDER BY created_at`

	var replies []Reply
	if err := r.db.SelectContext(ctx, &replies, query, topicID); err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}

	return replies, nil
}

func (r *repository) UpdateReply(ctx context.Context, reply *Reply) error {
	query := `UPDATE replies SET content = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, reply.ID, reply.Content)
	if err != nil {
		return fmt.Errorf("update reply: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update reply: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update reply: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteReply(ctx context.Context, id string) error {
	query := `DELETE FROM replies WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete reply: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete reply: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) GetReaction(
	ctx context.Context,
	userID, replyID string,
) (*Reaction, error) {
	query := `
		SELECT user_id, reply_id, value, created_at
		FROM reply_reactions
		WHERE user_id = $1 AND reply_id = $2`

	var reaction Reaction
	err := r.db.GetContext(ctx, &reaction, query, userID, replyID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get reaction: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get reaction: %w", err)
	}

	return &reaction, nil
}

func (r *repository) UpsertReaction(
	ctx context.Context,
	reaction *Reaction,
) error {
	query := `
		INSERT INTO reply_reactions (user_id, reply_id, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, reply_id)
		DO UPDATE SET value = EXCLUDED.value
		RETURNING created_at`

	err := r.db.GetContext(ctx, &reaction.CreatedAt, query,
		reaction.UserID,
		reaction.ReplyID,
		reaction.Value,
	)
	if err != nil {
		return fmt.Errorf("upsert reaction: %w", err)
	}

	return nil
}

func (r *repository) DeleteReaction(
	ctx context.Context,
	userID, replyID string,
) error {
	query := `
		DELETE FROM reply_reactions
		WHERE user_id = $1 AND reply_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, replyID); err != nil {
		return fmt.Errorf("delete reaction: %w", err)
	}

	return nil
}

func (r *repository) CountReactions(
	ctx context.Context,
	replyID string,
) (int, int, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE value = 'up')   AS up,
			COUNT(*) FILTER (WHERE value = 'down') AS down
		FROM reply_reactions
		WHERE reply_id = $1`

	var counts struct {
		Up   int `db:"up"`
		Down int `db:"down"`
	}
	if err := r.db.GetContext(ctx, &counts, query, replyID); err != nil {
		return 0, 0, fmt.Errorf("count reactions: %w", err)
	}

	return counts.Up, counts.Down, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
