// AngelaMos | 2026
// entity.go

package topic

import "time"

// Topic is a discussion thread. BestReplyID is a weak back-reference to
// one of the topic's own replies; it is validated against the topic at
// write time and never owns the reply it points to.
type Topic struct {
	ID          string    `db:"id"            json:"id"`
	Title       string    `db:"title"         json:"title"`
	Content     string    `db:"content"       json:"content"`
	IsLocked    bool      `db:"is_locked"     json:"is_locked"`
	AuthorID    string    `db:"author_id"     json:"author_id"`
	CategoryID  string    `db:"category_id"   json:"category_id"`
	BestReplyID *string   `db:"best_reply_id" json:"best_reply_id,omitempty"`
	CreatedAt   time.Time `db:"created_at"    json:"created_at"`
}

type Reply struct {
	ID        string    `db:"id"         json:"id"`
	Content   string    `db:"content"    json:"content"`
	AuthorID  string    `db:"author_id"  json:"author_id"`
	TopicID   string    `db:"topic_id"   json:"topic_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

const (
	ReactionUp   = "up"
	ReactionDown = "down"
)

// Reaction is a per-(user, reply) vote. At most one row exists per pair;
// casting the same value again removes it, casting the opposite flips it.
type Reaction struct {
	UserID    string    `db:"user_id"    json:"user_id"`
	ReplyID   string    `db:"reply_id"   json:"reply_id"`
	Value     string    `db:"value"      json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
