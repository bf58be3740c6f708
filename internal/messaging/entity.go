// AngelaMos | 2026
// entity.go

package messaging

import "time"

// Conversation is the single thread between a pair of users. The pair is
// stored in normalized order (user_a < user_b) so each pair maps to
// exactly one row.
type Conversation struct {
	ID        string    `db:"id"         json:"id"`
	UserAID   string    `db:"user_a_id"  json:"user_a_id"`
	UserBID   string    `db:"user_b_id"  json:"user_b_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Participant reports whether a user belongs to the conversation.
func (c *Conversation) Participant(userID string) bool {
	return c.UserAID == userID || c.UserBID == userID
}

type Message struct {
	ID             string    `db:"id"              json:"id"`
	ConversationID string    `db:"conversation_id" json:"conversation_id"`
	SenderID       string    `db:"sender_id"       json:"sender_id"`
	Content        string    `db:"content"         json:"content"`
	CreatedAt      time.Time `db:"created_at"      json:"created_at"`
}
