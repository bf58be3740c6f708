// AngelaMos | 2026
// entity.go

package category

import "time"

// Category groups topics and carries the two moderation axes the access
// layer evaluates: privacy gates visibility, lock gates mutation.
type Category struct {
	ID          string    `db:"id"          json:"id"`
	Name        string    `db:"name"        json:"name"`
	Description string    `db:"description" json:"description"`
	IsPrivate   bool      `db:"is_private"  json:"is_private"`
	IsLocked    bool      `db:"is_locked"   json:"is_locked"`
	CreatedAt   time.Time `db:"created_at"  json:"created_at"`
}

// Grant is an explicit per-user permission row on one category. At most
// one row exists per (user, category); absence means no explicit grant.
type Grant struct {
	UserID      string    `db:"user_id"      json:"user_id"`
	CategoryID  string    `db:"category_id"  json:"category_id"`
	AccessLevel string    `db:"access_level" json:"access_level"`
	CreatedAt   time.Time `db:"created_at"   json:"created_at"`
}
