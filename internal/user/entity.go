// AngelaMos | 2026
// entity.go

package user

import (
	"time"
)

// User carries no admin flag. Admin status is the existence of an Admin
// marker row, looked up separately so the grant can be audited and revoked
// independently of the user record.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	TokenVersion string    `db:"token_version"`
	CreatedAt    time.Time `db:"created_at"`
}

// Admin is the 1:1 capability marker tied to a user.
type Admin struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}
