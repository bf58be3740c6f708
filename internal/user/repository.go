// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/forum-system/forum-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	BumpTokenVersion(ctx context.Context, id, newVersion string) error
	IsAdmin(ctx context.Context, userID string) (bool, error)
	GrantAdmin(ctx context.Context, admin *Admin) error
	RevokeAdmin(ctx context.Context, userID string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, email, password_hash, token_version)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &user.CreatedAt, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.TokenVersion,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, token_version, created_at
		FROM users
		WHERE id = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByUsername(
	ctx context.Context,
	username string,
) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, token_version, created_at
		FROM users
		WHERE username = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by username: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := `
		SELECT id, username, email, password_hash, token_version, created_at
		FROM users
		WHERE email = $1`

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) UpdatePassword(
	ctx context.Context,
	id, passwordHash string,
) error {
	query := `
		UPDATE users
		SET password_hash = $2
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}

	return nil
}

// BumpTokenVersion replaces the epoch wholesale. Concurrent bumps for the
// same user resolve last-write-wins; there is no compare-and-swap.
func (r *repository) BumpTokenVersion(
	ctx context.Context,
	id, newVersion string,
) error {
	query := `
		UPDATE users
		SET token_version = $2
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, newVersion)
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("bump token version: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("bump token version: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) IsAdmin(
	ctx context.Context,
	userID string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM admins WHERE user_id = $1)`

	var isAdmin bool
	if err := r.db.GetContext(ctx, &isAdmin, query, userID); err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}

	return isAdmin, nil
}

func (r *repository) GrantAdmin(ctx context.Context, admin *Admin) error {
	query := `
		INSERT INTO admins (id, user_id)
		VALUES ($1, $2)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &admin.CreatedAt, query,
		admin.ID,
		admin.UserID,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("grant admin: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("grant admin: %w", err)
	}

	return nil
}

func (r *repository) RevokeAdmin(ctx context.Context, userID string) error {
	query := `DELETE FROM admins WHERE user_id = $1`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("revoke admin: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke admin: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("revoke admin: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	var conditions string
	var args []any

	if params.Search != "" {
		conditions = "WHERE (username ILIKE $1 OR email ILIKE $1)"
		args = append(args, "%"+params.Search+"%")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM users %s", conditions)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, username, email, password_hash, token_version, created_at
		FROM users
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`,
		conditions, len(args)+1, len(args)+2)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
